package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpup/lrs/internal/lib/curve"
	"github.com/dpup/lrs/internal/lib/export"
	"github.com/dpup/lrs/internal/lib/geo"
)

func (a *app) routesCmd() *cobra.Command {
	var encoded bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range a.ref.RouteIDs() {
				name, _ := a.ref.RouteName(id)
				length, _ := a.ref.RouteLength(id)
				fragments, _ := a.ref.Fragments(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tlength=%d\tfragments=%d", id, name, length, len(fragments))
				if encoded {
					coords, _ := a.ref.RouteGeometry(id)
					fmt.Fprintf(cmd.OutOrStdout(), "\tpolyline=%s", geo.EncodePolyline(coords))
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&encoded, "encoded", false, "also print each route as a Google encoded polyline")
	return cmd
}

func (a *app) projectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "project <route> <x> <y>",
		Short:   "Project a coordinate on a route",
		Example: `  lrs --config lrs.yaml project hwy4-angels-murphys -120.50 38.10
  lrs --config lrs.yaml project -- hwy4-angels-murphys -120.50 38.10`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := parseCoord(args[1], args[2])
			if err != nil {
				return err
			}
			p, err := a.ref.Project(args[0], point)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "distance_along_curve=%d offset=%d\n", p.DistanceAlongCurve, p.Offset)
			return nil
		},
	}
}

func (a *app) lookupCmd() *cobra.Command {
	var maxDistance float64
	cmd := &cobra.Command{
		Use:     "lookup <x> <y>",
		Short:   "Find the routes near a coordinate",
		Example: "  lrs --config lrs.yaml lookup -120.50 38.10 --max-distance 500",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := parseCoord(args[0], args[1])
			if err != nil {
				return err
			}
			matches := a.ref.Lookup(point, maxDistance)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no route within range")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tdistance_along_curve=%d offset=%d\n",
					m.RouteID, m.Projection.DistanceAlongCurve, m.Projection.Offset)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&maxDistance, "max-distance", 100, "largest offset from a route still reported")
	return cmd
}

func (a *app) resolveCmd() *cobra.Command {
	var clamp bool
	cmd := &cobra.Command{
		Use:   "resolve <route> <distance>",
		Short: "Find the coordinate at a distance along a route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			distance, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid distance %q: %w", args[1], err)
			}
			var c geo.Coord
			if clamp {
				c, err = a.ref.ResolveClamped(args[0], distance)
			} else {
				c, err = a.ref.Resolve(args[0], distance)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatCoord(c))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clamp, "clamp", false, "clamp the distance to the route extent")
	return cmd
}

func (a *app) normalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normal <route> <distance>",
		Short: "Compute the unit normal at a distance along a route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			distance, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid distance %q: %w", args[1], err)
			}
			n, err := a.ref.Normal(args[0], distance)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatCoord(n.Start), formatCoord(n.End))
			return nil
		},
	}
}

func (a *app) intersectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "intersect <route> <x1> <y1> <x2> <y2>",
		Short:   "Find where a segment crosses a route",
		Example: "  lrs --config lrs.yaml intersect hwy4-angels-murphys -120.50 38.05 -120.50 38.15",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseCoord(args[1], args[2])
			if err != nil {
				return err
			}
			end, err := parseCoord(args[3], args[4])
			if err != nil {
				return err
			}
			c, ok, err := a.ref.Intersect(args[0], geo.L(start, end))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no intersection")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatCoord(c))
			return nil
		},
	}
}

func (a *app) candidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <route> <x> <y>",
		Short: "Project a coordinate on every fragment whose bounding box contains it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := parseCoord(args[1], args[2])
			if err != nil {
				return err
			}
			projections, err := a.ref.Candidates(args[0], point)
			if err != nil {
				return err
			}
			if len(projections) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no fragment within extent")
				return nil
			}
			for _, p := range projections {
				fmt.Fprintf(cmd.OutOrStdout(), "distance_along_curve=%d offset=%d\n", p.DistanceAlongCurve, p.Offset)
			}
			return nil
		},
	}
}

func (a *app) fragmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fragments <route>",
		Short: "Show the fragments a route was split into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragments, err := a.ref.Fragments(args[0])
			if err != nil {
				return err
			}
			for i, f := range fragments {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\tstart_offset=%d\tlength=%d\tcoords=%d\tbbox=%s-%s\n",
					i, f.StartOffset, f.Length, len(f.Coords), formatCoord(f.BBox.Min), formatCoord(f.BBox.Max))
			}
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var (
		output       string
		normalsEvery int
	)
	cmd := &cobra.Command{
		Use:   "export-kml [route...]",
		Short: "Write routes, fragments and normals as KML",
		Long: `export-kml renders the given routes, or every route when none is given,
as a KML document. The start of every fragment is marked with its offset.
With --normals-every N a normal is drawn every N units along each route.
Distances where no normal can be computed are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if len(ids) == 0 {
				ids = a.ref.RouteIDs()
			}

			doc := export.NewDocument("lrs")
			var routes, pieces []export.Route
			var offsets []export.Marker
			var normals []geo.Line
			for _, id := range ids {
				coords, err := a.ref.RouteGeometry(id)
				if err != nil {
					return err
				}
				name, _ := a.ref.RouteName(id)
				routes = append(routes, export.Route{ID: id, Name: name, Coords: coords})

				fragments, err := a.ref.Fragments(id)
				if err != nil {
					return err
				}
				for i, f := range fragments {
					pieces = append(pieces, export.Route{ID: fmt.Sprintf("%s#%d", id, i), Coords: f.Coords})
					offsets = append(offsets, export.Marker{
						Name:        fmt.Sprintf("%s@%d", id, f.StartOffset),
						Description: fmt.Sprintf("start_offset=%d length=%d", f.StartOffset, f.Length),
						Coord:       f.Coords[0],
					})
				}

				if normalsEvery > 0 {
					length, _ := a.ref.RouteLength(id)
					for d := 0; d <= length; d += normalsEvery {
						n, err := a.ref.Normal(id, d)
						if errors.Is(err, curve.ErrNotOnTheCurve) || errors.Is(err, curve.ErrNotFiniteCoordinates) {
							a.logger.Debug("No normal at distance",
								zap.String("route_id", id),
								zap.Int("distance", d),
								zap.Error(err))
							continue
						}
						if err != nil {
							return err
						}
						normals = append(normals, n)
					}
				}
			}
			doc.AddRoutes("Routes", routes)
			doc.AddFragments("Fragments", pieces)
			doc.AddMarkers("Offsets", offsets)
			if len(normals) > 0 {
				doc.AddNormals("Normals", normals)
			}

			if output == "" || output == "-" {
				return doc.Write(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := doc.Write(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("KML written", zap.String("path", output), zap.Int("routes", len(routes)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	cmd.Flags().IntVar(&normalsEvery, "normals-every", 0, "draw a normal every N units along each route")
	return cmd
}

func decodePolylineCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "decode-polyline <encoded>",
		Short:   "Decode a Google encoded polyline into lng,lat pairs",
		Example: "  lrs decode-polyline '_p~iF~ps|U_ulLnnqC_mqNvxq`@'",
		Args:    cobra.ExactArgs(1),
		// Decoding needs no routes
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := geo.DecodePolyline(args[0])
			if err != nil {
				return err
			}
			for _, c := range pl.Coords {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatCoord(c))
			}
			return nil
		},
	}
}

func parseCoord(xs, ys string) (geo.Coord, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geo.Coord{}, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geo.Coord{}, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return geo.C(x, y), nil
}

func formatCoord(c geo.Coord) string {
	return strconv.FormatFloat(c.X, 'f', -1, 64) + "," + strconv.FormatFloat(c.Y, 'f', -1, 64)
}
