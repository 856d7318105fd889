package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpup/lrs/internal/config"
	"github.com/dpup/lrs/internal/lib/lrs"
	"github.com/dpup/lrs/internal/lib/source"
	"github.com/dpup/lrs/internal/logging"
)

// app carries what every subcommand needs once the configuration is loaded
type app struct {
	configPath string
	system     string
	polyline   string
	geojson    string

	cfg    *config.Config
	logger *zap.Logger
	ref    lrs.Referencer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "lrs",
		Short: "Linear referencing along routes.",
		Long: `lrs locates points along routes: it projects coordinates to a distance
along a route and a signed offset, resolves distances back to coordinates,
and computes normals and crossings.

Routes come from the configuration file (--config), from an encoded polyline
(--polyline, registered as route "polyline") or from a GeoJSON file
(--geojson). Configuration values can be overridden with environment
variables such as LRS_SYSTEM or LRS_FRAGMENT__MAX_LENGTH.

Negative coordinates are read as arguments, not flags, so western
longitudes can be given as is. Arguments after "--" are never read as flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&a.system, "system", "", "coordinate system, planar or spherical (overrides the configuration)")
	flags.StringVar(&a.polyline, "polyline", "", "encoded polyline registered as route \"polyline\"")
	flags.StringVar(&a.geojson, "geojson", "", "GeoJSON FeatureCollection whose lines are registered as routes")

	root.AddCommand(
		a.routesCmd(),
		a.projectCmd(),
		a.lookupCmd(),
		a.resolveCmd(),
		a.normalCmd(),
		a.intersectCmd(),
		a.candidatesCmd(),
		a.fragmentsCmd(),
		a.exportCmd(),
		decodePolylineCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.system != "" {
		cfg.System = a.system
	}
	system, err := lrs.ParseSystem(cfg.System)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	ref, err := lrs.New(system, lrs.Options{
		MaxLength: cfg.Fragment.MaxLength,
		MaxExtent: cfg.Fragment.MaxExtent,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	defs := make([]source.Definition, 0, len(cfg.Routes)+2)
	for _, r := range cfg.Routes {
		defs = append(defs, r.ToDefinition())
	}
	if a.polyline != "" {
		defs = append(defs, source.Definition{ID: "polyline", EncodedPolyline: a.polyline})
	}
	if a.geojson != "" {
		defs = append(defs, source.Definition{ID: "geojson", GeoJSON: a.geojson})
	}

	for _, def := range defs {
		routes, err := source.Load(def)
		if err != nil {
			return err
		}
		for _, r := range routes {
			if err := ref.AddRoute(r.ID, r.Name, r.Coords); err != nil {
				return fmt.Errorf("failed to register route: %w", err)
			}
		}
	}

	logger.Debug("Configuration loaded",
		zap.String("system", string(system)),
		zap.Int("max_length", cfg.Fragment.MaxLength),
		zap.Int("max_extent", cfg.Fragment.MaxExtent),
		zap.Int("routes", len(ref.RouteIDs())))

	a.cfg, a.logger, a.ref = cfg, logger, ref
	return nil
}
