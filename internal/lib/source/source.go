// Package source loads route geometry from inline coordinates, Google
// encoded polylines and GeoJSON documents.
package source

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dpup/lrs/internal/lib/geo"
)

var (
	// ErrNoGeometry is returned when a definition or document has no line geometry
	ErrNoGeometry = errors.New("no route geometry")

	// ErrInvalidCoordinates is returned for coordinates that are not finite
	// or not given as (x, y) pairs
	ErrInvalidCoordinates = errors.New("invalid route coordinates")

	// ErrAmbiguousGeometry is returned when a definition names several geometries
	ErrAmbiguousGeometry = errors.New("route defines more than one geometry")
)

// Route is a loaded polyline ready to be registered
type Route struct {
	ID     string
	Name   string
	Coords []geo.Coord
}

// Definition tells where the geometry of one or more routes comes from.
// Exactly one of Coordinates, EncodedPolyline and GeoJSON must be set.
type Definition struct {
	ID   string
	Name string

	// Coordinates are [x, y] pairs, [lng, lat] for geographic routes
	Coordinates [][]float64

	// EncodedPolyline is a Google encoded polyline
	EncodedPolyline string

	// GeoJSON is the path of a FeatureCollection file. Every LineString and
	// every line of a MultiLineString becomes a route.
	GeoJSON string
}

// Load resolves a definition into routes
func Load(def Definition) ([]Route, error) {
	set := 0
	for _, ok := range []bool{len(def.Coordinates) > 0, def.EncodedPolyline != "", def.GeoJSON != ""} {
		if ok {
			set++
		}
	}
	switch {
	case set == 0:
		return nil, fmt.Errorf("route %q: %w", def.ID, ErrNoGeometry)
	case set > 1:
		return nil, fmt.Errorf("route %q: %w", def.ID, ErrAmbiguousGeometry)
	}

	switch {
	case len(def.Coordinates) > 0:
		r, err := FromPairs(def.ID, def.Name, def.Coordinates)
		if err != nil {
			return nil, err
		}
		return []Route{r}, nil
	case def.EncodedPolyline != "":
		r, err := FromPolyline(def.ID, def.Name, def.EncodedPolyline)
		if err != nil {
			return nil, err
		}
		return []Route{r}, nil
	default:
		data, err := os.ReadFile(def.GeoJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to read GeoJSON for route %q: %w", def.ID, err)
		}
		return FromGeoJSON(def.ID, def.Name, data)
	}
}

// FromPairs builds a route from [x, y] pairs
func FromPairs(id, name string, pairs [][]float64) (Route, error) {
	coords := make([]geo.Coord, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return Route{}, fmt.Errorf("route %q: coordinate %d has %d values: %w", id, i, len(p), ErrInvalidCoordinates)
		}
		coords[i] = geo.C(p[0], p[1])
	}
	return FromCoords(id, name, coords)
}

// FromCoords builds a route after checking that every coordinate is finite
func FromCoords(id, name string, coords []geo.Coord) (Route, error) {
	if len(coords) == 0 {
		return Route{}, fmt.Errorf("route %q: %w", id, ErrNoGeometry)
	}
	for i, c := range coords {
		if !c.IsFinite() {
			return Route{}, fmt.Errorf("route %q: coordinate %d is %s: %w", id, i, c, ErrInvalidCoordinates)
		}
	}
	return Route{ID: id, Name: name, Coords: append([]geo.Coord(nil), coords...)}, nil
}

// FromPolyline decodes a Google encoded polyline into a route of
// (lng, lat) coordinates
func FromPolyline(id, name, encoded string) (Route, error) {
	pl, err := geo.DecodePolyline(encoded)
	if err != nil {
		return Route{}, fmt.Errorf("route %q: %w: %w", id, ErrInvalidCoordinates, err)
	}
	return FromCoords(id, name, pl.Coords)
}

// FromGeoJSON extracts the line features of a FeatureCollection.
//
// A feature's "id" and "name" properties take precedence over its ID and the
// defaults. Features without an ID are named after id and their index, and
// lines of a MultiLineString get a "/<n>" suffix.
func FromGeoJSON(id, name string, data []byte) ([]Route, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON for route %q: %w", id, err)
	}

	var routes []Route
	for i, f := range fc.Features {
		featureID := featureID(f, id, i, len(fc.Features))
		featureName := f.Properties.MustString("name", name)

		var lines []orb.LineString
		switch g := f.Geometry.(type) {
		case orb.LineString:
			lines = []orb.LineString{g}
		case orb.MultiLineString:
			lines = g
		default:
			continue
		}

		for j, ls := range lines {
			lineID := featureID
			if len(lines) > 1 {
				lineID = featureID + "/" + strconv.Itoa(j)
			}
			r, err := FromCoords(lineID, featureName, geo.FromOrb(ls))
			if err != nil {
				return nil, err
			}
			routes = append(routes, r)
		}
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("route %q: GeoJSON has no line features: %w", id, ErrNoGeometry)
	}
	return routes, nil
}

func featureID(f *geojson.Feature, fallback string, index, count int) string {
	if id := f.Properties.MustString("id", ""); id != "" {
		return id
	}
	switch v := f.ID.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if count == 1 && fallback != "" {
		return fallback
	}
	return fallback + "-" + strconv.Itoa(index)
}
