package lrs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dpup/lrs/internal/lib/curve"
	"github.com/dpup/lrs/internal/lib/geo"
)

var (
	// ErrUnknownRoute is returned when no route has the requested ID
	ErrUnknownRoute = errors.New("unknown route")

	// ErrUnknownSystem is returned for an unsupported coordinate system
	ErrUnknownSystem = errors.New("unknown coordinate system")

	// ErrEmptyRoute is returned when a route geometry yields no usable curve
	ErrEmptyRoute = errors.New("route geometry yields no curve")
)

// System selects how coordinates are measured
type System string

const (
	Planar    System = "planar"    // Euclidean, coordinate units
	Spherical System = "spherical" // lng/lat degrees, meters
)

// ParseSystem converts a configuration value to a System
func ParseSystem(s string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case Planar:
		return Planar, nil
	case Spherical:
		return Spherical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
}

// Fragment describes one piece of a route
type Fragment struct {
	StartOffset int         `json:"start_offset"`
	Length      int         `json:"length"`
	BBox        geo.Rect    `json:"bbox"`
	Coords      []geo.Coord `json:"coords"`
}

// Match is a route a point was projected onto
type Match struct {
	RouteID    string                `json:"route_id"`
	Projection curve.CurveProjection `json:"projection"`
}

// Referencer locates points along the routes of a network without exposing
// the metric used to measure them
type Referencer interface {
	// System returns the coordinate system routes are measured in
	System() System

	// AddRoute fragments coords and registers the result under id, replacing
	// any previous route with the same id
	AddRoute(id, name string, coords []geo.Coord) error

	// RouteIDs returns the registered route ids in lexical order
	RouteIDs() []string

	// RouteName returns the display name of a route
	RouteName(id string) (string, error)

	// RouteLength returns the length of a route truncated toward zero
	RouteLength(id string) (int, error)

	// RouteGeometry returns the polyline of a route
	RouteGeometry(id string) ([]geo.Coord, error)

	// Fragments returns the pieces a route was split into
	Fragments(id string) ([]Fragment, error)

	// Project finds the closest position of point along a route
	Project(id string, point geo.Coord) (curve.CurveProjection, error)

	// Resolve returns the coordinate at distance along a route
	Resolve(id string, distance int) (geo.Coord, error)

	// ResolveClamped is Resolve with distance clamped to the route's extent
	ResolveClamped(id string, distance int) (geo.Coord, error)

	// Normal returns the unit normal of a route at distance
	Normal(id string, distance int) (geo.Line, error)

	// Intersect returns the first crossing of segment with a route
	Intersect(id string, segment geo.Line) (geo.Coord, bool, error)

	// Candidates projects point on each fragment of a route whose bounding
	// box contains it, in route order
	Candidates(id string, point geo.Coord) ([]curve.CurveProjection, error)

	// Lookup projects point on every route and keeps those within
	// maxDistance, closest first
	Lookup(point geo.Coord, maxDistance float64) []Match
}
