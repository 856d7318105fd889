// Package spherical measures curves on the surface of the Earth modelled as
// a sphere. Coordinates are longitude (X) and latitude (Y) in degrees;
// lengths and distances are in meters along great circles.
package spherical

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/dpup/lrs/internal/lib/curve"
	"github.com/dpup/lrs/internal/lib/geo"
)

// EarthRadius is the mean radius of the Earth in meters
const EarthRadius = 6371008.8

// containsTolerance is how far a point may be from an edge and still be on it
const containsTolerance = s1.Angle(1e-9)

// Kernel is the spherical metric kernel
type Kernel struct{}

var _ curve.Kernel = Kernel{}

// Curve is a curve measured on the sphere
type Curve = curve.Curve[Kernel]

// NewCurve builds a spherical curve
func NewCurve(coords []geo.Coord, maxExtent int) *Curve {
	return curve.New[Kernel](coords, maxExtent)
}

// Length returns the great-circle length of the polyline in meters
func (Kernel) Length(coords []geo.Coord) float64 {
	pl := polyline(coords)
	return meters(pl.Length())
}

// LocatePoint returns the fraction of the length at which the point of the
// polyline closest to p lies
func (Kernel) LocatePoint(coords []geo.Coord, p geo.Coord) (float64, bool) {
	if len(coords) == 0 || !allFinite(coords) || !p.IsFinite() {
		return 0, false
	}
	pl := polyline(coords)
	if len(coords) == 1 || pl.Length() == 0 {
		return 0, true
	}
	projected, next := pl.Project(point(p))
	return pl.Uninterpolate(projected, next), true
}

// Distance returns the great-circle distance in meters between p and the
// closest point of the polyline
func (Kernel) Distance(p geo.Coord, coords []geo.Coord) float64 {
	if len(coords) == 0 {
		return math.Inf(1)
	}
	pl := polyline(coords)
	x := point(p)
	projected, _ := pl.Project(x)
	return meters(x.Distance(projected))
}

// InterpolatePoint returns the point at fraction of the polyline's length.
// Fractions outside [0, 1] are clamped to the ends.
func (Kernel) InterpolatePoint(coords []geo.Coord, fraction float64) (geo.Coord, bool) {
	if len(coords) == 0 || math.IsNaN(fraction) {
		return geo.Coord{}, false
	}
	if fraction <= 0 || len(coords) == 1 {
		return coords[0], true
	}
	if fraction >= 1 {
		return coords[len(coords)-1], true
	}
	pl := polyline(coords)
	p, _ := pl.Interpolate(fraction)
	c := coord(p)
	return c, c.IsFinite()
}

// Segmentize splits the polyline into n pieces of equal great-circle length
func (Kernel) Segmentize(coords []geo.Coord, n int) ([][]geo.Coord, bool) {
	if !allFinite(coords) {
		return nil, false
	}
	return geo.SplitEqual(coords, n, func(a, b geo.Coord) float64 {
		return meters(point(a).Distance(point(b)))
	}, func(a, b geo.Coord, t float64) geo.Coord {
		return coord(s2.Interpolate(t, point(a), point(b)))
	})
}

// Orientation returns the turn direction of (a, b, c) seen from outside the
// sphere
func (Kernel) Orientation(a, b, c geo.Coord) geo.Orientation {
	switch s2.RobustSign(point(a), point(b), point(c)) {
	case s2.Clockwise:
		return geo.Clockwise
	case s2.CounterClockwise:
		return geo.CounterClockwise
	default:
		return geo.Collinear
	}
}

// IntersectSegments classifies how the great-circle edges a and b meet
func (Kernel) IntersectSegments(a, b geo.Line) geo.Intersection {
	a0, a1 := point(a.Start), point(a.End)
	b0, b1 := point(b.Start), point(b.End)

	switch s2.CrossingSign(a0, a1, b0, b1) {
	case s2.Cross:
		return geo.Intersection{Kind: geo.PointIntersection, Point: coord(s2.Intersection(a0, a1, b0, b1))}
	case s2.MaybeCross:
		if s2.RobustSign(a0, a1, b0) == s2.Indeterminate && s2.RobustSign(a0, a1, b1) == s2.Indeterminate {
			return geo.Intersection{Kind: geo.CollinearIntersection}
		}
		shared := a.End
		if a0 == b0 || a0 == b1 {
			shared = a.Start
		}
		return geo.Intersection{Kind: geo.PointIntersection, Point: shared}
	default:
		return geo.Intersection{Kind: geo.NoIntersection}
	}
}

// SegmentContains reports whether p lies on the great-circle edge l
func (Kernel) SegmentContains(l geo.Line, p geo.Coord) bool {
	return s2.DistanceFromSegment(point(p), point(l.Start), point(l.End)) <= containsTolerance
}

// Buffer grows the longitude/latitude rectangle r by d meters on every side.
// The result is the union of r with the bounds of the caps of radius d around
// its corners. Rectangles that wrap around the antimeridian span every
// longitude.
func (Kernel) Buffer(r geo.Rect, d float64) geo.Rect {
	if d <= 0 {
		return r
	}
	rect := s2.Rect{
		Lat: r1.Interval{Lo: radians(r.Min.Y), Hi: radians(r.Max.Y)},
		Lng: s1.IntervalFromEndpoints(radians(r.Min.X), radians(r.Max.X)),
	}
	radius := s1.ChordAngleFromAngle(s1.Angle(d / EarthRadius))
	grown := rect
	for i := 0; i < 4; i++ {
		c := s2.CapFromCenterChordAngle(s2.PointFromLatLng(rect.Vertex(i)), radius)
		grown = grown.Union(c.RectBound())
	}
	if grown.Lng.IsInverted() {
		grown.Lng = s1.FullInterval()
	}
	lo, hi := grown.Lo(), grown.Hi()
	return geo.Rect{
		Min: geo.C(lo.Lng.Degrees(), lo.Lat.Degrees()),
		Max: geo.C(hi.Lng.Degrees(), hi.Lat.Degrees()),
	}
}

func radians(degrees float64) float64 {
	return (s1.Angle(degrees) * s1.Degree).Radians()
}

func meters(a s1.Angle) float64 {
	return a.Radians() * EarthRadius
}

func point(c geo.Coord) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Y, c.X))
}

func coord(p s2.Point) geo.Coord {
	ll := s2.LatLngFromPoint(p)
	return geo.Coord{X: ll.Lng.Degrees(), Y: ll.Lat.Degrees()}
}

func polyline(coords []geo.Coord) *s2.Polyline {
	pl := make(s2.Polyline, len(coords))
	for i, c := range coords {
		pl[i] = point(c)
	}
	return &pl
}

func allFinite(coords []geo.Coord) bool {
	for _, c := range coords {
		if !c.IsFinite() {
			return false
		}
	}
	return true
}
