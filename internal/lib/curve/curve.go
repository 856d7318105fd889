// Package curve implements the path primitive of a linear referencing
// system: mapping a coordinate to a distance along a polyline and back.
//
// A Curve is parameterized by the Kernel that measures it, so planar and
// geodesic curves share every algorithm while each stays monomorphic.
package curve

import (
	"math"

	"github.com/dpup/lrs/internal/lib/geo"
)

// Curve is a polyline used as a one-dimensional coordinate system.
//
// A curve can be a fragment of a longer logical curve. StartOffset then
// tells how far along the longer curve this fragment begins, and every
// distance produced or consumed by the fragment is relative to the start of
// the longer curve. StartOffset must be assigned before the curve is shared
// between goroutines.
type Curve[K Kernel] struct {
	// StartOffset is the distance, along the logical curve, of the first
	// coordinate of this curve
	StartOffset int

	// MaxExtent is the distance from the geometry still considered to be
	// close to the curve. It only grows the bounding box.
	MaxExtent int

	geom   []geo.Coord
	kernel K
}

// New builds a curve from coords. The coordinates are copied.
func New[K Kernel](coords []geo.Coord, maxExtent int) *Curve[K] {
	return &Curve[K]{
		MaxExtent: maxExtent,
		geom:      append([]geo.Coord(nil), coords...),
	}
}

// Geometry returns a copy of the coordinates of the curve
func (c *Curve[K]) Geometry() []geo.Coord {
	return append([]geo.Coord(nil), c.geom...)
}

// IsValid reports whether the curve has at least two coordinates, and when
// it has exactly two, whether they differ
func (c *Curve[K]) IsValid() bool {
	n := len(c.geom)
	return n >= 2 && (n > 2 || !geo.IsClosed(c.geom))
}

// Length returns the length of the curve truncated toward zero
func (c *Curve[K]) Length() int {
	return int(c.kernel.Length(c.geom))
}

// ExactLength returns the untruncated length of the curve
func (c *Curve[K]) ExactLength() float64 {
	return c.kernel.Length(c.geom)
}

// BBox returns the bounding box of the curve grown by MaxExtent on every
// side, MaxExtent being measured by the kernel
func (c *Curve[K]) BBox() (geo.Rect, error) {
	r, ok := geo.BoundingRect(c.geom)
	if !ok {
		return geo.Rect{}, ErrInvalidGeometry
	}
	return c.kernel.Buffer(r, float64(c.MaxExtent)), nil
}

// Distance returns the untruncated distance between point and the curve
func (c *Curve[K]) Distance(point geo.Coord) float64 {
	return c.kernel.Distance(point, c.geom)
}

// Project returns where point lands on the curve: the distance to its closest
// position along the curve and its signed distance from the curve.
//
// There is no limit on how far point can be from the curve.
func (c *Curve[K]) Project(point geo.Coord) (CurveProjection, error) {
	if !c.IsValid() {
		return CurveProjection{}, ErrInvalidGeometry
	}

	location, ok := c.kernel.LocatePoint(c.geom, point)
	if !ok {
		return CurveProjection{}, ErrNotFiniteCoordinates
	}
	distanceAlongCurve := int(location*c.ExactLength()) + c.StartOffset

	begin := c.geom[0]
	end := c.geom[len(c.geom)-1]
	sign := -1.0
	if c.kernel.Orientation(point, end, begin) == geo.Clockwise {
		sign = 1.0
	}
	offset := int(c.kernel.Distance(point, c.geom) * sign)

	return CurveProjection{
		DistanceAlongCurve: distanceAlongCurve,
		Offset:             offset,
	}, nil
}

// Resolve returns the coordinate at projection's distance along the curve.
// The lateral offset of the projection is ignored.
func (c *Curve[K]) Resolve(projection CurveProjection) (geo.Coord, error) {
	if !c.IsValid() {
		return geo.Coord{}, ErrInvalidGeometry
	}
	fraction := float64(projection.DistanceAlongCurve-c.StartOffset) / float64(c.Length())
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return geo.Coord{}, ErrNotOnTheCurve
	}
	p, ok := c.kernel.InterpolatePoint(c.geom, fraction)
	if !ok {
		return geo.Coord{}, ErrNotFiniteCoordinates
	}
	return p, nil
}

// Intersect returns the first crossing, in curve order, between segment
// and the curve. Segments collinear with a part of the curve do not count.
// When the segment crosses the curve several times only one crossing is
// returned.
func (c *Curve[K]) Intersect(segment geo.Line) (geo.Coord, bool) {
	if !c.IsValid() {
		return geo.Coord{}, false
	}
	for _, line := range geo.Lines(c.geom) {
		i := c.kernel.IntersectSegments(segment, line)
		if i.Kind == geo.PointIntersection {
			return i.Point, true
		}
	}
	return geo.Coord{}, false
}

// Normal returns the unit vector perpendicular to the curve, pointing to
// its left, that starts at distance along the curve
func (c *Curve[K]) Normal(distance int) (geo.Line, error) {
	point, err := c.Resolve(CurveProjection{DistanceAlongCurve: distance})
	if err != nil {
		return geo.Line{}, err
	}

	var segment geo.Line
	found := false
	for _, line := range geo.Lines(c.geom) {
		if line.Start != line.End && c.kernel.SegmentContains(line, point) {
			segment, found = line, true
			break
		}
	}
	if !found {
		return geo.Line{}, ErrNotFiniteCoordinates
	}

	length := math.Hypot(segment.Dx(), segment.Dy())
	transform := geo.Translate(point.X-segment.Start.X, point.Y-segment.Start.Y).
		Then(geo.ScaleAbout(1/length, 1/length, point)).
		Then(geo.RotateAbout(90, point))
	return segment.Transform(transform), nil
}

// CurveProjection is a point expressed relative to a curve
type CurveProjection struct {
	// DistanceAlongCurve is the distance from the start of the logical curve,
	// StartOffset included
	DistanceAlongCurve int `json:"distance_along_curve"`

	// Offset is the distance between the point and the curve. It is positive
	// when the point is on the left of the curve and negative on the right.
	Offset int `json:"offset"`
}
