package curve

import "github.com/dpup/lrs/internal/lib/geo"

// Kernel is the metric capability a Curve is built on. Implementations
// define what length, distance and interpolation mean for their coordinate
// system, so the same curve algorithms serve planar and geodesic data.
//
// Kernels are expected to be stateless values.
type Kernel interface {
	// Length returns the total length of the polyline
	Length(coords []geo.Coord) float64

	// LocatePoint returns the fraction in [0, 1] of the polyline's length at
	// which the point closest to p lies, false when no finite fraction exists
	LocatePoint(coords []geo.Coord, p geo.Coord) (float64, bool)

	// Distance returns the distance between p and the closest point of the polyline
	Distance(p geo.Coord, coords []geo.Coord) float64

	// InterpolatePoint returns the point at fraction of the polyline's length
	InterpolatePoint(coords []geo.Coord, fraction float64) (geo.Coord, bool)

	// Segmentize splits the polyline into n pieces of equal length
	Segmentize(coords []geo.Coord, n int) ([][]geo.Coord, bool)

	// Orientation returns the turn direction of the triangle (a, b, c)
	Orientation(a, b, c geo.Coord) geo.Orientation

	// IntersectSegments classifies how two segments meet
	IntersectSegments(a, b geo.Line) geo.Intersection

	// SegmentContains reports whether p lies on l
	SegmentContains(l geo.Line, p geo.Coord) bool

	// Buffer grows r by d, in the kernel's length unit, on every side
	Buffer(r geo.Rect, d float64) geo.Rect
}
