// Package planar measures curves in a Euclidean plane. Lengths and distances
// are in the units of the coordinates.
package planar

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/lineintersection"
	"github.com/twpayne/go-geom/xy/lineintersector"
	"github.com/twpayne/go-geom/xy/orientation"
	"gonum.org/v1/gonum/floats"

	"github.com/dpup/lrs/internal/lib/curve"
	"github.com/dpup/lrs/internal/lib/geo"
)

// Kernel is the planar metric kernel
type Kernel struct{}

var _ curve.Kernel = Kernel{}

// Curve is a curve measured in the plane
type Curve = curve.Curve[Kernel]

// NewCurve builds a planar curve
func NewCurve(coords []geo.Coord, maxExtent int) *Curve {
	return curve.New[Kernel](coords, maxExtent)
}

// Length returns the Euclidean length of the polyline
func (Kernel) Length(coords []geo.Coord) float64 {
	return lineString(coords).Length()
}

// LocatePoint returns the fraction of the length at which the point of the
// polyline closest to p lies. The first closest segment wins.
func (k Kernel) LocatePoint(coords []geo.Coord, p geo.Coord) (float64, bool) {
	if len(coords) == 0 {
		return 0, false
	}
	total := k.Length(coords)
	if total == 0 {
		return 0, true
	}

	pc := coord(p)
	best := math.Inf(1)
	fraction := 0.0
	cum := 0.0
	for _, line := range geo.Lines(coords) {
		t, ok := segmentFraction(line, p)
		if !ok {
			return 0, false
		}
		length := segmentLength(line)
		if d := xy.DistanceFromPointToLine(pc, coord(line.Start), coord(line.End)); d < best {
			best = d
			fraction = (cum + t*length) / total
		}
		cum += length
	}
	return fraction, true
}

// Distance returns the Euclidean distance between p and the polyline
func (Kernel) Distance(p geo.Coord, coords []geo.Coord) float64 {
	switch len(coords) {
	case 0:
		return math.Inf(1)
	case 1:
		return math.Hypot(p.X-coords[0].X, p.Y-coords[0].Y)
	default:
		return xy.DistanceFromPointToLineString(geom.XY, coord(p), flat(coords))
	}
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

	lines := geo.Lines(coords)
	lengths := make([]float64, len(lines))
	for i, line := range lines {
		lengths[i] = segmentLength(line)
	}
	cum := floats.CumSum(make([]float64, len(lengths)), lengths)
	target := fraction * cum[len(cum)-1]

	i := sort.SearchFloat64s(cum, target)
	if i == len(cum) {
		return coords[len(coords)-1], true
	}
	if lengths[i] == 0 {
		return lines[i].Start, true
	}
	along := target - (cum[i] - lengths[i])
	p := lines[i].Start.Lerp(lines[i].End, along/lengths[i])
	return p, p.IsFinite()
}

// Segmentize splits the polyline into n pieces of equal Euclidean length
func (Kernel) Segmentize(coords []geo.Coord, n int) ([][]geo.Coord, bool) {
	return geo.SplitEqual(coords, n, func(a, b geo.Coord) float64 {
		return segmentLength(geo.L(a, b))
	}, geo.Coord.Lerp)
}

// Orientation returns the turn direction of (a, b, c) using a robust
// determinant
func (Kernel) Orientation(a, b, c geo.Coord) geo.Orientation {
	switch xy.OrientationIndex(coord(a), coord(b), coord(c)) {
	case orientation.Clockwise:
		return geo.Clockwise
	case orientation.CounterClockwise:
		return geo.CounterClockwise
	default:
		return geo.Collinear
	}
}

// IntersectSegments classifies how a and b meet
func (Kernel) IntersectSegments(a, b geo.Line) geo.Intersection {
	result := lineintersector.LineIntersectsLine(&lineintersector.RobustLineIntersector{},
		coord(a.Start), coord(a.End), coord(b.Start), coord(b.End))
	switch result.Type() {
	case lineintersection.PointIntersection:
		p := result.Intersection()[0]
		return geo.Intersection{Kind: geo.PointIntersection, Point: geo.C(p[0], p[1])}
	case lineintersection.CollinearIntersection:
		return geo.Intersection{Kind: geo.CollinearIntersection}
	default:
		return geo.Intersection{Kind: geo.NoIntersection}
	}
}

// SegmentContains reports whether p lies exactly on l
func (k Kernel) SegmentContains(l geo.Line, p geo.Coord) bool {
	if l.Start == l.End {
		return p == l.Start
	}
	if k.Orientation(l.Start, l.End, p) != geo.Collinear {
		return false
	}
	return p.X >= math.Min(l.Start.X, l.End.X) && p.X <= math.Max(l.Start.X, l.End.X) &&
		p.Y >= math.Min(l.Start.Y, l.End.Y) && p.Y <= math.Max(l.Start.Y, l.End.Y)
}

// segmentFraction returns the clamped parameter of the point of l closest to p
func segmentFraction(l geo.Line, p geo.Coord) (float64, bool) {
	dx, dy := l.Dx(), l.Dy()
	sq := dx*dx + dy*dy
	if sq == 0 {
		return 0, true
	}
	r := ((p.X-l.Start.X)*dx + (p.Y-l.Start.Y)*dy) / sq
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(0, math.Min(1, r)), true
}

func segmentLength(l geo.Line) float64 {
	return math.Hypot(l.Dx(), l.Dy())
}

func coord(c geo.Coord) geom.Coord {
	return geom.Coord{c.X, c.Y}
}

func flat(coords []geo.Coord) []float64 {
	f := make([]float64, 0, 2*len(coords))
	for _, c := range coords {
		f = append(f, c.X, c.Y)
	}
	return f
}

func lineString(coords []geo.Coord) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, flat(coords))
}

// Buffer grows r by d on every side
func (Kernel) Buffer(r geo.Rect, d float64) geo.Rect {
	return r.Grow(d)
}
