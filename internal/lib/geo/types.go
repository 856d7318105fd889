package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Coord represents a 2-D coordinate. For geographic data X is the longitude
// and Y the latitude, both in degrees.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// C is shorthand for Coord{X: x, Y: y}
func C(x, y float64) Coord {
	return Coord{X: x, Y: y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%g, %g)", c.X, c.Y)
}

// IsFinite reports whether both components are neither NaN nor infinite
func (c Coord) IsFinite() bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

func (c Coord) orb() orb.Point {
	return orb.Point{c.X, c.Y}
}

// Lerp linearly interpolates between c and o
func (c Coord) Lerp(o Coord, t float64) Coord {
	return Coord{
		X: c.X + t*(o.X-c.X),
		Y: c.Y + t*(o.Y-c.Y),
	}
}

// Line represents a directed segment between two coordinates
type Line struct {
	Start Coord `json:"start"`
	End   Coord `json:"end"`
}

// L is shorthand for Line{Start: start, End: end}
func L(start, end Coord) Line {
	return Line{Start: start, End: end}
}

// Dx returns the horizontal extent of the line
func (l Line) Dx() float64 {
	return l.End.X - l.Start.X
}

// Dy returns the vertical extent of the line
func (l Line) Dy() float64 {
	return l.End.Y - l.Start.Y
}

// Transform applies aff to both ends of the line
func (l Line) Transform(aff Affine) Line {
	return Line{
		Start: aff.Apply(l.Start),
		End:   aff.Apply(l.End),
	}
}

// Rect represents an axis-aligned rectangle
type Rect struct {
	Min Coord `json:"min"`
	Max Coord `json:"max"`
}

// Grow returns r expanded by d on all four sides
func (r Rect) Grow(d float64) Rect {
	return rectFromBound(r.bound().Pad(d))
}

// Contains reports whether c lies inside r or on its boundary
func (r Rect) Contains(c Coord) bool {
	return r.bound().Contains(c.orb())
}

func (r Rect) bound() orb.Bound {
	return orb.Bound{Min: r.Min.orb(), Max: r.Max.orb()}
}

func rectFromBound(b orb.Bound) Rect {
	return Rect{
		Min: Coord{X: b.Min.X(), Y: b.Min.Y()},
		Max: Coord{X: b.Max.X(), Y: b.Max.Y()},
	}
}

// Polyline represents an ordered sequence of coordinates, optionally carrying
// the Google encoded form it was decoded from
type Polyline struct {
	EncodedPolyline string  `json:"encoded_polyline,omitempty"`
	Coords          []Coord `json:"coords"`
}

// Lines returns the consecutive segments of coords
func Lines(coords []Coord) []Line {
	if len(coords) < 2 {
		return nil
	}
	lines := make([]Line, 0, len(coords)-1)
	for i := 0; i < len(coords)-1; i++ {
		lines = append(lines, Line{Start: coords[i], End: coords[i+1]})
	}
	return lines
}

// IsClosed reports whether the first and last coordinates are identical.
// An empty sequence is considered closed.
func IsClosed(coords []Coord) bool {
	if len(coords) == 0 {
		return true
	}
	return coords[0] == coords[len(coords)-1]
}

// BoundingRect returns the rectangle enclosing coords, false when coords is empty
func BoundingRect(coords []Coord) (Rect, bool) {
	if len(coords) == 0 {
		return Rect{}, false
	}
	return rectFromBound(ToOrb(coords).Bound()), true
}

// ToOrb converts coords to an orb line string
func ToOrb(coords []Coord) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = c.orb()
	}
	return ls
}

// FromOrb converts an orb line string to coords
func FromOrb(ls orb.LineString) []Coord {
	coords := make([]Coord, len(ls))
	for i, p := range ls {
		coords[i] = Coord{X: p.X(), Y: p.Y()}
	}
	return coords
}

// Orientation is the turn direction of three ordered points
type Orientation int

const (
	Collinear Orientation = iota
	Clockwise
	CounterClockwise
)

func (o Orientation) String() string {
	switch o {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counter-clockwise"
	default:
		return "collinear"
	}
}

// IntersectionKind classifies how two segments meet
type IntersectionKind int

const (
	NoIntersection IntersectionKind = iota
	PointIntersection
	CollinearIntersection
)

// Intersection represents the result of crossing two segments. Point is only
// meaningful for PointIntersection.
type Intersection struct {
	Kind  IntersectionKind
	Point Coord
}
