package lrs

import (
	"errors"
	"fmt"

	"github.com/dpup/lrs/internal/lib/curve"
	"github.com/dpup/lrs/internal/lib/geo"
)

// Route is a named logical curve made of consecutive fragments. Distances
// produced or consumed by a route are measured from the start of its first
// fragment.
type Route[K curve.Kernel] struct {
	ID   string
	Name string

	geom      []geo.Coord
	fragments []*curve.Curve[K]
	length    float64
}

// NewRoute splits coords into fragments no longer than maxLen and assigns each
// fragment its offset along the route. A maxLen below one keeps the geometry
// as a single curve.
func NewRoute[K curve.Kernel](id, name string, coords []geo.Coord, maxLen, maxExtent int) (*Route[K], error) {
	var fragments []*curve.Curve[K]
	if maxLen < 1 {
		c := curve.New[K](coords, maxExtent)
		if c.IsValid() {
			fragments = []*curve.Curve[K]{c}
		}
	} else {
		for _, f := range curve.Fragment[K](coords, maxLen, maxExtent) {
			if f.IsValid() {
				fragments = append(fragments, f)
			}
		}
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("route %q: %w", id, ErrEmptyRoute)
	}

	cumulative := 0.0
	for _, f := range fragments {
		f.StartOffset = int(cumulative)
		cumulative += f.ExactLength()
	}

	return &Route[K]{
		ID:        id,
		Name:      name,
		geom:      append([]geo.Coord(nil), coords...),
		fragments: fragments,
		length:    cumulative,
	}, nil
}

// Geometry returns a copy of the coordinates the route was built from
func (r *Route[K]) Geometry() []geo.Coord {
	return append([]geo.Coord(nil), r.geom...)
}

// Length returns the length of the route truncated toward zero
func (r *Route[K]) Length() int {
	return int(r.length)
}

// Fragments describes the pieces of the route in order
func (r *Route[K]) Fragments() []Fragment {
	result := make([]Fragment, 0, len(r.fragments))
	for _, f := range r.fragments {
		bbox, _ := f.BBox()
		result = append(result, Fragment{
			StartOffset: f.StartOffset,
			Length:      f.Length(),
			BBox:        bbox,
			Coords:      f.Geometry(),
		})
	}
	return result
}

// Project projects point on every fragment and keeps the projection closest
// to the route. Ties go to the earlier fragment.
func (r *Route[K]) Project(point geo.Coord) (curve.CurveProjection, error) {
	var (
		best     curve.CurveProjection
		bestDist float64
		found    bool
	)
	for _, f := range r.fragments {
		p, err := f.Project(point)
		if err != nil {
			return curve.CurveProjection{}, err
		}
		// Offsets are truncated, compare the exact distance
		if d := f.Distance(point); !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, nil
}

// Lookup returns the projections of point on the fragments whose bounding
// box contains it
func (r *Route[K]) Lookup(point geo.Coord) []curve.CurveProjection {
	var result []curve.CurveProjection
	for _, f := range r.fragments {
		bbox, err := f.BBox()
		if err != nil || !bbox.Contains(point) {
			continue
		}
		if p, err := f.Project(point); err == nil {
			result = append(result, p)
		}
	}
	return result
}

// Resolve returns the coordinate at distance along the route
func (r *Route[K]) Resolve(distance int) (geo.Coord, error) {
	projection := curve.CurveProjection{DistanceAlongCurve: distance}
	for _, f := range r.fragments {
		c, err := f.Resolve(projection)
		if errors.Is(err, curve.ErrNotOnTheCurve) {
			continue
		}
		return c, err
	}
	return geo.Coord{}, curve.ErrNotOnTheCurve
}

// ResolveClamped resolves distance after clamping it to the route extent
func (r *Route[K]) ResolveClamped(distance int) (geo.Coord, error) {
	last := r.fragments[len(r.fragments)-1]
	end := last.StartOffset + last.Length()
	switch {
	case distance < 0:
		distance = 0
	case distance > end:
		distance = end
	}
	return r.Resolve(distance)
}

// Normal returns the unit normal at distance along the route
func (r *Route[K]) Normal(distance int) (geo.Line, error) {
	for _, f := range r.fragments {
		n, err := f.Normal(distance)
		if errors.Is(err, curve.ErrNotOnTheCurve) {
			continue
		}
		return n, err
	}
	return geo.Line{}, curve.ErrNotOnTheCurve
}

// Intersect returns the first crossing of segment with the route, in route
// order
func (r *Route[K]) Intersect(segment geo.Line) (geo.Coord, bool) {
	for _, f := range r.fragments {
		if c, ok := f.Intersect(segment); ok {
			return c, true
		}
	}
	return geo.Coord{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
