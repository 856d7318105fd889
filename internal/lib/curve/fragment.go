package curve

import (
	"math"

	"github.com/dpup/lrs/internal/lib/geo"
)

// Fragment splits coords into curves of at most maxLen, all of the same
// length, each with the given maxExtent.
//
// The fragments are returned with a zero StartOffset; chaining them into one
// logical curve is up to the caller. Geometry that cannot be split (empty,
// zero length, non-finite coordinates, maxLen < 1) yields no fragments.
func Fragment[K Kernel](coords []geo.Coord, maxLen, maxExtent int) []*Curve[K] {
	if maxLen < 1 {
		return nil
	}

	var kernel K
	length := kernel.Length(coords)
	if math.IsNaN(length) || math.IsInf(length, 0) {
		return nil
	}
	n := int(math.Ceil(length / float64(maxLen)))

	pieces, ok := kernel.Segmentize(coords, n)
	if !ok {
		return nil
	}
	curves := make([]*Curve[K], 0, len(pieces))
	for _, piece := range pieces {
		curves = append(curves, New[K](piece, maxExtent))
	}
	return curves
}
