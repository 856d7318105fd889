package geo

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"
)

// ErrEmptyPolyline is returned when decoding an empty encoded polyline
var ErrEmptyPolyline = errors.New("encoded polyline string is empty")

// DecodePolyline decodes a Google encoded polyline. The encoding stores
// (latitude, longitude) pairs, which are returned as Coord{X: lng, Y: lat}.
func DecodePolyline(encoded string) (Polyline, error) {
	if encoded == "" {
		return Polyline{}, ErrEmptyPolyline
	}

	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return Polyline{}, fmt.Errorf("failed to decode polyline: %w", err)
	}
	if len(rest) > 0 {
		return Polyline{}, fmt.Errorf("failed to decode polyline: %d trailing bytes", len(rest))
	}

	result := Polyline{
		EncodedPolyline: encoded,
		Coords:          make([]Coord, len(coords)),
	}
	for i, c := range coords {
		result.Coords[i] = Coord{X: c[1], Y: c[0]}
		if !IsGeographic(result.Coords[i]) {
			return Polyline{}, fmt.Errorf("decoded polyline contains invalid coordinates at index %d: %s", i, result.Coords[i])
		}
	}
	return result, nil
}

// EncodePolyline returns the Google encoded form of coords, which are
// expected as Coord{X: lng, Y: lat}
func EncodePolyline(coords []Coord) string {
	pairs := make([][]float64, len(coords))
	for i, c := range coords {
		pairs[i] = []float64{c.Y, c.X}
	}
	return string(polyline.EncodeCoords(pairs))
}

// IsGeographic reports whether c is a valid longitude/latitude pair
func IsGeographic(c Coord) bool {
	return c.Y >= -90 && c.Y <= 90 &&
		c.X >= -180 && c.X <= 180
}

// SplitEqual cuts coords into n pieces of equal length as measured by
// segLen. lerp places the cut points inside a segment. It returns false when
// the sequence cannot be split: no coordinates, n < 1, or a total length that
// is zero or not finite.
func SplitEqual(coords []Coord, n int, segLen func(a, b Coord) float64, lerp func(a, b Coord, t float64) Coord) ([][]Coord, bool) {
	if n < 1 || len(coords) == 0 {
		return nil, false
	}
	if n == 1 {
		return [][]Coord{append([]Coord(nil), coords...)}, true
	}

	lengths := make([]float64, 0, len(coords)-1)
	total := 0.0
	for i := 0; i < len(coords)-1; i++ {
		l := segLen(coords[i], coords[i+1])
		lengths = append(lengths, l)
		total += l
	}
	if total <= 0 || !(Coord{X: total}).IsFinite() {
		return nil, false
	}

	step := total / float64(n)
	pieces := make([][]Coord, 0, n)
	current := []Coord{coords[0]}
	cum := 0.0
	k := 1
	for i, l := range lengths {
		a, b := coords[i], coords[i+1]
		for k < n && cum+l >= step*float64(k) {
			cut := lerp(a, b, (step*float64(k)-cum)/l)
			current = append(current, cut)
			pieces = append(pieces, current)
			current = []Coord{cut}
			k++
		}
		if current[len(current)-1] != b {
			current = append(current, b)
		}
		cum += l
	}
	if len(current) > 1 {
		pieces = append(pieces, current)
	} else if len(pieces) < n {
		return nil, false
	}
	return pieces, true
}
