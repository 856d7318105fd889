package geo

import "math"

// Affine is a 2-D affine transform with coefficients (a, b, c, d, e, f)
// laid out as the augmented matrix
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// so that a.Mul(b) applies b first, then a.
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform
var Identity = Affine{A: 1, D: 1}

// Translate creates a translation by (dx, dy)
func Translate(dx, dy float64) Affine {
	return Affine{A: 1, D: 1, E: dx, F: dy}
}

// ScaleAbout creates a scaling by (sx, sy) that keeps origin fixed
func ScaleAbout(sx, sy float64, origin Coord) Affine {
	return Translate(origin.X, origin.Y).
		Mul(Affine{A: sx, D: sy}).
		Mul(Translate(-origin.X, -origin.Y))
}

// RotateAbout creates a rotation of degrees around origin. Positive angles
// rotate the positive X axis towards the positive Y axis (counter-clockwise
// in a y-up coordinate system).
func RotateAbout(degrees float64, origin Coord) Affine {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Translate(origin.X, origin.Y).
		Mul(Affine{A: cos, B: sin, C: -sin, D: cos}).
		Mul(Translate(-origin.X, -origin.Y))
}

// Mul returns the transform that applies o, then aff
func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		A: aff.A*o.A + aff.C*o.B,
		B: aff.B*o.A + aff.D*o.B,
		C: aff.A*o.C + aff.C*o.D,
		D: aff.B*o.C + aff.D*o.D,
		E: aff.A*o.E + aff.C*o.F + aff.E,
		F: aff.B*o.E + aff.D*o.F + aff.F,
	}
}

// Then returns the transform that applies aff, then o
func (aff Affine) Then(o Affine) Affine {
	return o.Mul(aff)
}

// Apply transforms a single coordinate
func (aff Affine) Apply(c Coord) Coord {
	return Coord{
		X: aff.A*c.X + aff.C*c.Y + aff.E,
		Y: aff.B*c.X + aff.D*c.Y + aff.F,
	}
}
