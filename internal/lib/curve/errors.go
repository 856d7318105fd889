package curve

import "errors"

// Errors returned by curve operations. Callers branch on them with errors.Is.
var (
	// ErrInvalidGeometry means the curve needs at least two distinct points
	ErrInvalidGeometry = errors.New("the curve geometry is not valid (at least two distinct points)")

	// ErrNotFiniteCoordinates means a computation did not produce a finite result
	ErrNotFiniteCoordinates = errors.New("the coordinates are not finite")

	// ErrNotOnTheCurve means a linear position falls outside the curve
	ErrNotOnTheCurve = errors.New("the point is not on the curve")
)
