package lrs

import (
	"go.uber.org/zap"

	"github.com/dpup/lrs/internal/lib/planar"
	"github.com/dpup/lrs/internal/lib/spherical"
)

// Options tune how routes are fragmented
type Options struct {
	// MaxLength is the longest a fragment can be, in the units of the
	// system. Zero keeps each route as one curve.
	MaxLength int

	// MaxExtent grows the bounding box of every fragment
	MaxExtent int

	Logger *zap.Logger
}

// New returns a Referencer measuring routes in system
func New(system System, opts Options) (Referencer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("system", string(system)))

	switch system {
	case Planar:
		return NewNetwork[planar.Kernel](system, opts.MaxLength, opts.MaxExtent, logger), nil
	case Spherical:
		return NewNetwork[spherical.Kernel](system, opts.MaxLength, opts.MaxExtent, logger), nil
	default:
		return nil, ErrUnknownSystem
	}
}

var (
	_ Referencer = (*Network[planar.Kernel])(nil)
	_ Referencer = (*Network[spherical.Kernel])(nil)
)
