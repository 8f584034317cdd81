package ribbon

import "errors"

var (
	// ErrInsufficientPoints is returned when fewer than two distinct samples
	// are available. Callers should skip mesh generation; it is not fatal.
	ErrInsufficientPoints = errors.New("ribbon: need at least 2 distinct points")
	// ErrInvalidPoint is returned for a NaN or infinite sample.
	ErrInvalidPoint = errors.New("ribbon: invalid point")
	// ErrInvalidBrush is returned for a non-positive or non-finite brush size.
	ErrInvalidBrush = errors.New("ribbon: invalid brush size")
	// ErrInvalidVolume is returned for non-positive or non-finite extents.
	ErrInvalidVolume = errors.New("ribbon: invalid target volume")
)
