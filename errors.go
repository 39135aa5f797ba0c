package topcodes

import "errors"

var (
	// ErrDimensionMismatch is returned when a pixel buffer's implied length
	// does not match the scanner's configured width and height.
	ErrDimensionMismatch = errors.New("topcodes: buffer length does not match width*height")

	// ErrInvalidDiameter is returned by SetMaxCodeDiameter when given a
	// non-positive diameter.
	ErrInvalidDiameter = errors.New("topcodes: diameter must be positive")
)
