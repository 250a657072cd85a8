package emulation

import "errors"

var (
	// ErrNilDisplay is returned by New when no display is given.
	ErrNilDisplay = errors.New("emulation: nil display")
	// ErrInvalidSize is returned by New when the display reports fewer than 1 line or column.
	ErrInvalidSize = errors.New("emulation: invalid screen size")
	// ErrNilScreen is returned by New when the screen factory returns nil.
	ErrNilScreen = errors.New("emulation: screen factory returned nil")
	// ErrUnknownEncoding is returned when an encoding name cannot be resolved.
	ErrUnknownEncoding = errors.New("emulation: unknown encoding")
)
