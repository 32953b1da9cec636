package bitstream

import "errors"

var (
	// ErrUnknownType indicates that no codec is registered for a requested
	// or auto-detected type tag.
	ErrUnknownType = errors.New("bitstream: no codec registered for type")

	// ErrType indicates that a value cannot be coerced to the requested
	// type, or that a nested input mixes element types.
	ErrType = errors.New("bitstream: value does not match the requested type")

	// ErrOverflow indicates a numeric value outside the representable
	// range of the requested width.
	ErrOverflow = errors.New("bitstream: value out of range for width")

	// ErrValue indicates an input value that is invalid for the codec,
	// such as a character outside the single-byte range.
	ErrValue = errors.New("bitstream: invalid value")

	// ErrEndOfStream indicates a read that requests more bits than remain
	// unread. A failed read consumes nothing.
	ErrEndOfStream = errors.New("bitstream: read past the end of the stream")
)
