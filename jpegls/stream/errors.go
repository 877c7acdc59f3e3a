package stream

import "errors"

// Stream-level errors
var (
	// ErrBufferExhausted is returned when a read runs past the end of the
	// source buffer
	ErrBufferExhausted = errors.New("source buffer exhausted")

	// ErrMarkerEncountered is returned when entropy-coded data reads into
	// a marker (0xFF followed by a byte >= 0x80)
	ErrMarkerEncountered = errors.New("marker encountered in entropy-coded data")

	// ErrOutputCapacityExceeded is returned when a fixed-capacity
	// destination buffer is too small for the encoded output
	ErrOutputCapacityExceeded = errors.New("output buffer capacity exceeded")

	// ErrInvalidMarker is returned when a marker prefix byte is missing
	ErrInvalidMarker = errors.New("invalid marker")

	// ErrInvalidSegmentLength is returned when a segment length field is
	// inconsistent with the remaining data
	ErrInvalidSegmentLength = errors.New("invalid segment length")
)
