package codec

import "errors"

var (
	// ErrCodecNotFound is returned when no codec is registered under
	// the requested name or UID
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter is returned when encoding parameters are
	// out of range
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedFormat is returned when the compressed data is not
	// in a format the codec understands
	ErrUnsupportedFormat = errors.New("unsupported format")
)
