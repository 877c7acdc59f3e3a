package jpegls

import (
	"errors"

	"github.com/cocosip/go-jpegls/jpegls/stream"
)

// Codec errors. All failures returned by Encode and Decode wrap one of
// these sentinels so callers can dispatch on the error kind.
var (
	// ErrMalformedHeader is returned when a marker segment is missing,
	// truncated or inconsistent
	ErrMalformedHeader = errors.New("malformed JPEG-LS header")

	// ErrUnsupportedParameter is returned for valid-but-unimplemented
	// parameter combinations (bit depth, interleave mode, DNL, restart
	// intervals, mapping tables)
	ErrUnsupportedParameter = errors.New("unsupported JPEG-LS parameter")

	// ErrInvalidNearLossless is returned when the NEAR bound is negative
	// or exceeds the maximum for the sample range
	ErrInvalidNearLossless = errors.New("invalid near-lossless bound")

	// ErrInvalidData is returned when the entropy-coded scan data is
	// corrupt or ends prematurely
	ErrInvalidData = errors.New("invalid JPEG-LS scan data")

	// ErrInvalidDimensions is returned for non-positive width or height
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrInvalidBitDepth is returned when bits per sample is outside 2-16
	ErrInvalidBitDepth = errors.New("invalid bit depth (must be 2-16)")

	// ErrInvalidComponents is returned when the component count is
	// outside 1-4
	ErrInvalidComponents = errors.New("invalid component count (must be 1-4)")

	// ErrPixelDataSize is returned when the source buffer does not match
	// the frame geometry
	ErrPixelDataSize = errors.New("pixel data size mismatch")

	// ErrBufferExhausted is returned when decoding reads past the end of
	// the source buffer
	ErrBufferExhausted = stream.ErrBufferExhausted

	// ErrOutputCapacityExceeded is returned when a fixed-capacity
	// destination buffer is too small
	ErrOutputCapacityExceeded = stream.ErrOutputCapacityExceeded
)
