// Package jpegls implements the JPEG-LS (ITU-T T.87 / ISO 14495-1)
// lossless and near-lossless image codec in pure Go.
//
// The bitstream is wire-compatible with the standard markers (SOI,
// SOF55, LSE, SOS, EOI) and entropy-coded scan format, so output can
// be decoded by other conforming implementations such as CharLS.
package jpegls

import "fmt"

// InterleaveMode selects how multi-component scans are organized.
type InterleaveMode int

const (
	// InterleaveNone stores each component in its own scan. Pixel
	// buffers are planar: all samples of component 0, then component 1.
	InterleaveNone InterleaveMode = 0

	// InterleaveLine interleaves one line per component within a single
	// scan. Pixel buffers are row-interleaved.
	InterleaveLine InterleaveMode = 1

	// InterleaveSample interleaves components per pixel within a single
	// scan. Pixel buffers are pixel-interleaved (e.g. RGBRGB...).
	InterleaveSample InterleaveMode = 2
)

// String returns the T.87 name of the mode.
func (m InterleaveMode) String() string {
	switch m {
	case InterleaveNone:
		return "none"
	case InterleaveLine:
		return "line"
	case InterleaveSample:
		return "sample"
	}
	return fmt.Sprintf("interleave(%d)", int(m))
}

// FrameInfo describes the geometry and precision of a frame.
type FrameInfo struct {
	Width          int
	Height         int
	BitsPerSample  int
	ComponentCount int
}

// Validate checks the frame info against the supported ranges.
func (fi FrameInfo) Validate() error {
	if fi.Width <= 0 || fi.Height <= 0 || fi.Width > 0xFFFF || fi.Height > 0xFFFF {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, fi.Width, fi.Height)
	}
	if fi.BitsPerSample < 2 || fi.BitsPerSample > 16 {
		return fmt.Errorf("%w: %d", ErrInvalidBitDepth, fi.BitsPerSample)
	}
	if fi.ComponentCount < 1 || fi.ComponentCount > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidComponents, fi.ComponentCount)
	}
	return nil
}

// bytesPerSample returns 1 for depths up to 8 bits, 2 otherwise.
// Samples wider than 8 bits are stored little-endian.
func (fi FrameInfo) bytesPerSample() int {
	if fi.BitsPerSample <= 8 {
		return 1
	}
	return 2
}

// frameSize returns the expected raw buffer size in bytes.
func (fi FrameInfo) frameSize() int {
	return fi.Width * fi.Height * fi.ComponentCount * fi.bytesPerSample()
}

// EncodeOptions carries the encoder knobs beyond the frame geometry.
// The zero value encodes lossless with one scan per component.
type EncodeOptions struct {
	// NearLossless bounds the per-sample reconstruction error.
	// 0 is lossless.
	NearLossless int

	// Interleave selects the scan organization for multi-component
	// frames. Single-component frames accept only InterleaveNone.
	Interleave InterleaveMode

	// Preset overrides the default coding parameters (MAXVAL, T1-T3,
	// RESET) written in the LSE segment. Nil uses the T.87 defaults.
	Preset *PresetCodingParameters
}

// Encode compresses raw samples into a JPEG-LS stream.
//
// The layout of pixels must match opts.Interleave (see InterleaveMode);
// samples wider than 8 bits are little-endian uint16.
func Encode(pixels []byte, fi FrameInfo, opts *EncodeOptions) ([]byte, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	if err := fi.Validate(); err != nil {
		return nil, err
	}
	if len(pixels) != fi.frameSize() {
		return nil, fmt.Errorf("%w: got %d bytes, frame needs %d", ErrPixelDataSize, len(pixels), fi.frameSize())
	}
	enc, err := newEncoder(fi, opts)
	if err != nil {
		return nil, err
	}
	return enc.encode(pixels)
}

// Decode decompresses a JPEG-LS stream into raw samples and the frame
// info recovered from the header. The output layout matches the
// stream's interleave mode.
func Decode(data []byte) ([]byte, FrameInfo, error) {
	dec := newDecoder(data)
	pixels, err := dec.decode()
	if err != nil {
		return nil, FrameInfo{}, err
	}
	return pixels, dec.frameInfo, nil
}

// ReadFrameInfo parses only the header of a JPEG-LS stream and returns
// the frame info and the interleave mode of the first scan, without
// decoding any pixel data.
func ReadFrameInfo(data []byte) (FrameInfo, InterleaveMode, error) {
	dec := newDecoder(data)
	if err := dec.readHeader(); err != nil {
		return FrameInfo{}, InterleaveNone, err
	}
	return dec.frameInfo, dec.interleave, nil
}
