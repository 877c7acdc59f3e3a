// Package codec defines the common codec interface and a registry
// keyed by codec name and DICOM Transfer Syntax UID, so pixel data
// pipelines can look up a compressor by either handle.
package codec

// Codec is the common interface for frame compressors.
type Codec interface {
	// Encode compresses one frame of raw pixel data
	Encode(params EncodeParams) ([]byte, error)

	// Decode decompresses one frame
	Decode(data []byte) (*DecodeResult, error)

	// UID returns the DICOM Transfer Syntax UID the codec serves
	UID() string

	// Name returns the registry name
	Name() string
}

// EncodeParams describes one frame of raw pixel data to compress.
type EncodeParams struct {
	PixelData  []byte  // raw samples; multi-component frames are pixel-interleaved
	Width      int     // image width in samples
	Height     int     // image height in samples
	Components int     // color components (1=grayscale, 3=RGB)
	BitDepth   int     // bits per sample (2-16)
	Options    Options // codec-specific knobs, may be nil
}

// Options carries codec-specific encoding knobs.
type Options interface {
	// Validate checks if the options are valid
	Validate() error
}

// DecodeResult is one decompressed frame plus its recovered geometry.
type DecodeResult struct {
	PixelData  []byte // raw samples; multi-component frames are pixel-interleaved
	Width      int
	Height     int
	Components int
	BitDepth   int
}

// BaseOptions is the option set shared by the JPEG-LS codecs.
type BaseOptions struct {
	// NearLossless bounds the per-sample reconstruction error.
	// 0 selects lossless coding.
	NearLossless int
}

// Validate validates base options.
func (o *BaseOptions) Validate() error {
	if o.NearLossless < 0 || o.NearLossless > 255 {
		return ErrInvalidParameter
	}
	return nil
}
