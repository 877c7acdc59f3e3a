package jpegls

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"

	"github.com/cocosip/go-jpegls/codec"
)

// LosslessCodec adapts the JPEG-LS lossless encoder to the codec.Codec
// interface, registered under the DICOM JPEG-LS Lossless transfer
// syntax. Multi-component frames are treated as pixel-interleaved,
// matching DICOM planar configuration 0, and coded with sample
// interleaving.
type LosslessCodec struct{}

// Encode encodes raw frame data with NEAR = 0.
func (LosslessCodec) Encode(params codec.EncodeParams) ([]byte, error) {
	return encodeFrame(params, 0)
}

// Decode decodes a JPEG-LS stream into raw frame data.
func (LosslessCodec) Decode(data []byte) (*codec.DecodeResult, error) {
	return decodeFrame(data)
}

// UID returns the DICOM Transfer Syntax UID for JPEG-LS Lossless.
func (LosslessCodec) UID() string {
	return transfer.JPEGLSLossless.UID().UID()
}

// Name returns the registry name of the codec.
func (LosslessCodec) Name() string {
	return "jpegls-lossless"
}

// NearLosslessCodec adapts the near-lossless encoder to the
// codec.Codec interface, registered under the DICOM JPEG-LS
// Near-Lossless transfer syntax. The NEAR bound comes from the encode
// options, falling back to DefaultNear.
type NearLosslessCodec struct {
	// DefaultNear is the error bound used when the encode options
	// carry none.
	DefaultNear int
}

// Encode encodes raw frame data with a bounded per-sample error.
func (c *NearLosslessCodec) Encode(params codec.EncodeParams) ([]byte, error) {
	near := c.DefaultNear
	if opts, ok := params.Options.(*codec.BaseOptions); ok && opts.NearLossless > 0 {
		near = opts.NearLossless
	}
	if near < 1 {
		return nil, fmt.Errorf("%w: NEAR %d for near-lossless coding", ErrInvalidNearLossless, near)
	}
	return encodeFrame(params, near)
}

// Decode decodes a JPEG-LS stream into raw frame data.
func (c *NearLosslessCodec) Decode(data []byte) (*codec.DecodeResult, error) {
	return decodeFrame(data)
}

// UID returns the DICOM Transfer Syntax UID for JPEG-LS Near-Lossless.
func (c *NearLosslessCodec) UID() string {
	return transfer.JPEGLSNearLossless.UID().UID()
}

// Name returns the registry name of the codec.
func (c *NearLosslessCodec) Name() string {
	return "jpegls-near-lossless"
}

func encodeFrame(params codec.EncodeParams, near int) ([]byte, error) {
	fi := FrameInfo{
		Width:          params.Width,
		Height:         params.Height,
		BitsPerSample:  params.BitDepth,
		ComponentCount: params.Components,
	}
	opts := &EncodeOptions{NearLossless: near}
	if fi.ComponentCount > 1 {
		opts.Interleave = InterleaveSample
	}
	return Encode(params.PixelData, fi, opts)
}

// decodeFrame decodes a stream and normalizes the output to the
// pixel-interleaved layout the DICOM pipeline expects, regardless of
// the stream's own interleave mode.
func decodeFrame(data []byte) (*codec.DecodeResult, error) {
	dec := newDecoder(data)
	pixels, err := dec.decode()
	if err != nil {
		return nil, err
	}
	fi := dec.frameInfo
	if fi.ComponentCount > 1 && dec.interleave != InterleaveSample {
		pixels = bytesFromPlanes(planesFromBytes(pixels, fi, dec.interleave), fi, InterleaveSample)
	}
	return &codec.DecodeResult{
		PixelData:  pixels,
		Width:      fi.Width,
		Height:     fi.Height,
		Components: fi.ComponentCount,
		BitDepth:   fi.BitsPerSample,
	}, nil
}

func init() {
	codec.Register(LosslessCodec{})
	codec.Register(&NearLosslessCodec{DefaultNear: 2})
}
