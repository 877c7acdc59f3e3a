package dicom

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/cocosip/go-jpegls/codec"
)

// CompressOptions controls the JPEG-LS transcode.
type CompressOptions struct {
	// NearLossless bounds the per-sample error; 0 selects the lossless
	// transfer syntax.
	NearLossless int
}

// Compress transcodes a dataset with native pixel data to JPEG-LS.
// Every frame is compressed through the registered codec, the pixel
// data is encapsulated and the transfer syntax is rewritten. A
// near-lossless transcode changes sample values, so the dataset gets a
// fresh SOP Instance UID and the lossy compression tags are set.
func Compress(d *Dataset, opts CompressOptions) error {
	g, err := d.FrameGeometry()
	if err != nil {
		return err
	}
	rawFrames, err := d.NativeFrames()
	if err != nil {
		return err
	}

	syntax := transfer.JPEGLSLossless
	if opts.NearLossless > 0 {
		syntax = transfer.JPEGLSNearLossless
	}
	c, err := codec.Get(syntax.UID().UID())
	if err != nil {
		return fmt.Errorf("no codec for %s: %w", syntax.UID().UID(), err)
	}

	frames := make([]*frame.Frame, len(rawFrames))
	for i, raw := range rawFrames {
		compressed, err := c.Encode(codec.EncodeParams{
			PixelData:  raw,
			Width:      g.Width,
			Height:     g.Height,
			Components: g.Samples,
			BitDepth:   g.BitsStored,
			Options:    &codec.BaseOptions{NearLossless: opts.NearLossless},
		})
		if err != nil {
			return fmt.Errorf("could not compress frame %d: %w", i, err)
		}
		frames[i] = &frame.Frame{
			Encapsulated:     true,
			EncapsulatedData: frame.EncapsulatedFrame{Data: compressed},
		}
	}

	if err := d.replacePixelData(dicom.PixelDataInfo{
		IsEncapsulated: true,
		Frames:         frames,
	}); err != nil {
		return err
	}
	if err := d.SetString(tag.TransferSyntaxUID, syntax.UID().UID()); err != nil {
		return err
	}

	if opts.NearLossless > 0 {
		uid := NewUID()
		if err := d.SetString(tag.SOPInstanceUID, uid); err != nil {
			return err
		}
		if err := d.SetString(tag.MediaStorageSOPInstanceUID, uid); err != nil {
			return err
		}
		if err := d.SetString(tag.LossyImageCompression, "01"); err != nil {
			return err
		}
		if err := d.SetString(tag.LossyImageCompressionMethod, "ISO_14495_1"); err != nil {
			return err
		}
	}
	return nil
}

// Decompress transcodes a JPEG-LS dataset back to native pixel data
// under the Explicit VR Little Endian transfer syntax.
func Decompress(d *Dataset) error {
	ts := d.TransferSyntaxUID()
	c, err := codec.Get(ts)
	if err != nil {
		return fmt.Errorf("no codec for transfer syntax %s: %w", ts, err)
	}

	compressed, err := d.EncapsulatedFrames()
	if err != nil {
		return err
	}

	frames := make([]*frame.Frame, len(compressed))
	for i, data := range compressed {
		result, err := c.Decode(data)
		if err != nil {
			return fmt.Errorf("could not decompress frame %d: %w", i, err)
		}
		frames[i] = nativeFrame(result)
	}

	if err := d.replacePixelData(dicom.PixelDataInfo{Frames: frames}); err != nil {
		return err
	}
	return d.SetString(tag.TransferSyntaxUID, transfer.ExplicitVRLittleEndian.UID().UID())
}

func (d *Dataset) replacePixelData(info dicom.PixelDataInfo) error {
	elem, err := dicom.NewElement(tag.PixelData, info)
	if err != nil {
		return fmt.Errorf("could not create pixel data element: %w", err)
	}
	d.replaceElement(elem)
	return nil
}

// nativeFrame rebuilds a native frame from one decoded result. The
// decoded samples are pixel-interleaved; the storage width (8 or 16
// bits) selects the native frame's sample type, matching what the
// writer expects for the dataset's BitsAllocated.
func nativeFrame(result *codec.DecodeResult) *frame.Frame {
	pixelCount := result.Width * result.Height

	if result.BitDepth <= 8 {
		nf := frame.NewNativeFrame[uint8](8, result.Height, result.Width, pixelCount, result.Components)
		copy(nf.RawData, result.PixelData)
		return &frame.Frame{NativeData: nf}
	}

	nf := frame.NewNativeFrame[uint16](16, result.Height, result.Width, pixelCount, result.Components)
	for i := range nf.RawData {
		nf.RawData[i] = binary.LittleEndian.Uint16(result.PixelData[2*i:])
	}
	return &frame.Frame{NativeData: nf}
}
