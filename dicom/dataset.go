// Package dicom provides JPEG-LS transcoding for DICOM files: reading
// datasets, compressing native pixel data into encapsulated JPEG-LS
// frames and decompressing back, with the transfer syntax and UIDs
// updated to match.
package dicom

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Dataset wraps a parsed DICOM dataset for transcoding.
type Dataset struct {
	Data     dicom.Dataset
	FilePath string
}

// ReadFile reads and parses a DICOM file.
func ReadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	ds, err := dicom.Parse(file, info.Size(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM: %w", err)
	}

	return &Dataset{Data: ds, FilePath: path}, nil
}

// ReadMetadata parses a DICOM file without loading pixel data.
func ReadMetadata(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	ds, err := dicom.Parse(file, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM: %w", err)
	}

	return &Dataset{Data: ds, FilePath: path}, nil
}

// Save writes the dataset to a file. Verification is relaxed because
// real-world DICOM files frequently bend the VR rules.
func (d *Dataset) Save(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer file.Close()

	if err := dicom.Write(file, d.Data,
		dicom.SkipVRVerification(),
		dicom.SkipValueTypeVerification(),
		dicom.DefaultMissingTransferSyntax(),
	); err != nil {
		return fmt.Errorf("could not write DICOM: %w", err)
	}
	return nil
}

// GetString returns the first string value of a tag, or "" if absent.
func (d *Dataset) GetString(t tag.Tag) string {
	elem, err := d.Data.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return ""
	}
	switch v := elem.Value.GetValue().(type) {
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case string:
		return v
	}
	return ""
}

// TransferSyntaxUID returns the dataset's transfer syntax UID.
func (d *Dataset) TransferSyntaxUID() string {
	return d.GetString(tag.TransferSyntaxUID)
}

// SetString replaces the value of a string element, creating the
// element if the dataset lacks it.
func (d *Dataset) SetString(t tag.Tag, value string) error {
	elem, err := dicom.NewElement(t, []string{value})
	if err != nil {
		return fmt.Errorf("could not create element for %v: %w", t, err)
	}
	d.replaceElement(elem)
	return nil
}

func (d *Dataset) replaceElement(elem *dicom.Element) {
	for i, e := range d.Data.Elements {
		if e.Tag == elem.Tag {
			d.Data.Elements[i] = elem
			return
		}
	}
	d.Data.Elements = append(d.Data.Elements, elem)
}

// Geometry describes the pixel module of a dataset.
type Geometry struct {
	Width      int
	Height     int
	Samples    int
	BitsStored int
}

// FrameGeometry reads the image geometry from the pixel module tags.
func (d *Dataset) FrameGeometry() (Geometry, error) {
	g := Geometry{
		Height:     d.getInt(tag.Rows, 0),
		Width:      d.getInt(tag.Columns, 0),
		Samples:    d.getInt(tag.SamplesPerPixel, 1),
		BitsStored: d.getInt(tag.BitsStored, 0),
	}
	if g.BitsStored == 0 {
		g.BitsStored = d.getInt(tag.BitsAllocated, 8)
	}
	if g.Width == 0 || g.Height == 0 {
		return Geometry{}, fmt.Errorf("invalid image dimensions: %dx%d", g.Width, g.Height)
	}
	return g, nil
}

// bytesPerSample returns the allocated storage width per sample.
func (g Geometry) bytesPerSample() int {
	if g.BitsStored <= 8 {
		return 1
	}
	return 2
}

// frameSize returns the raw frame size in bytes.
func (g Geometry) frameSize() int {
	return g.Width * g.Height * g.Samples * g.bytesPerSample()
}

func (d *Dataset) getInt(t tag.Tag, fallback int) int {
	elem, err := d.Data.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return fallback
	}
	switch v := elem.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0]
		}
	case int:
		return v
	case []uint16:
		if len(v) > 0 {
			return int(v[0])
		}
	}
	return fallback
}

// pixelDataInfo returns the parsed pixel data of the dataset.
func (d *Dataset) pixelDataInfo() (dicom.PixelDataInfo, error) {
	elem, err := d.Data.FindElementByTag(tag.PixelData)
	if err != nil {
		return dicom.PixelDataInfo{}, fmt.Errorf("no pixel data: %w", err)
	}
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok {
		return dicom.PixelDataInfo{}, fmt.Errorf("unexpected pixel data type %T", elem.Value.GetValue())
	}
	return info, nil
}

// NativeFrames extracts each uncompressed frame as raw bytes:
// pixel-interleaved samples, little-endian for depths above 8 bits.
func (d *Dataset) NativeFrames() ([][]byte, error) {
	info, err := d.pixelDataInfo()
	if err != nil {
		return nil, err
	}
	if info.IsEncapsulated {
		return nil, fmt.Errorf("pixel data is already encapsulated")
	}
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("no frames in pixel data")
	}

	g, err := d.FrameGeometry()
	if err != nil {
		return nil, err
	}

	frames := make([][]byte, len(info.Frames))
	for i, f := range info.Frames {
		native, err := f.GetNativeFrame()
		if err != nil {
			return nil, fmt.Errorf("frame %d has no native data: %w", i, err)
		}
		raw := make([]byte, 0, g.frameSize())
		switch samples := native.RawDataSlice().(type) {
		case []uint8:
			raw = append(raw, samples...)
		case []uint16:
			for _, s := range samples {
				raw = append(raw, byte(s), byte(s>>8))
			}
		default:
			return nil, fmt.Errorf("frame %d has unsupported sample type %T", i, samples)
		}
		if len(raw) != g.frameSize() {
			return nil, fmt.Errorf("frame %d has %d bytes, geometry needs %d", i, len(raw), g.frameSize())
		}
		frames[i] = raw
	}
	return frames, nil
}

// EncapsulatedFrames extracts each compressed frame's bitstream.
func (d *Dataset) EncapsulatedFrames() ([][]byte, error) {
	info, err := d.pixelDataInfo()
	if err != nil {
		return nil, err
	}
	if !info.IsEncapsulated {
		return nil, fmt.Errorf("pixel data is not encapsulated")
	}
	frames := make([][]byte, len(info.Frames))
	for i, f := range info.Frames {
		ef, err := f.GetEncapsulatedFrame()
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames[i] = ef.Data
	}
	return frames, nil
}
