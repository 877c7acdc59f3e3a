package jpegls

import (
	"errors"
	"fmt"

	"github.com/cocosip/go-jpegls/jpegls/stream"
)

// decoder drives one Decode call: header parsing, one entropy-coded
// scan per SOS, and reassembly of the output buffer in the stream's
// interleave layout.
type decoder struct {
	reader     *stream.Reader
	frameInfo  FrameInfo
	interleave InterleaveMode
	near       int
	preset     PresetCodingParameters
	scan       scanHeader
	headerDone bool
}

func newDecoder(data []byte) *decoder {
	return &decoder{reader: stream.NewReader(data)}
}

// readHeader parses markers from SOI through the first SOS. After it
// returns, the reader is positioned at the first scan's entropy-coded
// data and frameInfo, interleave and near reflect the stream header.
func (d *decoder) readHeader() error {
	marker, err := d.reader.ReadMarker()
	if err != nil {
		return fmt.Errorf("%w: missing SOI", ErrMalformedHeader)
	}
	if marker != stream.MarkerSOI {
		return fmt.Errorf("%w: leading marker %#04x", ErrMalformedHeader, marker)
	}

	sofSeen := false
	for {
		marker, err := d.reader.ReadMarker()
		if err != nil {
			return fmt.Errorf("%w: unterminated header", ErrMalformedHeader)
		}
		switch {
		case marker == stream.MarkerSOF55:
			if sofSeen {
				return fmt.Errorf("%w: duplicate SOF55", ErrMalformedHeader)
			}
			payload, err := d.reader.ReadSegment()
			if err != nil {
				return fmt.Errorf("%w: SOF55: %w", ErrMalformedHeader, err)
			}
			if d.frameInfo, err = parseStartOfFrame(payload); err != nil {
				return err
			}
			sofSeen = true

		case marker == stream.MarkerLSE:
			if !sofSeen {
				return fmt.Errorf("%w: LSE before SOF55", ErrMalformedHeader)
			}
			payload, err := d.reader.ReadSegment()
			if err != nil {
				return fmt.Errorf("%w: LSE: %w", ErrMalformedHeader, err)
			}
			if d.preset, err = parsePresetParameters(payload); err != nil {
				return err
			}

		case marker == stream.MarkerSOS:
			if !sofSeen {
				return fmt.Errorf("%w: SOS before SOF55", ErrMalformedHeader)
			}
			if err := d.readScanHeader(); err != nil {
				return err
			}
			d.interleave = d.scan.interleave
			d.near = d.scan.near
			d.headerDone = true
			return nil

		case stream.IsAPP(marker) || marker == stream.MarkerCOM:
			if _, err := d.reader.ReadSegment(); err != nil {
				return fmt.Errorf("%w: marker %#04x: %w", ErrMalformedHeader, marker, err)
			}

		case marker == stream.MarkerDNL || marker == stream.MarkerDRI:
			return fmt.Errorf("%w: marker %#04x", ErrUnsupportedParameter, marker)

		default:
			return fmt.Errorf("%w: unexpected marker %#04x", ErrMalformedHeader, marker)
		}
	}
}

// readScanHeader parses the SOS payload just after its marker.
func (d *decoder) readScanHeader() error {
	payload, err := d.reader.ReadSegment()
	if err != nil {
		return fmt.Errorf("%w: SOS: %w", ErrMalformedHeader, err)
	}
	d.scan, err = parseStartOfScan(payload, d.frameInfo)
	return err
}

func (d *decoder) decode() ([]byte, error) {
	if !d.headerDone {
		if err := d.readHeader(); err != nil {
			return nil, err
		}
	}
	fi := d.frameInfo

	planes := make([][]int, fi.ComponentCount)
	decoded := make([]bool, fi.ComponentCount)

	for {
		if err := d.decodeScan(planes, decoded); err != nil {
			return nil, err
		}

		done := true
		for _, ok := range decoded {
			done = done && ok
		}

		marker, err := d.reader.ReadMarker()
		if err != nil {
			return nil, fmt.Errorf("%w: missing end of image: %w", ErrInvalidData, err)
		}
		if marker == stream.MarkerEOI {
			if !done {
				return nil, fmt.Errorf("%w: end of image before all components decoded", ErrInvalidData)
			}
			return bytesFromPlanes(planes, fi, d.interleave), nil
		}
		if marker != stream.MarkerSOS {
			return nil, fmt.Errorf("%w: unexpected marker %#04x after scan", ErrInvalidData, marker)
		}
		if done {
			return nil, fmt.Errorf("%w: extra scan after all components decoded", ErrInvalidData)
		}
		if err := d.readScanHeader(); err != nil {
			return nil, err
		}
		if d.scan.near != d.near {
			return nil, fmt.Errorf("%w: NEAR changes between scans", ErrUnsupportedParameter)
		}
	}
}

// decodeScan decodes the entropy-coded data of the current SOS into
// the planes named by its component identifiers.
func (d *decoder) decodeScan(planes [][]int, decoded []bool) error {
	fi := d.frameInfo

	maxVal := 1<<uint(fi.BitsPerSample) - 1
	if d.preset.MaximumSampleValue != 0 {
		if d.preset.MaximumSampleValue > maxVal {
			return fmt.Errorf("%w: MAXVAL %d exceeds %d-bit samples", ErrUnsupportedParameter, d.preset.MaximumSampleValue, fi.BitsPerSample)
		}
		maxVal = d.preset.MaximumSampleValue
	}
	params, err := computeCodingParameters(maxVal, d.scan.near,
		d.preset.Threshold1, d.preset.Threshold2, d.preset.Threshold3, d.preset.ResetValue)
	if err != nil {
		return err
	}

	comps := d.scan.componentIDs
	for _, id := range comps {
		if decoded[id-1] {
			return fmt.Errorf("%w: component %d decoded twice", ErrMalformedHeader, id)
		}
		planes[id-1] = make([]int, fi.Width*fi.Height)
	}

	s := newScanCodec(params, fi.Width, fi.Height, len(comps))
	br := stream.NewBitReader(d.reader.Remaining())

	for y := 0; y < fi.Height; y++ {
		if d.scan.interleave == InterleaveSample {
			if err := d.decodeSampleLine(s, br, planes, comps, y); err != nil {
				return err
			}
			continue
		}
		for c, id := range comps {
			s.beginLine(c)
			x := 0
			for x < fi.Width {
				if qs := s.contextSignature(c, x); qs != 0 {
					if err := s.decodeRegular(br, c, x, qs); err != nil {
						return scanDataError(err)
					}
					x++
					continue
				}
				n, err := s.decodeRunMode(br, c, x)
				if err != nil {
					return scanDataError(err)
				}
				x += n
			}
			copy(planes[id-1][y*fi.Width:(y+1)*fi.Width], s.cur[c][1:fi.Width+1])
			s.endLine(c)
		}
	}

	for _, id := range comps {
		decoded[id-1] = true
	}

	br.AlignToByte()
	d.reader.Advance(br.Position())
	return nil
}

// decodeSampleLine mirrors the encoder's pixel-interleaved traversal.
func (d *decoder) decodeSampleLine(s *scanCodec, br *stream.BitReader, planes [][]int, comps []int, y int) error {
	width := d.frameInfo.Width
	for c := range comps {
		s.beginLine(c)
	}

	x := 0
	for x < width {
		var qs [4]int
		allZero := true
		for c := range comps {
			qs[c] = s.contextSignature(c, x)
			if qs[c] != 0 {
				allZero = false
			}
		}
		if allZero {
			n, err := s.decodeRunModeInterleaved(br, x)
			if err != nil {
				return scanDataError(err)
			}
			x += n
			continue
		}
		for c := range comps {
			if err := s.decodeRegular(br, c, x, qs[c]); err != nil {
				return scanDataError(err)
			}
		}
		x++
	}

	for c, id := range comps {
		copy(planes[id-1][y*width:(y+1)*width], s.cur[c][1:width+1])
		s.endLine(c)
	}
	return nil
}

// scanDataError folds low-level bitstream failures into the scan data
// sentinel; a marker inside entropy-coded data means the scan is
// shorter than the image it claims to carry.
func scanDataError(err error) error {
	if errors.Is(err, stream.ErrMarkerEncountered) || errors.Is(err, stream.ErrBufferExhausted) {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return err
}
