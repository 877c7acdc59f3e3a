package jpegls

import (
	"fmt"

	"github.com/cocosip/go-jpegls/jpegls/stream"
)

// encoder drives one Encode call: header emission followed by one
// entropy-coded scan per component group.
type encoder struct {
	frameInfo  FrameInfo
	interleave InterleaveMode
	near       int
	emitLSE    bool
	params     codingParameters
}

func newEncoder(fi FrameInfo, opts *EncodeOptions) (*encoder, error) {
	e := &encoder{
		frameInfo:  fi,
		interleave: opts.Interleave,
		near:       opts.NearLossless,
	}
	if fi.ComponentCount == 1 && e.interleave != InterleaveNone {
		return nil, fmt.Errorf("%w: interleave %s with a single component", ErrUnsupportedParameter, e.interleave)
	}
	if e.interleave < InterleaveNone || e.interleave > InterleaveSample {
		return nil, fmt.Errorf("%w: interleave mode %d", ErrUnsupportedParameter, int(e.interleave))
	}

	maxVal := 1<<uint(fi.BitsPerSample) - 1
	t1, t2, t3, reset := 0, 0, 0, 0
	if p := opts.Preset; p != nil {
		e.emitLSE = true
		if p.MaximumSampleValue != 0 {
			if p.MaximumSampleValue > maxVal {
				return nil, fmt.Errorf("%w: MAXVAL %d exceeds %d-bit samples", ErrUnsupportedParameter, p.MaximumSampleValue, fi.BitsPerSample)
			}
			maxVal = p.MaximumSampleValue
		}
		t1, t2, t3, reset = p.Threshold1, p.Threshold2, p.Threshold3, p.ResetValue
	}

	params, err := computeCodingParameters(maxVal, e.near, t1, t2, t3, reset)
	if err != nil {
		return nil, err
	}
	e.params = params
	return e, nil
}

func (e *encoder) encode(pixels []byte) ([]byte, error) {
	w := stream.NewWriter()
	w.WriteMarker(stream.MarkerSOI)
	if err := writeStartOfFrame(w, e.frameInfo); err != nil {
		return nil, err
	}
	if e.emitLSE {
		if err := writePresetParameters(w, e.params); err != nil {
			return nil, err
		}
	}

	planes := planesFromBytes(pixels, e.frameInfo, e.interleave)

	if e.interleave == InterleaveNone {
		// one scan per component, each with fresh context state
		for c := 0; c < e.frameInfo.ComponentCount; c++ {
			if err := writeStartOfScan(w, []int{c + 1}, e.near, InterleaveNone); err != nil {
				return nil, err
			}
			if err := e.encodeScan(w, planes[c:c+1]); err != nil {
				return nil, err
			}
		}
	} else {
		ids := make([]int, e.frameInfo.ComponentCount)
		for c := range ids {
			ids[c] = c + 1
		}
		if err := writeStartOfScan(w, ids, e.near, e.interleave); err != nil {
			return nil, err
		}
		if err := e.encodeScan(w, planes); err != nil {
			return nil, err
		}
	}

	w.WriteMarker(stream.MarkerEOI)
	return w.Bytes(), nil
}

// encodeScan entropy-codes one scan over the given planes and appends
// the stuffed bytes to the stream.
func (e *encoder) encodeScan(w *stream.Writer, planes [][]int) error {
	fi := e.frameInfo
	s := newScanCodec(e.params, fi.Width, fi.Height, len(planes))
	bw := stream.NewBitWriter()

	for y := 0; y < fi.Height; y++ {
		if e.interleave == InterleaveSample {
			if err := e.encodeSampleLine(s, bw, planes, y); err != nil {
				return err
			}
			continue
		}
		for c := range planes {
			copy(s.cur[c][1:fi.Width+1], planes[c][y*fi.Width:(y+1)*fi.Width])
			s.beginLine(c)
			x := 0
			for x < fi.Width {
				if qs := s.contextSignature(c, x); qs != 0 {
					if err := s.encodeRegular(bw, c, x, qs); err != nil {
						return err
					}
					x++
					continue
				}
				n, err := s.encodeRunMode(bw, c, x)
				if err != nil {
					return err
				}
				x += n
			}
			s.endLine(c)
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	_, err := w.Write(bw.Bytes())
	return err
}

// encodeSampleLine codes one pixel-interleaved line: run mode engages
// only when every component hits context zero, otherwise each
// component's sample at x is coded in regular mode.
func (e *encoder) encodeSampleLine(s *scanCodec, bw *stream.BitWriter, planes [][]int, y int) error {
	width := e.frameInfo.Width
	for c := range planes {
		copy(s.cur[c][1:width+1], planes[c][y*width:(y+1)*width])
		s.beginLine(c)
	}

	x := 0
	for x < width {
		var qs [4]int
		allZero := true
		for c := range planes {
			qs[c] = s.contextSignature(c, x)
			if qs[c] != 0 {
				allZero = false
			}
		}
		if allZero {
			n, err := s.encodeRunModeInterleaved(bw, x)
			if err != nil {
				return err
			}
			x += n
			continue
		}
		for c := range planes {
			if err := s.encodeRegular(bw, c, x, qs[c]); err != nil {
				return err
			}
		}
		x++
	}

	for c := range planes {
		s.endLine(c)
	}
	return nil
}
