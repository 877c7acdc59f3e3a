package jpegls

import (
	"fmt"

	"github.com/cocosip/go-jpegls/jpegls/stream"
)

func appendUint16(b []byte, v int) []byte {
	return append(b, byte(v>>8), byte(v))
}

// writeStartOfFrame emits the SOF55 segment: precision, geometry and
// one descriptor per component (T.87 C.2.2). Component identifiers are
// 1-based; sampling factors are always 1x1.
func writeStartOfFrame(w *stream.Writer, fi FrameInfo) error {
	payload := make([]byte, 0, 6+3*fi.ComponentCount)
	payload = append(payload, byte(fi.BitsPerSample))
	payload = appendUint16(payload, fi.Height)
	payload = appendUint16(payload, fi.Width)
	payload = append(payload, byte(fi.ComponentCount))
	for c := 0; c < fi.ComponentCount; c++ {
		payload = append(payload, byte(c+1), 0x11, 0)
	}
	return w.WriteSegment(stream.MarkerSOF55, payload)
}

// writePresetParameters emits an LSE (id 1) segment carrying the
// resolved coding parameters (T.87 C.2.4.1.1).
func writePresetParameters(w *stream.Writer, p codingParameters) error {
	payload := make([]byte, 0, 11)
	payload = append(payload, 1)
	payload = appendUint16(payload, p.maxVal)
	payload = appendUint16(payload, p.t1)
	payload = appendUint16(payload, p.t2)
	payload = appendUint16(payload, p.t3)
	payload = appendUint16(payload, p.reset)
	return w.WriteSegment(stream.MarkerLSE, payload)
}

// writeStartOfScan emits the SOS segment for the given component
// identifiers (T.87 C.2.3). Mapping table selectors and the point
// transform are always zero.
func writeStartOfScan(w *stream.Writer, componentIDs []int, near int, ilv InterleaveMode) error {
	payload := make([]byte, 0, 4+2*len(componentIDs))
	payload = append(payload, byte(len(componentIDs)))
	for _, id := range componentIDs {
		payload = append(payload, byte(id), 0)
	}
	payload = append(payload, byte(near), byte(ilv), 0)
	return w.WriteSegment(stream.MarkerSOS, payload)
}

// parseStartOfFrame validates an SOF55 payload and extracts the frame
// geometry.
func parseStartOfFrame(payload []byte) (FrameInfo, error) {
	if len(payload) < 6 {
		return FrameInfo{}, fmt.Errorf("%w: SOF55 segment truncated", ErrMalformedHeader)
	}
	fi := FrameInfo{
		BitsPerSample:  int(payload[0]),
		Height:         int(payload[1])<<8 | int(payload[2]),
		Width:          int(payload[3])<<8 | int(payload[4]),
		ComponentCount: int(payload[5]),
	}
	if fi.Height == 0 {
		// height 0 defers the dimension to a DNL segment
		return FrameInfo{}, fmt.Errorf("%w: DNL-deferred height", ErrUnsupportedParameter)
	}
	if err := fi.Validate(); err != nil {
		return FrameInfo{}, err
	}
	if len(payload) != 6+3*fi.ComponentCount {
		return FrameInfo{}, fmt.Errorf("%w: SOF55 length %d for %d components", ErrMalformedHeader, len(payload), fi.ComponentCount)
	}
	for c := 0; c < fi.ComponentCount; c++ {
		id, sampling, tq := payload[6+3*c], payload[7+3*c], payload[8+3*c]
		if id != byte(c+1) {
			return FrameInfo{}, fmt.Errorf("%w: component identifier %d at position %d", ErrUnsupportedParameter, id, c)
		}
		if sampling != 0x11 {
			return FrameInfo{}, fmt.Errorf("%w: sampling factor %#02x", ErrUnsupportedParameter, sampling)
		}
		if tq != 0 {
			return FrameInfo{}, fmt.Errorf("%w: nonzero Tq %d", ErrMalformedHeader, tq)
		}
	}
	return fi, nil
}

// parsePresetParameters handles an LSE payload. Only id 1 (coding
// parameters) is implemented; ids 2-4 (mapping tables, oversize
// dimensions) are valid but unsupported.
func parsePresetParameters(payload []byte) (PresetCodingParameters, error) {
	if len(payload) < 1 {
		return PresetCodingParameters{}, fmt.Errorf("%w: empty LSE segment", ErrMalformedHeader)
	}
	switch id := payload[0]; id {
	case 1:
		if len(payload) != 11 {
			return PresetCodingParameters{}, fmt.Errorf("%w: LSE id 1 length %d", ErrMalformedHeader, len(payload))
		}
		u16 := func(i int) int { return int(payload[i])<<8 | int(payload[i+1]) }
		return PresetCodingParameters{
			MaximumSampleValue: u16(1),
			Threshold1:         u16(3),
			Threshold2:         u16(5),
			Threshold3:         u16(7),
			ResetValue:         u16(9),
		}, nil
	case 2, 3, 4:
		return PresetCodingParameters{}, fmt.Errorf("%w: LSE id %d", ErrUnsupportedParameter, id)
	default:
		return PresetCodingParameters{}, fmt.Errorf("%w: LSE id %d", ErrMalformedHeader, id)
	}
}

// scanHeader carries the parameters of one SOS segment.
type scanHeader struct {
	componentIDs []int
	near         int
	interleave   InterleaveMode
}

// parseStartOfScan validates an SOS payload against the frame it
// belongs to.
func parseStartOfScan(payload []byte, fi FrameInfo) (scanHeader, error) {
	if len(payload) < 1 {
		return scanHeader{}, fmt.Errorf("%w: empty SOS segment", ErrMalformedHeader)
	}
	ns := int(payload[0])
	if ns < 1 || len(payload) != 1+2*ns+3 {
		return scanHeader{}, fmt.Errorf("%w: SOS length %d for %d components", ErrMalformedHeader, len(payload), ns)
	}
	if ns > fi.ComponentCount {
		return scanHeader{}, fmt.Errorf("%w: scan has %d components, frame has %d", ErrMalformedHeader, ns, fi.ComponentCount)
	}

	h := scanHeader{componentIDs: make([]int, ns)}
	for i := 0; i < ns; i++ {
		id := int(payload[1+2*i])
		if id < 1 || id > fi.ComponentCount {
			return scanHeader{}, fmt.Errorf("%w: scan component identifier %d", ErrMalformedHeader, id)
		}
		if payload[2+2*i] != 0 {
			return scanHeader{}, fmt.Errorf("%w: mapping table selector %d", ErrUnsupportedParameter, payload[2+2*i])
		}
		h.componentIDs[i] = id
	}

	h.near = int(payload[1+2*ns])
	ilv := payload[2+2*ns]
	if ilv > 2 {
		return scanHeader{}, fmt.Errorf("%w: interleave mode %d", ErrMalformedHeader, ilv)
	}
	h.interleave = InterleaveMode(ilv)
	if al := payload[3+2*ns]; al != 0 {
		return scanHeader{}, fmt.Errorf("%w: point transform %d", ErrUnsupportedParameter, al)
	}

	if ns == 1 && h.interleave != InterleaveNone {
		return scanHeader{}, fmt.Errorf("%w: interleave %s in single-component scan", ErrMalformedHeader, h.interleave)
	}
	if ns > 1 && h.interleave == InterleaveNone {
		return scanHeader{}, fmt.Errorf("%w: multi-component scan without interleave", ErrMalformedHeader)
	}
	return h, nil
}
