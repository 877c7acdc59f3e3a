package stream

import "bytes"

// Writer assembles a marker-segment stream: two-byte big-endian
// markers, each optionally followed by a length-prefixed payload.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteMarker writes a bare two-byte marker.
func (w *Writer) WriteMarker(marker uint16) {
	w.buf.WriteByte(byte(marker >> 8))
	w.buf.WriteByte(byte(marker))
}

// WriteSegment writes a marker followed by its 16-bit length field and
// payload. The length counts the length field itself plus the payload,
// per the JPEG segment convention.
func (w *Writer) WriteSegment(marker uint16, payload []byte) error {
	if len(payload)+2 > 0xFFFF {
		return ErrInvalidSegmentLength
	}
	w.WriteMarker(marker)
	length := uint16(len(payload) + 2)
	w.buf.WriteByte(byte(length >> 8))
	w.buf.WriteByte(byte(length))
	w.buf.Write(payload)
	return nil
}

// Write appends raw bytes, used for already-stuffed entropy-coded data.
func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Bytes returns the assembled stream.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the assembled length in bytes.
func (w *Writer) Len() int {
	return w.buf.Len()
}
