package stream

// Reader walks a marker-segment stream over an in-memory buffer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadMarker reads the next two-byte marker. Fill bytes (repeated
// 0xFF) before the marker code are skipped, as permitted by the JPEG
// syntax.
func (r *Reader) ReadMarker() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, ErrBufferExhausted
	}
	if r.data[r.pos] != 0xFF {
		return 0, ErrInvalidMarker
	}
	for r.pos < len(r.data) && r.data[r.pos] == 0xFF {
		r.pos++
	}
	if r.pos >= len(r.data) {
		return 0, ErrBufferExhausted
	}
	code := r.data[r.pos]
	r.pos++
	return 0xFF00 | uint16(code), nil
}

// ReadSegment reads a 16-bit length field and returns the payload it
// covers. The length includes the two length bytes themselves.
func (r *Reader) ReadSegment() ([]byte, error) {
	if r.pos+2 > len(r.data) {
		return nil, ErrBufferExhausted
	}
	length := int(r.data[r.pos])<<8 | int(r.data[r.pos+1])
	if length < 2 {
		return nil, ErrInvalidSegmentLength
	}
	r.pos += 2
	payloadLen := length - 2
	if r.pos+payloadLen > len(r.data) {
		return nil, ErrBufferExhausted
	}
	payload := r.data[r.pos : r.pos+payloadLen]
	r.pos += payloadLen
	return payload, nil
}

// Remaining returns the unread tail of the buffer.
func (r *Reader) Remaining() []byte {
	return r.data[r.pos:]
}

// Pos returns the current offset into the buffer.
func (r *Reader) Pos() int {
	return r.pos
}

// Advance moves the read position forward by n bytes.
func (r *Reader) Advance(n int) {
	r.pos += n
	if r.pos > len(r.data) {
		r.pos = len(r.data)
	}
}
