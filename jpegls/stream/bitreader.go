package stream

// BitReader consumes entropy-coded data bit by bit, MSB first,
// stripping the zero bit stuffed after every 0xFF byte. Reading stops
// at the first marker (0xFF followed by a byte >= 0x80) or at the end
// of the source slice.
type BitReader struct {
	data      []byte
	pos       int
	bitBuffer uint64
	bitCount  uint
	prevFF    bool
}

// NewBitReader creates a BitReader over data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

func (r *BitReader) fill() error {
	if r.pos >= len(r.data) {
		return ErrBufferExhausted
	}
	b := r.data[r.pos]
	if r.prevFF {
		if b >= 0x80 {
			return ErrMarkerEncountered
		}
		// stuffed byte: the MSB is the stuffed zero, 7 data bits remain
		r.pos++
		r.bitBuffer = r.bitBuffer<<7 | uint64(b)
		r.bitCount += 7
		r.prevFF = false
		return nil
	}
	r.pos++
	r.bitBuffer = r.bitBuffer<<8 | uint64(b)
	r.bitCount += 8
	r.prevFF = b == 0xFF
	return nil
}

// ReadBit reads a single bit.
func (r *BitReader) ReadBit() (int, error) {
	if r.bitCount == 0 {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	r.bitCount--
	return int(r.bitBuffer>>r.bitCount) & 1, nil
}

// ReadBits reads count bits, MSB first. count must be at most 31.
func (r *BitReader) ReadBits(count int) (uint32, error) {
	for r.bitCount < uint(count) {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	r.bitCount -= uint(count)
	return uint32(r.bitBuffer>>r.bitCount) & (1<<uint(count) - 1), nil
}

// ReadUnary reads zero bits up to the terminating one bit and returns
// the count of zeros.
func (r *BitReader) ReadUnary() (int, error) {
	n := 0
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			return n, nil
		}
		n++
	}
}

// AlignToByte discards any bits remaining in the current byte.
func (r *BitReader) AlignToByte() {
	r.bitBuffer = 0
	r.bitCount = 0
}

// Position returns the offset of the next unconsumed byte. Only
// meaningful after AlignToByte.
func (r *BitReader) Position() int {
	return r.pos
}
