package stream

// BitWriter accumulates entropy-coded data bit by bit, MSB first.
//
// T.87 marker protection: after any emitted 0xFF byte the next byte
// carries only 7 data bits, with a zero bit stuffed in its most
// significant position. This guarantees the coded stream never forms a
// two-byte marker (0xFF followed by a byte >= 0x80).
type BitWriter struct {
	buf        []byte
	bitBuffer  uint64
	bitCount   uint
	lastByteFF bool
	capacity   int // 0 means grow as needed
}

// NewBitWriter creates a BitWriter with a growable output buffer.
func NewBitWriter() *BitWriter {
	return &BitWriter{buf: make([]byte, 0, 4096)}
}

// NewBitWriterCapacity creates a BitWriter with a fixed output capacity.
// Writes beyond the capacity fail with ErrOutputCapacityExceeded.
func NewBitWriterCapacity(capacity int) *BitWriter {
	return &BitWriter{buf: make([]byte, 0, capacity), capacity: capacity}
}

// WriteBit appends a single bit.
func (w *BitWriter) WriteBit(bit int) error {
	return w.WriteBits(uint32(bit&1), 1)
}

// WriteBits appends the low count bits of value, MSB first.
// count must be at most 31.
func (w *BitWriter) WriteBits(value uint32, count int) error {
	if count <= 0 {
		return nil
	}
	w.bitBuffer = w.bitBuffer<<uint(count) | uint64(value&(1<<uint(count)-1))
	w.bitCount += uint(count)
	return w.emit()
}

// WriteUnary appends q zero bits followed by a one bit.
func (w *BitWriter) WriteUnary(q int) error {
	for q >= 24 {
		if err := w.WriteBits(0, 24); err != nil {
			return err
		}
		q -= 24
	}
	return w.WriteBits(1, q+1)
}

// emit drains the bit buffer into whole output bytes, stuffing a zero
// bit after every 0xFF.
func (w *BitWriter) emit() error {
	for {
		avail := uint(8)
		if w.lastByteFF {
			avail = 7
		}
		if w.bitCount < avail {
			return nil
		}
		shift := w.bitCount - avail
		b := byte(w.bitBuffer >> shift)
		w.bitBuffer &= 1<<shift - 1
		w.bitCount = shift
		if w.capacity > 0 && len(w.buf) >= w.capacity {
			return ErrOutputCapacityExceeded
		}
		w.buf = append(w.buf, b)
		w.lastByteFF = b == 0xFF
	}
}

// Flush pads the pending bits with zeros up to a byte boundary and
// emits the final byte. A no-op when already aligned.
func (w *BitWriter) Flush() error {
	avail := uint(8)
	if w.lastByteFF {
		avail = 7
	}
	if w.bitCount == 0 {
		return nil
	}
	return w.WriteBits(0, int(avail-w.bitCount))
}

// Bytes returns the emitted bytes. Call Flush first to include any
// pending partial byte.
func (w *BitWriter) Bytes() []byte {
	return w.buf
}

// Len returns the number of emitted bytes.
func (w *BitWriter) Len() int {
	return len(w.buf)
}
