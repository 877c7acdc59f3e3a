package stream

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestBitWriterStuffsZeroAfterFF(t *testing.T) {
	w := NewBitWriter()
	if err := w.WriteBits(0xFF, 8); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if err := w.WriteBits(0xFF, 8); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// the byte after 0xFF carries 7 data bits behind a stuffed zero
	want := []byte{0xFF, 0x7F, 0x80}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes() = % X, want % X", w.Bytes(), want)
	}
}

func TestBitWriterNeverEmitsMarker(t *testing.T) {
	w := NewBitWriter()
	// all-ones keeps forcing the stuffing path
	for i := 0; i < 100; i++ {
		if err := w.WriteBits(0x7FFFFFFF, 31); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data := w.Bytes()
	for i := 0; i+1 < len(data); i++ {
		if data[i] == 0xFF && data[i+1] >= 0x80 {
			t.Fatalf("marker %02X %02X at offset %d", data[i], data[i+1], i)
		}
	}
}

func TestBitReaderUnstuffs(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0x7F, 0x80})
	for i := 0; i < 2; i++ {
		v, err := r.ReadBits(8)
		if err != nil {
			t.Fatalf("ReadBits: %v", err)
		}
		if v != 0xFF {
			t.Errorf("ReadBits() = %#x, want 0xFF", v)
		}
	}
}

func TestBitReaderStopsAtMarker(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0xD9})
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if _, err := r.ReadBit(); !errors.Is(err, ErrMarkerEncountered) {
		t.Errorf("ReadBit() error = %v, want ErrMarkerEncountered", err)
	}
}

func TestBitReaderExhaustion(t *testing.T) {
	r := NewBitReader([]byte{0xA5})
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if _, err := r.ReadBit(); !errors.Is(err, ErrBufferExhausted) {
		t.Errorf("ReadBit() error = %v, want ErrBufferExhausted", err)
	}
}

func TestBitIORoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	type item struct {
		value uint32
		count int
	}
	items := make([]item, 2000)
	w := NewBitWriter()
	for i := range items {
		count := 1 + rng.Intn(31)
		value := rng.Uint32() & (1<<uint(count) - 1)
		items[i] = item{value, count}
		if err := w.WriteBits(value, count); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := NewBitReader(w.Bytes())
	for i, it := range items {
		got, err := r.ReadBits(it.count)
		if err != nil {
			t.Fatalf("ReadBits item %d: %v", i, err)
		}
		if got != it.value {
			t.Fatalf("item %d: got %#x, want %#x (%d bits)", i, got, it.value, it.count)
		}
	}
}

func TestUnaryRoundTrip(t *testing.T) {
	w := NewBitWriter()
	values := []int{0, 1, 7, 23, 24, 100, 0, 3}
	for _, q := range values {
		if err := w.WriteUnary(q); err != nil {
			t.Fatalf("WriteUnary(%d): %v", q, err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := NewBitReader(w.Bytes())
	for _, q := range values {
		got, err := r.ReadUnary()
		if err != nil {
			t.Fatalf("ReadUnary: %v", err)
		}
		if got != q {
			t.Errorf("ReadUnary() = %d, want %d", got, q)
		}
	}
}

func TestBitWriterCapacity(t *testing.T) {
	w := NewBitWriterCapacity(1)
	err := w.WriteBits(0xABCD, 16)
	if !errors.Is(err, ErrOutputCapacityExceeded) {
		t.Errorf("WriteBits error = %v, want ErrOutputCapacityExceeded", err)
	}
}

func TestAlignToByte(t *testing.T) {
	r := NewBitReader([]byte{0b10100000, 0x42})
	if _, err := r.ReadBits(3); err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	r.AlignToByte()
	if r.Position() != 1 {
		t.Errorf("Position() = %d, want 1", r.Position())
	}
	v, err := r.ReadBits(8)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if v != 0x42 {
		t.Errorf("ReadBits() = %#x, want 0x42", v)
	}
}
