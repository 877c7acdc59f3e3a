package dicom

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncapsulateSingleFrame(t *testing.T) {
	frame := []byte{1, 2, 3, 4}
	data := EncapsulateFrames([][]byte{frame})

	// empty BOT item
	assert.Equal(t, uint16(0xFFFE), binary.LittleEndian.Uint16(data[0:]))
	assert.Equal(t, uint16(0xE000), binary.LittleEndian.Uint16(data[2:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[4:]))

	// frame item
	assert.Equal(t, uint16(0xE000), binary.LittleEndian.Uint16(data[10:]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[12:]))
	assert.Equal(t, frame, data[16:20])

	// sequence delimiter
	assert.Equal(t, uint16(0xE0DD), binary.LittleEndian.Uint16(data[22:]))
}

func TestEncapsulateOddLengthPadding(t *testing.T) {
	data := EncapsulateFrames([][]byte{{1, 2, 3}})

	// the item length is padded to even, with a trailing zero byte
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[12:]))
	assert.Equal(t, []byte{1, 2, 3, 0}, data[16:20])
}

func TestEncapsulateExtractRoundTrip(t *testing.T) {
	frames := [][]byte{
		{0xFF, 0xD8, 0xAB, 0xFF, 0xD9},
		{1},
		make([]byte, 1000),
	}
	data := EncapsulateFrames(frames)

	got, err := ExtractFrames(data)
	require.NoError(t, err)
	require.Len(t, got, len(frames))
	for i := range frames {
		padded := frames[i]
		if len(padded)%2 != 0 {
			padded = append(append([]byte{}, padded...), 0)
		}
		assert.Equal(t, padded, got[i], "frame %d", i)
	}
}

func TestEncapsulateMultiFrameOffsets(t *testing.T) {
	frames := [][]byte{make([]byte, 10), make([]byte, 7), make([]byte, 4)}
	data := EncapsulateFrames(frames)

	// BOT carries one offset per frame
	require.Equal(t, uint32(12), binary.LittleEndian.Uint32(data[4:]))
	offsets := []uint32{
		binary.LittleEndian.Uint32(data[8:]),
		binary.LittleEndian.Uint32(data[12:]),
		binary.LittleEndian.Uint32(data[16:]),
	}
	assert.Equal(t, []uint32{0, 18, 34}, offsets)
}

func TestExtractFramesErrors(t *testing.T) {
	_, err := ExtractFrames([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err)

	// BOT only, no frames
	bot := EncapsulateFrames(nil)
	_, err = ExtractFrames(bot)
	assert.Error(t, err)
}

func TestNewUID(t *testing.T) {
	a := NewUID()
	b := NewUID()

	assert.NotEqual(t, a, b)
	for _, uid := range []string{a, b} {
		assert.Regexp(t, `^2\.25\.\d+$`, uid)
		assert.LessOrEqual(t, len(uid), 64, "DICOM UIDs are capped at 64 chars")
	}
}
