package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncapsulateFrames builds an encapsulated pixel data stream from
// compressed frame bitstreams (DICOM PS3.5 A.4): a Basic Offset Table
// item, one item per frame padded to even length, and a sequence
// delimitation item. All fields are little-endian.
func EncapsulateFrames(frames [][]byte) []byte {
	var buf bytes.Buffer

	offsets := make([]uint32, len(frames))
	offset := uint32(0)
	for i, frame := range frames {
		offsets[i] = offset
		offset += 8 + uint32(len(frame)+len(frame)%2)
	}

	// Basic Offset Table: empty for single-frame data
	if len(offsets) > 1 {
		writeItemHeader(&buf, 0xE000, uint32(len(offsets)*4))
		for _, o := range offsets {
			binary.Write(&buf, binary.LittleEndian, o)
		}
	} else {
		writeItemHeader(&buf, 0xE000, 0)
	}

	for _, frame := range frames {
		writeItemHeader(&buf, 0xE000, uint32(len(frame)+len(frame)%2))
		buf.Write(frame)
		if len(frame)%2 != 0 {
			buf.WriteByte(0)
		}
	}

	writeItemHeader(&buf, 0xE0DD, 0)
	return buf.Bytes()
}

func writeItemHeader(buf *bytes.Buffer, element uint16, length uint32) {
	binary.Write(buf, binary.LittleEndian, uint16(0xFFFE))
	binary.Write(buf, binary.LittleEndian, element)
	binary.Write(buf, binary.LittleEndian, length)
}

// ExtractFrames splits an encapsulated pixel data stream back into
// per-frame bitstreams, the inverse of EncapsulateFrames.
func ExtractFrames(data []byte) ([][]byte, error) {
	var frames [][]byte
	offset := 0

	first := true
	for offset+8 <= len(data) {
		group := binary.LittleEndian.Uint16(data[offset:])
		element := binary.LittleEndian.Uint16(data[offset+2:])
		length := int(binary.LittleEndian.Uint32(data[offset+4:]))
		offset += 8

		if group != 0xFFFE {
			return nil, fmt.Errorf("unexpected tag %04X,%04X in encapsulated data", group, element)
		}
		if element == 0xE0DD {
			break
		}
		if element != 0xE000 {
			return nil, fmt.Errorf("unexpected tag %04X,%04X in encapsulated data", group, element)
		}
		if offset+length > len(data) {
			return nil, fmt.Errorf("item length %d runs past end of encapsulated data", length)
		}

		if first {
			// Basic Offset Table, not a frame
			first = false
		} else {
			frame := make([]byte, length)
			copy(frame, data[offset:offset+length])
			frames = append(frames, frame)
		}
		offset += length
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frame items in encapsulated data")
	}
	// tolerate a missing sequence delimiter
	return frames, nil
}
