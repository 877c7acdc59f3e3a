package jpegls

import "encoding/binary"

// planesFromBytes unpacks a raw pixel buffer into component-major
// planes of width*height samples each, de-interleaving according to
// the buffer layout implied by the interleave mode. Samples wider than
// 8 bits are read little-endian and masked to the sample depth.
func planesFromBytes(pixels []byte, fi FrameInfo, ilv InterleaveMode) [][]int {
	w, h, comps := fi.Width, fi.Height, fi.ComponentCount
	mask := 1<<uint(fi.BitsPerSample) - 1

	planes := make([][]int, comps)
	for c := range planes {
		planes[c] = make([]int, w*h)
	}

	read := func(i int) int {
		if fi.bytesPerSample() == 1 {
			return int(pixels[i]) & mask
		}
		return int(binary.LittleEndian.Uint16(pixels[2*i:])) & mask
	}

	for c := 0; c < comps; c++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				planes[c][y*w+x] = read(sampleIndex(fi, ilv, c, x, y))
			}
		}
	}
	return planes
}

// bytesFromPlanes packs component-major planes back into a raw pixel
// buffer with the layout implied by the interleave mode.
func bytesFromPlanes(planes [][]int, fi FrameInfo, ilv InterleaveMode) []byte {
	w, h, comps := fi.Width, fi.Height, fi.ComponentCount
	out := make([]byte, fi.frameSize())

	write := func(i, v int) {
		if fi.bytesPerSample() == 1 {
			out[i] = byte(v)
			return
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}

	for c := 0; c < comps; c++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				write(sampleIndex(fi, ilv, c, x, y), planes[c][y*w+x])
			}
		}
	}
	return out
}

// sampleIndex maps a (component, x, y) position to its sample index in
// the raw buffer: planar for no interleave, row-interleaved for line
// mode, pixel-interleaved for sample mode.
func sampleIndex(fi FrameInfo, ilv InterleaveMode, c, x, y int) int {
	switch ilv {
	case InterleaveLine:
		return (y*fi.ComponentCount+c)*fi.Width + x
	case InterleaveSample:
		return (y*fi.Width+x)*fi.ComponentCount + c
	default:
		return (c*fi.Height+y)*fi.Width + x
	}
}
