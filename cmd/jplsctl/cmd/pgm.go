package cmd

import (
	"bytes"
	"fmt"
	"math/bits"
	"os"

	"github.com/cocosip/go-jpegls/jpegls"
)

// readPGM parses a binary (P5) PGM file into the little-endian sample
// buffer the encoder expects. PGM stores 16-bit samples big-endian.
func readPGM(data []byte) ([]byte, jpegls.FrameInfo, error) {
	rest := data
	token := func() (string, error) {
		for len(rest) > 0 {
			switch rest[0] {
			case ' ', '\t', '\r', '\n':
				rest = rest[1:]
			case '#':
				if i := bytes.IndexByte(rest, '\n'); i >= 0 {
					rest = rest[i+1:]
				} else {
					rest = nil
				}
			default:
				end := 0
				for end < len(rest) && rest[end] > ' ' {
					end++
				}
				t := string(rest[:end])
				rest = rest[end:]
				return t, nil
			}
		}
		return "", fmt.Errorf("truncated PGM header")
	}
	number := func() (int, error) {
		t, err := token()
		if err != nil {
			return 0, err
		}
		n := 0
		for _, c := range t {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("bad PGM header token %q", t)
			}
			n = n*10 + int(c-'0')
		}
		return n, nil
	}

	magic, err := token()
	if err != nil {
		return nil, jpegls.FrameInfo{}, err
	}
	if magic != "P5" {
		return nil, jpegls.FrameInfo{}, fmt.Errorf("unsupported PGM magic %q (want P5)", magic)
	}
	width, err := number()
	if err != nil {
		return nil, jpegls.FrameInfo{}, err
	}
	height, err := number()
	if err != nil {
		return nil, jpegls.FrameInfo{}, err
	}
	maxVal, err := number()
	if err != nil {
		return nil, jpegls.FrameInfo{}, err
	}
	if maxVal < 1 || maxVal > 0xFFFF {
		return nil, jpegls.FrameInfo{}, fmt.Errorf("bad PGM maxval %d", maxVal)
	}
	if len(rest) > 0 {
		// single whitespace byte separates the header from the raster
		rest = rest[1:]
	}

	fi := jpegls.FrameInfo{
		Width:          width,
		Height:         height,
		BitsPerSample:  max(2, bits.Len(uint(maxVal))),
		ComponentCount: 1,
	}
	n := width * height
	if maxVal < 256 {
		if len(rest) < n {
			return nil, jpegls.FrameInfo{}, fmt.Errorf("PGM raster has %d bytes, need %d", len(rest), n)
		}
		return rest[:n], fi, nil
	}
	if len(rest) < 2*n {
		return nil, jpegls.FrameInfo{}, fmt.Errorf("PGM raster has %d bytes, need %d", len(rest), 2*n)
	}
	pixels := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		pixels[2*i] = rest[2*i+1]
		pixels[2*i+1] = rest[2*i]
	}
	return pixels, fi, nil
}

// writePGM writes a single-component sample buffer as binary PGM.
func writePGM(path string, pixels []byte, fi jpegls.FrameInfo) error {
	if fi.ComponentCount != 1 {
		return fmt.Errorf("PGM output needs a single component, image has %d", fi.ComponentCount)
	}
	maxVal := 1<<uint(fi.BitsPerSample) - 1

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P5\n%d %d\n%d\n", fi.Width, fi.Height, maxVal)
	if maxVal < 256 {
		buf.Write(pixels)
	} else {
		for i := 0; i+1 < len(pixels); i += 2 {
			buf.WriteByte(pixels[i+1])
			buf.WriteByte(pixels[i])
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
