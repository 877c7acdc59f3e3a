package jpegls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosip/go-jpegls/jpegls/stream"
)

func TestStartOfFrameRoundTrip(t *testing.T) {
	fi := FrameInfo{Width: 640, Height: 480, BitsPerSample: 12, ComponentCount: 3}

	w := stream.NewWriter()
	require.NoError(t, writeStartOfFrame(w, fi))

	r := stream.NewReader(w.Bytes())
	m, err := r.ReadMarker()
	require.NoError(t, err)
	require.Equal(t, uint16(stream.MarkerSOF55), m)

	payload, err := r.ReadSegment()
	require.NoError(t, err)
	got, err := parseStartOfFrame(payload)
	require.NoError(t, err)
	assert.Equal(t, fi, got)
}

func TestParseStartOfFrameErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
		want    error
	}{
		{"truncated", []byte{8, 0, 1}, ErrMalformedHeader},
		{"zero height", []byte{8, 0, 0, 0, 1, 1, 1, 0x11, 0}, ErrUnsupportedParameter},
		{"zero width", []byte{8, 0, 1, 0, 0, 1, 1, 0x11, 0}, ErrInvalidDimensions},
		{"bit depth 1", []byte{1, 0, 1, 0, 1, 1, 1, 0x11, 0}, ErrInvalidBitDepth},
		{"five components", []byte{8, 0, 1, 0, 1, 5, 1, 0x11, 0, 2, 0x11, 0, 3, 0x11, 0, 4, 0x11, 0, 5, 0x11, 0}, ErrInvalidComponents},
		{"length mismatch", []byte{8, 0, 1, 0, 1, 2, 1, 0x11, 0}, ErrMalformedHeader},
		{"subsampled", []byte{8, 0, 1, 0, 1, 1, 1, 0x21, 0}, ErrUnsupportedParameter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseStartOfFrame(tc.payload)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPresetParametersRoundTrip(t *testing.T) {
	params, err := computeCodingParameters(255, 0, 0, 0, 0, 0)
	require.NoError(t, err)

	w := stream.NewWriter()
	require.NoError(t, writePresetParameters(w, params))

	r := stream.NewReader(w.Bytes())
	_, err = r.ReadMarker()
	require.NoError(t, err)
	payload, err := r.ReadSegment()
	require.NoError(t, err)

	preset, err := parsePresetParameters(payload)
	require.NoError(t, err)
	assert.Equal(t, PresetCodingParameters{
		MaximumSampleValue: 255,
		Threshold1:         3,
		Threshold2:         7,
		Threshold3:         21,
		ResetValue:         64,
	}, preset)
}

func TestParsePresetParametersIDs(t *testing.T) {
	// mapping tables are valid streams we do not implement
	_, err := parsePresetParameters([]byte{2, 0, 1})
	assert.ErrorIs(t, err, ErrUnsupportedParameter)

	_, err = parsePresetParameters([]byte{9})
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = parsePresetParameters([]byte{1, 0, 255})
	assert.ErrorIs(t, err, ErrMalformedHeader, "id 1 with short payload")
}

func TestStartOfScanRoundTrip(t *testing.T) {
	fi := FrameInfo{Width: 16, Height: 16, BitsPerSample: 8, ComponentCount: 3}

	w := stream.NewWriter()
	require.NoError(t, writeStartOfScan(w, []int{1, 2, 3}, 2, InterleaveLine))

	r := stream.NewReader(w.Bytes())
	_, err := r.ReadMarker()
	require.NoError(t, err)
	payload, err := r.ReadSegment()
	require.NoError(t, err)

	h, err := parseStartOfScan(payload, fi)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, h.componentIDs)
	assert.Equal(t, 2, h.near)
	assert.Equal(t, InterleaveLine, h.interleave)
}

func TestParseStartOfScanErrors(t *testing.T) {
	fi := FrameInfo{Width: 16, Height: 16, BitsPerSample: 8, ComponentCount: 3}
	cases := []struct {
		name    string
		payload []byte
		want    error
	}{
		{"empty", nil, ErrMalformedHeader},
		{"length mismatch", []byte{2, 1, 0, 0, 0, 0}, ErrMalformedHeader},
		{"bad component id", []byte{1, 9, 0, 0, 0, 0}, ErrMalformedHeader},
		{"mapping table", []byte{1, 1, 5, 0, 0, 0}, ErrUnsupportedParameter},
		{"bad interleave", []byte{1, 1, 0, 0, 3, 0}, ErrMalformedHeader},
		{"point transform", []byte{1, 1, 0, 0, 0, 4}, ErrUnsupportedParameter},
		{"single comp interleaved", []byte{1, 1, 0, 0, 1, 0}, ErrMalformedHeader},
		{"multi comp no interleave", []byte{3, 1, 0, 2, 0, 3, 0, 0, 0, 0}, ErrMalformedHeader},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseStartOfScan(tc.payload, fi)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
