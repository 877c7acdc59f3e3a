package jpegls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosip/go-jpegls/jpegls/stream"
)

func TestMapErrorValue(t *testing.T) {
	cases := []struct {
		errVal int
		mapped int
	}{
		{0, 0}, {-1, 1}, {1, 2}, {-2, 3}, {2, 4}, {-128, 255}, {127, 254},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.mapped, mapErrorValue(tc.errVal), "map(%d)", tc.errVal)
		assert.Equal(t, tc.errVal, unmapErrorValue(tc.mapped), "unmap(%d)", tc.mapped)
	}
}

func TestMappedValueRoundTrip(t *testing.T) {
	const limit, qbpp = 32, 8

	for k := 0; k <= 10; k++ {
		bw := stream.NewBitWriter()
		for mapped := 0; mapped < 256; mapped++ {
			require.NoError(t, encodeMappedValue(bw, k, mapped, limit, qbpp))
		}
		require.NoError(t, bw.Flush())

		br := stream.NewBitReader(bw.Bytes())
		for mapped := 0; mapped < 256; mapped++ {
			got, err := decodeMappedValue(br, k, limit, qbpp)
			require.NoError(t, err, "k=%d mapped=%d", k, mapped)
			require.Equal(t, mapped, got, "k=%d", k)
		}
	}
}

// Codewords never exceed the LIMIT bound; the worst case takes the
// escape path: (limit-qbpp-1) unary zeros, the terminator and qbpp raw
// bits.
func TestMappedValueEscapeLength(t *testing.T) {
	const limit, qbpp = 32, 8

	bw := stream.NewBitWriter()
	require.NoError(t, encodeMappedValue(bw, 0, 255, limit, qbpp))
	require.NoError(t, bw.Flush())

	bits := (limit - qbpp - 1) + 1 + qbpp
	assert.LessOrEqual(t, len(bw.Bytes()), (bits+7)/8)

	br := stream.NewBitReader(bw.Bytes())
	got, err := decodeMappedValue(br, 0, limit, qbpp)
	require.NoError(t, err)
	assert.Equal(t, 255, got)
}
