package jpegls

import "github.com/cocosip/go-jpegls/jpegls/stream"

// mapErrorValue interleaves signed errors into non-negative code
// indices: 0, -1, 1, -2, 2 ... -> 0, 1, 2, 3, 4 ... (T.87 A.5.2).
func mapErrorValue(errVal int) int {
	if errVal >= 0 {
		return 2 * errVal
	}
	return -2*errVal - 1
}

// unmapErrorValue is the inverse of mapErrorValue.
func unmapErrorValue(mapped int) int {
	if mapped&1 == 0 {
		return mapped >> 1
	}
	return -((mapped + 1) >> 1)
}

// encodeMappedValue writes a mapped error with a limited-length
// Golomb-Rice code (T.87 A.5.3). Values whose unary quotient would
// reach limit-qbpp-1 escape to that quotient followed by the value
// minus one in qbpp raw bits, bounding every codeword at limit bits.
func encodeMappedValue(bw *stream.BitWriter, k, mapped, limit, qbpp int) error {
	highBits := mapped >> uint(k)
	if highBits < limit-qbpp-1 {
		if err := bw.WriteUnary(highBits); err != nil {
			return err
		}
		if k > 0 {
			return bw.WriteBits(uint32(mapped)&(1<<uint(k)-1), k)
		}
		return nil
	}
	if err := bw.WriteUnary(limit - qbpp - 1); err != nil {
		return err
	}
	return bw.WriteBits(uint32(mapped-1)&(1<<uint(qbpp)-1), qbpp)
}

// decodeMappedValue reads a limited-length Golomb-Rice codeword, the
// exact inverse of encodeMappedValue.
func decodeMappedValue(br *stream.BitReader, k, limit, qbpp int) (int, error) {
	highBits, err := br.ReadUnary()
	if err != nil {
		return 0, err
	}
	if highBits >= limit-(qbpp+1) {
		value, err := br.ReadBits(qbpp)
		if err != nil {
			return 0, err
		}
		return int(value) + 1, nil
	}
	if k == 0 {
		return highBits, nil
	}
	remainder, err := br.ReadBits(k)
	if err != nil {
		return 0, err
	}
	return highBits<<uint(k) + int(remainder), nil
}
