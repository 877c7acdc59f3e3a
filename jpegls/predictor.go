package jpegls

// predict computes the median-edge-detector prediction of LOCO-I
// (T.87 A.4.2) from the west, north and northwest neighbors:
//
//	c b d
//	a x
//
// If c is at least the larger of a and b there is a horizontal edge
// and the smaller neighbor is predicted; if c is at most the smaller
// there is a vertical edge and the larger is predicted; otherwise the
// planar value a+b-c.
func predict(a, b, c int) int {
	if c >= max(a, b) {
		return min(a, b)
	}
	if c <= min(a, b) {
		return max(a, b)
	}
	return a + b - c
}

// computeContextID combines three quantized gradients into a signed
// context identifier in [-364, 364]. Mirrored gradient triples map to
// negated identifiers; the caller canonicalizes by sign and codes the
// residual with a flipped sign (T.87 A.3.4).
func computeContextID(q1, q2, q3 int) int {
	return (q1*9+q2)*9 + q3
}
