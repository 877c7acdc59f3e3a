package jpegls

// runLengthJ is the run-length code order table of T.87 A.2.1 step 3:
// a run segment at index i covers up to 2^J[i] samples.
var runLengthJ = [32]int{
	0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// runState tracks the adaptive run-length code order within one scan.
// RUNindex persists across lines and, in interleaved scans, across
// components.
type runState struct {
	index int
}

func (r *runState) increment() {
	if r.index < 31 {
		r.index++
	}
}

func (r *runState) decrement() {
	if r.index > 0 {
		r.index--
	}
}

// segmentLength returns 2^J[RUNindex], the span of the next full run
// segment.
func (r *runState) segmentLength() int {
	return 1 << uint(runLengthJ[r.index])
}

// codeBits returns J[RUNindex], the bit width of a partial run length.
func (r *runState) codeBits() int {
	return runLengthJ[r.index]
}
