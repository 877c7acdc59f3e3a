package jpegls

import (
	"fmt"

	"github.com/cocosip/go-jpegls/jpegls/stream"
)

// scanCodec holds the per-scan state shared between encoding and
// decoding: the derived coding parameters, the adaptive context
// tables, the run-length state and the causal line buffers. All state
// is owned by a single encode or decode invocation.
//
// Each component has a previous and a current line buffer of
// width+2 samples. Sample x of the current line lives at cur[x+1], so
// the causal template reads without bounds checks:
//
//	Ra = cur[x]      Rb = prev[x+1]
//	Rc = prev[x]     Rd = prev[x+2]
//
// The T.87 edge rules fall out of the buffer priming: the line above
// the first line is all zeros, Ra of the first column is Rb, and Rc of
// the first column is the Ra the previous line started with.
type scanCodec struct {
	params     codingParameters
	contexts   [contextCount]context
	runCtx     [2]runContext
	run        runState
	width      int
	height     int
	components int
	prev       [][]int
	cur        [][]int
}

func newScanCodec(params codingParameters, width, height, components int) *scanCodec {
	s := &scanCodec{
		params:     params,
		contexts:   newContextTable(params.rng),
		runCtx:     newRunContexts(params.rng),
		width:      width,
		height:     height,
		components: components,
		prev:       make([][]int, components),
		cur:        make([][]int, components),
	}
	for c := 0; c < components; c++ {
		s.prev[c] = make([]int, width+2)
		s.cur[c] = make([]int, width+2)
	}
	return s
}

// beginLine primes the edge samples for one component's line.
func (s *scanCodec) beginLine(comp int) {
	s.cur[comp][0] = s.prev[comp][1]
	s.prev[comp][s.width+1] = s.prev[comp][s.width]
}

// endLine rotates the component's line buffers.
func (s *scanCodec) endLine(comp int) {
	s.prev[comp], s.cur[comp] = s.cur[comp], s.prev[comp]
}

// contextSignature quantizes the three local gradients at column x of
// one component and folds them into the signed context identifier.
func (s *scanCodec) contextSignature(comp, x int) int {
	cur, prev := s.cur[comp], s.prev[comp]
	ra, rb, rc, rd := cur[x], prev[x+1], prev[x], prev[x+2]
	q1 := s.params.quantizeGradient(rd - rb)
	q2 := s.params.quantizeGradient(rb - rc)
	q3 := s.params.quantizeGradient(rc - ra)
	return computeContextID(q1, q2, q3)
}

// encodeRegular codes the sample at column x of one component in
// regular mode (T.87 A.4, CharLS do_regular). qs is the signed context
// identifier; negative identifiers canonicalize by sign flip, coding
// the negated residual. The current-line sample is replaced by its
// reconstruction so later neighbors see what the decoder will see.
func (s *scanCodec) encodeRegular(bw *stream.BitWriter, comp, x, qs int) error {
	cur, prev := s.cur[comp], s.prev[comp]
	sgn, idx := 1, qs
	if qs < 0 {
		sgn, idx = -1, -qs
	}
	ctx := &s.contexts[idx]

	k := ctx.golombParameter()
	px := s.params.correctPrediction(predict(cur[x], prev[x+1], prev[x]) + sgn*ctx.C)
	errVal := s.params.computeErrorValue(sgn * (cur[x+1] - px))

	mapped := mapErrorValue(ctx.errorCorrection(k|s.params.near) ^ errVal)
	if err := encodeMappedValue(bw, k, mapped, s.params.limit, s.params.qbpp); err != nil {
		return err
	}

	ctx.update(errVal, s.params.near, s.params.reset)
	cur[x+1] = s.params.reconstruct(px, sgn*errVal)
	return nil
}

// decodeRegular is the exact inverse of encodeRegular.
func (s *scanCodec) decodeRegular(br *stream.BitReader, comp, x, qs int) error {
	cur, prev := s.cur[comp], s.prev[comp]
	sgn, idx := 1, qs
	if qs < 0 {
		sgn, idx = -1, -qs
	}
	ctx := &s.contexts[idx]

	k := ctx.golombParameter()
	px := s.params.correctPrediction(predict(cur[x], prev[x+1], prev[x]) + sgn*ctx.C)

	mapped, err := decodeMappedValue(br, k, s.params.limit, s.params.qbpp)
	if err != nil {
		return err
	}
	errVal := unmapErrorValue(mapped)
	if k == 0 {
		errVal ^= ctx.errorCorrection(s.params.near)
	}

	ctx.update(errVal, s.params.near, s.params.reset)
	cur[x+1] = s.params.reconstruct(px, sgn*errVal)
	return nil
}

// encodeRunPixels codes a run length as a sequence of full segments of
// 2^J[RUNindex] samples (one bit each) plus, unless the run reached the
// end of the line, a partial count in J[RUNindex]+1 bits (T.87 A.7.1).
func (s *scanCodec) encodeRunPixels(bw *stream.BitWriter, runLength int, endOfLine bool) error {
	for runLength >= s.run.segmentLength() {
		if err := bw.WriteBit(1); err != nil {
			return err
		}
		runLength -= s.run.segmentLength()
		s.run.increment()
	}
	if endOfLine {
		if runLength != 0 {
			return bw.WriteBit(1)
		}
		return nil
	}
	// leading zero plus the remainder, which fits in J[RUNindex] bits
	return bw.WriteBits(uint32(runLength), s.run.codeBits()+1)
}

// decodeRunPixels reads the run length, mirroring encodeRunPixels.
// count bounds the run by the samples left in the line.
func (s *scanCodec) decodeRunPixels(br *stream.BitReader, count int) (int, error) {
	index := 0
	for {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			if s.run.codeBits() > 0 {
				partial, err := br.ReadBits(s.run.codeBits())
				if err != nil {
					return 0, err
				}
				index += int(partial)
			}
			break
		}
		n := min(s.run.segmentLength(), count-index)
		index += n
		if n == s.run.segmentLength() {
			s.run.increment()
		}
		if index == count {
			return index, nil
		}
	}
	if index > count {
		return 0, fmt.Errorf("%w: run length %d exceeds line remainder %d", ErrInvalidData, index, count)
	}
	return index, nil
}

// encodeRunInterruptionError codes the residual of the sample that
// broke a run, through one of the two dedicated run contexts
// (T.87 A.7.2, code segments A.21-A.23).
func (s *scanCodec) encodeRunInterruptionError(bw *stream.BitWriter, ctx *runContext, errVal int) error {
	k := ctx.golombCode()
	eMapped := 2*abs(errVal) - ctx.runType
	if ctx.computeMap(errVal, k) {
		eMapped--
	}
	if err := encodeMappedValue(bw, k, eMapped, s.params.limit-s.run.codeBits()-1, s.params.qbpp); err != nil {
		return err
	}
	ctx.update(errVal, eMapped, s.params.reset)
	return nil
}

// decodeRunInterruptionError is the inverse of
// encodeRunInterruptionError.
func (s *scanCodec) decodeRunInterruptionError(br *stream.BitReader, ctx *runContext) (int, error) {
	k := ctx.golombCode()
	eMapped, err := decodeMappedValue(br, k, s.params.limit-s.run.codeBits()-1, s.params.qbpp)
	if err != nil {
		return 0, err
	}
	errVal := ctx.computeErrorValue(eMapped+ctx.runType, k)
	ctx.update(errVal, eMapped, s.params.reset)
	return errVal, nil
}

// encodeRunMode runs the greedy run scan for a single-component scan
// position and codes the run plus, unless the line ended, the
// interrupting sample. Returns the number of samples consumed.
func (s *scanCodec) encodeRunMode(bw *stream.BitWriter, comp, x int) (int, error) {
	cur, prev := s.cur[comp], s.prev[comp]
	ra := cur[x]
	remaining := s.width - x

	runLength := 0
	for runLength < remaining && s.params.isNear(cur[x+1+runLength], ra) {
		cur[x+1+runLength] = ra
		runLength++
	}
	if err := s.encodeRunPixels(bw, runLength, runLength == remaining); err != nil {
		return 0, err
	}
	if runLength == remaining {
		return runLength, nil
	}

	pos := x + 1 + runLength
	xVal, rb := cur[pos], prev[pos]
	if s.params.isNear(ra, rb) {
		errVal := s.params.computeErrorValue(xVal - ra)
		if err := s.encodeRunInterruptionError(bw, &s.runCtx[1], errVal); err != nil {
			return 0, err
		}
		cur[pos] = s.params.reconstruct(ra, errVal)
	} else {
		errVal := s.params.computeErrorValue((xVal - rb) * sign(rb-ra))
		if err := s.encodeRunInterruptionError(bw, &s.runCtx[0], errVal); err != nil {
			return 0, err
		}
		cur[pos] = s.params.reconstruct(rb, errVal*sign(rb-ra))
	}
	s.run.decrement()
	return runLength + 1, nil
}

// decodeRunMode is the inverse of encodeRunMode.
func (s *scanCodec) decodeRunMode(br *stream.BitReader, comp, x int) (int, error) {
	cur, prev := s.cur[comp], s.prev[comp]
	ra := cur[x]
	remaining := s.width - x

	runLength, err := s.decodeRunPixels(br, remaining)
	if err != nil {
		return 0, err
	}
	for i := 0; i < runLength; i++ {
		cur[x+1+i] = ra
	}
	if runLength == remaining {
		return runLength, nil
	}

	pos := x + 1 + runLength
	rb := prev[pos]
	if s.params.isNear(ra, rb) {
		errVal, err := s.decodeRunInterruptionError(br, &s.runCtx[1])
		if err != nil {
			return 0, err
		}
		cur[pos] = s.params.reconstruct(ra, errVal)
	} else {
		errVal, err := s.decodeRunInterruptionError(br, &s.runCtx[0])
		if err != nil {
			return 0, err
		}
		cur[pos] = s.params.reconstruct(rb, errVal*sign(rb-ra))
	}
	s.run.decrement()
	return runLength + 1, nil
}

// encodeRunModeInterleaved handles run mode for sample-interleaved
// scans: a run continues only while every component matches its
// reference, and the interrupting pixel codes one residual per
// component through run context 0 with Rb as the predictor
// (CharLS triplet encode_run_interruption_pixel).
func (s *scanCodec) encodeRunModeInterleaved(bw *stream.BitWriter, x int) (int, error) {
	remaining := s.width - x
	var ra [4]int
	for c := 0; c < s.components; c++ {
		ra[c] = s.cur[c][x]
	}

	runLength := 0
scan:
	for runLength < remaining {
		for c := 0; c < s.components; c++ {
			if !s.params.isNear(s.cur[c][x+1+runLength], ra[c]) {
				break scan
			}
		}
		for c := 0; c < s.components; c++ {
			s.cur[c][x+1+runLength] = ra[c]
		}
		runLength++
	}
	if err := s.encodeRunPixels(bw, runLength, runLength == remaining); err != nil {
		return 0, err
	}
	if runLength == remaining {
		return runLength, nil
	}

	pos := x + 1 + runLength
	for c := 0; c < s.components; c++ {
		rb := s.prev[c][pos]
		sgn := sign(rb - ra[c])
		errVal := s.params.computeErrorValue((s.cur[c][pos] - rb) * sgn)
		if err := s.encodeRunInterruptionError(bw, &s.runCtx[0], errVal); err != nil {
			return 0, err
		}
		s.cur[c][pos] = s.params.reconstruct(rb, errVal*sgn)
	}
	s.run.decrement()
	return runLength + 1, nil
}

// decodeRunModeInterleaved is the inverse of encodeRunModeInterleaved.
func (s *scanCodec) decodeRunModeInterleaved(br *stream.BitReader, x int) (int, error) {
	remaining := s.width - x
	var ra [4]int
	for c := 0; c < s.components; c++ {
		ra[c] = s.cur[c][x]
	}

	runLength, err := s.decodeRunPixels(br, remaining)
	if err != nil {
		return 0, err
	}
	for c := 0; c < s.components; c++ {
		for i := 0; i < runLength; i++ {
			s.cur[c][x+1+i] = ra[c]
		}
	}
	if runLength == remaining {
		return runLength, nil
	}

	pos := x + 1 + runLength
	for c := 0; c < s.components; c++ {
		rb := s.prev[c][pos]
		sgn := sign(rb - ra[c])
		errVal, err := s.decodeRunInterruptionError(br, &s.runCtx[0])
		if err != nil {
			return 0, err
		}
		s.cur[c][pos] = s.params.reconstruct(rb, errVal*sgn)
	}
	s.run.decrement()
	return runLength + 1, nil
}
