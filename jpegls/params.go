package jpegls

import "fmt"

// Baseline quantization thresholds for 8-bit lossless coding
// (ITU-T T.87 Table C.3 defaults).
const (
	basicT1 = 3
	basicT2 = 7
	basicT3 = 21

	// defaultReset is the statistics halving threshold
	defaultReset = 64

	// contextCount is the number of regular contexts after sign
	// canonicalization: (9^3+1)/2
	contextCount = 365

	// maxKValue bounds the Golomb parameter search
	maxKValue = 16

	// minC and maxC clamp the per-context bias correction value
	minC = -128
	maxC = 127
)

// PresetCodingParameters overrides the default coding parameters, as
// carried in an LSE (id 1) marker segment. Zero fields keep their
// defaults.
type PresetCodingParameters struct {
	MaximumSampleValue int
	Threshold1         int
	Threshold2         int
	Threshold3         int
	ResetValue         int
}

// codingParameters holds the derived per-scan constants of
// ITU-T T.87 C.2.4.1.1: sample range, mapped-error width, Golomb code
// length limit and gradient quantization thresholds.
type codingParameters struct {
	maxVal int
	near   int
	rng    int
	bpp    int
	qbpp   int
	limit  int
	t1     int
	t2     int
	t3     int
	reset  int
}

// ceilLog2 returns the smallest k with 2^k >= n.
func ceilLog2(n int) int {
	k := 0
	for 1<<k < n {
		k++
	}
	return k
}

// computeCodingParameters derives the scan constants from MAXVAL and
// NEAR. Threshold or reset values of 0 select the T.87 defaults.
func computeCodingParameters(maxVal, near, t1, t2, t3, reset int) (codingParameters, error) {
	if maxVal < 1 || maxVal > 0xFFFF {
		return codingParameters{}, fmt.Errorf("%w: MAXVAL %d", ErrUnsupportedParameter, maxVal)
	}
	if near < 0 || near > min(255, maxVal/2) {
		return codingParameters{}, fmt.Errorf("%w: NEAR %d for MAXVAL %d", ErrInvalidNearLossless, near, maxVal)
	}

	p := codingParameters{maxVal: maxVal, near: near}

	p.bpp = max(2, ceilLog2(maxVal+1))
	if near == 0 {
		p.rng = maxVal + 1
	} else {
		p.rng = (maxVal+2*near)/(2*near+1) + 1
	}
	p.qbpp = ceilLog2(p.rng)
	p.limit = 2 * (p.bpp + max(8, p.bpp))

	dt1, dt2, dt3 := defaultThresholds(maxVal, near)
	p.t1, p.t2, p.t3 = dt1, dt2, dt3
	if t1 != 0 {
		p.t1 = t1
	}
	if t2 != 0 {
		p.t2 = t2
	}
	if t3 != 0 {
		p.t3 = t3
	}
	if p.t1 < near+1 || p.t1 > maxVal || p.t2 < p.t1 || p.t2 > maxVal || p.t3 < p.t2 || p.t3 > maxVal {
		return codingParameters{}, fmt.Errorf("%w: thresholds T1=%d T2=%d T3=%d", ErrUnsupportedParameter, p.t1, p.t2, p.t3)
	}

	p.reset = defaultReset
	if reset != 0 {
		p.reset = reset
	}
	if p.reset < 3 || p.reset > max(255, maxVal) {
		return codingParameters{}, fmt.Errorf("%w: RESET %d", ErrUnsupportedParameter, p.reset)
	}

	return p, nil
}

// defaultThresholds computes the T.87 C.2.4.1.1.1 default gradient
// thresholds for a given MAXVAL and NEAR.
func defaultThresholds(maxVal, near int) (t1, t2, t3 int) {
	clampT := func(i, j int) int {
		if i > maxVal || i < j {
			return j
		}
		return i
	}
	if maxVal >= 128 {
		factor := (min(maxVal, 4095) + 128) >> 8
		t1 = clampT(factor*(basicT1-2)+2+3*near, near+1)
		t2 = clampT(factor*(basicT2-3)+3+5*near, t1)
		t3 = clampT(factor*(basicT3-4)+4+7*near, t2)
		return
	}
	factor := 256 / (maxVal + 1)
	t1 = clampT(max(2, basicT1/factor+3*near), near+1)
	t2 = clampT(max(3, basicT2/factor+5*near), t1)
	t3 = clampT(max(4, basicT3/factor+7*near), t2)
	return
}

// quantizeGradient maps a local gradient to one of nine bins using the
// thresholds and the NEAR bound (T.87 code segment A.5).
func (p *codingParameters) quantizeGradient(d int) int {
	switch {
	case d <= -p.t3:
		return -4
	case d <= -p.t2:
		return -3
	case d <= -p.t1:
		return -2
	case d < -p.near:
		return -1
	case d <= p.near:
		return 0
	case d < p.t1:
		return 1
	case d < p.t2:
		return 2
	case d < p.t3:
		return 3
	default:
		return 4
	}
}

// isNear reports whether two reconstructed samples are within the
// near-lossless tolerance, the run-mode match criterion.
func (p *codingParameters) isNear(a, b int) bool {
	return abs(a-b) <= p.near
}

// quantizeError quantizes a prediction error for near-lossless coding
// (T.87 A.4.4). Identity when NEAR is 0.
func (p *codingParameters) quantizeError(errVal int) int {
	if p.near == 0 {
		return errVal
	}
	if errVal > 0 {
		return (p.near + errVal) / (2*p.near + 1)
	}
	return -((p.near - errVal) / (2*p.near + 1))
}

// moduloRange folds an error value into (-RANGE/2, RANGE/2]
// (T.87 A.4.5).
func (p *codingParameters) moduloRange(errVal int) int {
	if errVal < 0 {
		errVal += p.rng
	}
	if errVal >= (p.rng+1)/2 {
		errVal -= p.rng
	}
	return errVal
}

// computeErrorValue quantizes and folds a raw prediction error.
func (p *codingParameters) computeErrorValue(errVal int) int {
	return p.moduloRange(p.quantizeError(errVal))
}

// reconstruct computes the decoder-side sample from a prediction and a
// coded error value, undoing the modulo fold and clamping to the
// sample range (CharLS fix_reconstructed_value).
func (p *codingParameters) reconstruct(prediction, errVal int) int {
	value := prediction + errVal*(2*p.near+1)
	if value < -p.near {
		value += p.rng * (2*p.near + 1)
	} else if value > p.maxVal+p.near {
		value -= p.rng * (2*p.near + 1)
	}
	if value < 0 {
		return 0
	}
	if value > p.maxVal {
		return p.maxVal
	}
	return value
}

// correctPrediction clamps a bias-corrected prediction to the sample
// range.
func (p *codingParameters) correctPrediction(prediction int) int {
	if prediction < 0 {
		return 0
	}
	if prediction > p.maxVal {
		return p.maxVal
	}
	return prediction
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// sign returns 1 for non-negative n, -1 otherwise.
func sign(n int) int {
	if n >= 0 {
		return 1
	}
	return -1
}
