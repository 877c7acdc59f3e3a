package jpegls

// context holds the adaptive statistics of one regular-mode context
// bin: accumulated absolute error A, signed error B, bias correction C
// and occurrence count N (T.87 A.2.1). Contexts are plain records in a
// fixed-size table, indexed by canonicalized context identifier.
type context struct {
	A int
	B int
	C int
	N int
}

// newContextTable allocates the 365 regular contexts initialized per
// T.87 A.2.1: A = max(2, (RANGE+32)/64), N = 1.
func newContextTable(rng int) [contextCount]context {
	initA := max(2, (rng+32)/64)
	var table [contextCount]context
	for i := range table {
		table[i] = context{A: initA, N: 1}
	}
	return table
}

// golombParameter derives the Golomb-Rice parameter k from the
// accumulated statistics: the smallest k with N<<k >= A (T.87 A.10).
// Rederived before every coded sample, never stored, so encode and
// decode stay in lockstep.
func (c *context) golombParameter() int {
	k := 0
	for k < maxKValue && c.N<<uint(k) < c.A {
		k++
	}
	return k
}

// errorCorrection returns the k=0 mapping inversion term: -1 when the
// context bias makes negative errors more likely, else 0. Only applies
// for k == 0 in lossless scans (T.87 A.5.3); pass k|near so either a
// nonzero k or a near-lossless scan disables it.
func (c *context) errorCorrection(kOrNear int) int {
	if kOrNear != 0 {
		return 0
	}
	if 2*c.B+c.N-1 < 0 {
		return -1
	}
	return 0
}

// update folds a coded error value into the statistics (T.87 A.12) and
// maintains the bias correction C with the clamped B adjustment
// (T.87 A.13). Halves A, B and N when N reaches the reset threshold.
func (c *context) update(errVal, near, reset int) {
	c.A += abs(errVal)
	c.B += errVal * (2*near + 1)

	if c.N == reset {
		c.A >>= 1
		c.B >>= 1
		c.N >>= 1
	}
	c.N++

	if c.B+c.N <= 0 {
		c.B += c.N
		if c.B <= -c.N {
			c.B = -c.N + 1
		}
		if c.C > minC {
			c.C--
		}
	} else if c.B > 0 {
		c.B -= c.N
		if c.B > 0 {
			c.B = 0
		}
		if c.C < maxC {
			c.C++
		}
	}
}

// runContext holds the statistics of one of the two run-interruption
// contexts (T.87 A.7.2). runType distinguishes the |Ra-Rb| <= NEAR
// case (type 1) from the general case (type 0); Nn counts negative
// errors for the mapping decision.
type runContext struct {
	runType int
	A       int
	N       int
	Nn      int
}

// newRunContexts allocates the two run-interruption contexts.
func newRunContexts(rng int) [2]runContext {
	initA := max(2, (rng+32)/64)
	return [2]runContext{
		{runType: 0, A: initA, N: 1},
		{runType: 1, A: initA, N: 1},
	}
}

// golombCode derives the Golomb parameter for a run-interruption
// sample (CharLS get_golomb_code).
func (c *runContext) golombCode() int {
	temp := c.A + (c.N>>1)*c.runType
	nTest := c.N
	k := 0
	for nTest < temp {
		nTest <<= 1
		k++
	}
	return k
}

// computeMap decides whether the error mapping is inverted for this
// sample (T.87 code segment A.21).
func (c *runContext) computeMap(errVal, k int) bool {
	if k == 0 && errVal > 0 && 2*c.Nn < c.N {
		return true
	}
	if errVal < 0 && 2*c.Nn >= c.N {
		return true
	}
	if errVal < 0 && k != 0 {
		return true
	}
	return false
}

// computeErrorValue reconstructs the signed error from a mapped value
// on decode, the inverse of computeMap plus mapping (T.87 A.21).
func (c *runContext) computeErrorValue(temp, k int) int {
	mapBit := temp & 1
	errAbs := (temp + mapBit) / 2
	if (k != 0 || 2*c.Nn >= c.N) == (mapBit != 0) {
		return -errAbs
	}
	return errAbs
}

// update folds a run-interruption error into the statistics
// (T.87 code segment A.23).
func (c *runContext) update(errVal, eMapped, reset int) {
	if errVal < 0 {
		c.Nn++
	}
	c.A += (eMapped + 1 - c.runType) >> 1
	if c.N == reset {
		c.A >>= 1
		c.N >>= 1
		c.Nn >>= 1
	}
	c.N++
}
