package controller

// Decide evaluates the hysteresis comparator for one sample.
//
// A low output goes high only when the value is strictly above the
// threshold; a high output goes low only when the value is strictly below
// threshold-hysteresis. Inside [threshold-hysteresis, threshold] the
// previous state holds, which is what suppresses chatter at the crossing
// point. With hysteresis 0 this degenerates to a plain comparator that may
// flip on exact-equality streams; that boundary behavior is intentional.
func Decide(current, threshold, hysteresis float64, previous bool) bool {
	if !previous {
		return current > threshold
	}

	return !(current < threshold-hysteresis)
}
