package growth

import "math"

// Sentinel results for the inverse searches. These are ordinary values, not
// errors: an unreachable target is an expected outcome callers branch on.
const (
	// Unreachable is returned by [Simulator.DaysToTarget] when no finite
	// number of days can reach the target.
	Unreachable = -1

	// Impossible is returned by [Simulator.MinIncentiveForTarget] when even
	// the maximum incentive cannot reach the target within the deadline.
	Impossible = -1
)

// MaxIncentive bounds the incentive search space of
// [Simulator.MinIncentiveForTarget].
const MaxIncentive = 10_000.0

// AdoptionCurve maps an incentive amount to a daily adoption probability in
// [0, 1]. The incentive optimizer requires the curve to be monotonically
// non-decreasing; this is a documented precondition, not validated at
// runtime, since probing the curve across its whole domain would defeat the
// purpose of the binary search.
type AdoptionCurve func(incentive float64) float64

// DaysToTarget returns the minimum number of days such that a simulation at
// probability p accumulates at least target expected referrals. A target of
// 0 needs 0 days. When p is 0, or the target exceeds what the capped
// simulation can ever produce, it returns [Unreachable].
//
// The search bisects over days in [0, max(1, target)], running a full
// simulation per probe. Cumulative reach is non-decreasing in days for a
// fixed p, which makes the bisection sound.
func (s *Simulator) DaysToTarget(p float64, target int) (int, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, ErrInvalidProbability
	}
	if target < 0 {
		return 0, ErrInvalidTarget
	}
	if target == 0 {
		return 0, nil
	}
	if p == 0 {
		return Unreachable, nil
	}

	lo, hi := 0, max(1, target)

	top, err := s.Simulate(p, hi)
	if err != nil {
		return 0, err
	}
	if final(top) < target {
		return Unreachable, nil
	}

	for lo < hi {
		mid := lo + (hi-lo)/2
		totals, err := s.Simulate(p, mid)
		if err != nil {
			return 0, err
		}
		if final(totals) >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}

// MinIncentiveForTarget returns the smallest incentive, rounded up to the
// nearest multiple of precision, whose adoption probability lets the
// simulation reach target referrals within days. It returns [Impossible]
// when even [MaxIncentive] falls short.
//
// curve is treated as a black box; correctness of the search depends on the
// caller supplying a monotonically non-decreasing curve. Every probe is a
// full simulation, so the total cost is O(log(MaxIncentive/precision))
// simulation runs.
func (s *Simulator) MinIncentiveForTarget(days, target int, curve AdoptionCurve, precision float64) (float64, error) {
	if days < 0 {
		return 0, ErrInvalidDuration
	}
	if target < 0 {
		return 0, ErrInvalidTarget
	}
	if precision <= 0 || math.IsNaN(precision) {
		return 0, ErrInvalidPrecision
	}
	if target == 0 {
		return 0, nil
	}

	reaches := func(incentive float64) (bool, error) {
		totals, err := s.Simulate(curve(incentive), days)
		if err != nil {
			return false, err
		}
		return final(totals) >= target, nil
	}

	// If the ceiling of the search space cannot make it, nothing can.
	ok, err := reaches(MaxIncentive)
	if err != nil {
		return 0, err
	}
	if !ok {
		return Impossible, nil
	}

	lo, hi := 0.0, MaxIncentive
	for hi-lo > precision {
		mid := (lo + hi) / 2
		ok, err := reaches(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}

	// Round the bracket up to the next precision step and confirm the
	// rounded value still meets the target.
	rounded := math.Ceil(hi/precision) * precision
	if rounded > MaxIncentive {
		rounded = MaxIncentive
	}
	ok, err = reaches(rounded)
	if err != nil {
		return 0, err
	}
	if !ok {
		return Impossible, nil
	}
	return rounded, nil
}
