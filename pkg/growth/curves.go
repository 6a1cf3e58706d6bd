package growth

import "math"

// Built-in adoption curves. All of them are monotonically non-decreasing
// and stay within [0, 1], so they are safe inputs for
// [Simulator.MinIncentiveForTarget].

// Constant returns a curve that ignores the incentive entirely. p is
// clamped to [0, 1].
func Constant(p float64) AdoptionCurve {
	p = clamp01(p)
	return func(float64) float64 { return p }
}

// Linear returns a curve that rises linearly from 0 and saturates at 1 once
// the incentive reaches saturation. A non-positive saturation yields a
// curve that is 1 everywhere.
func Linear(saturation float64) AdoptionCurve {
	return func(incentive float64) float64 {
		if saturation <= 0 {
			return 1
		}
		return clamp01(incentive / saturation)
	}
}

// Logistic returns an S-shaped curve centered at midpoint. steepness
// controls how sharply adoption ramps around the midpoint; larger values
// approach a step function.
func Logistic(midpoint, steepness float64) AdoptionCurve {
	return func(incentive float64) float64 {
		return clamp01(1 / (1 + math.Exp(-steepness*(incentive-midpoint))))
	}
}

// Step returns a curve that is low below threshold and high at or above it.
// Both probabilities are clamped to [0, 1]; the curve is non-decreasing
// only when low <= high, which callers must honor.
func Step(threshold, low, high float64) AdoptionCurve {
	low, high = clamp01(low), clamp01(high)
	return func(incentive float64) float64 {
		if incentive >= threshold {
			return high
		}
		return low
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
