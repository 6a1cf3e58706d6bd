package growth

import (
	"errors"
	"math"
	"testing"
)

func TestDaysToTarget(t *testing.T) {
	s := New(Config{})

	t.Run("ZeroTarget", func(t *testing.T) {
		got, err := s.DaysToTarget(0.5, 0)
		if err != nil {
			t.Fatalf("DaysToTarget: %v", err)
		}
		if got != 0 {
			t.Errorf("DaysToTarget(0.5, 0) = %d, want 0", got)
		}
	})

	t.Run("ZeroProbability", func(t *testing.T) {
		got, err := s.DaysToTarget(0, 100)
		if err != nil {
			t.Fatalf("DaysToTarget: %v", err)
		}
		if got != Unreachable {
			t.Errorf("DaysToTarget(0, 100) = %d, want Unreachable", got)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		if _, err := s.DaysToTarget(1.5, 10); !errors.Is(err, ErrInvalidProbability) {
			t.Errorf("error = %v, want ErrInvalidProbability", err)
		}
		if _, err := s.DaysToTarget(0.5, -1); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("error = %v, want ErrInvalidTarget", err)
		}
	})

	t.Run("InverseProperty", func(t *testing.T) {
		for _, tc := range []struct {
			p      float64
			target int
		}{
			{0.5, 50},
			{0.5, 500},
			{0.1, 200},
			{1, 1000},
		} {
			days, err := s.DaysToTarget(tc.p, tc.target)
			if err != nil {
				t.Fatalf("DaysToTarget(%v, %d): %v", tc.p, tc.target, err)
			}
			if days == Unreachable {
				t.Fatalf("DaysToTarget(%v, %d) unreachable", tc.p, tc.target)
			}

			totals, err := s.Simulate(tc.p, days)
			if err != nil {
				t.Fatal(err)
			}
			if final(totals) < tc.target {
				t.Errorf("simulate(%v, %d) final = %d, want >= %d", tc.p, days, final(totals), tc.target)
			}

			// Minimality: one day fewer must miss the target.
			if days > 0 {
				totals, err := s.Simulate(tc.p, days-1)
				if err != nil {
					t.Fatal(err)
				}
				if final(totals) >= tc.target {
					t.Errorf("simulate(%v, %d) already reaches %d; %d days is not minimal", tc.p, days-1, tc.target, days)
				}
			}
		}
	})

	t.Run("TargetBeyondCaps", func(t *testing.T) {
		// A tiny capacity-bounded network can never produce this many
		// referrals with a low probability: 1 slot with capacity 1 yields
		// at most 1 expected referral before exhaustion.
		tiny := New(Config{InitialReferrers: 1, Capacity: 1})
		got, err := tiny.DaysToTarget(0.25, 10)
		if err != nil {
			t.Fatalf("DaysToTarget: %v", err)
		}
		if got != Unreachable {
			t.Errorf("DaysToTarget = %d, want Unreachable", got)
		}
	})
}

func TestMinIncentiveForTarget(t *testing.T) {
	s := New(Config{})

	t.Run("ZeroTarget", func(t *testing.T) {
		got, err := s.MinIncentiveForTarget(30, 0, Linear(1000), 10)
		if err != nil {
			t.Fatalf("MinIncentiveForTarget: %v", err)
		}
		if got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		curve := Linear(1000)
		if _, err := s.MinIncentiveForTarget(-1, 10, curve, 10); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("error = %v, want ErrInvalidDuration", err)
		}
		if _, err := s.MinIncentiveForTarget(30, -1, curve, 10); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("error = %v, want ErrInvalidTarget", err)
		}
		if _, err := s.MinIncentiveForTarget(30, 10, curve, 0); !errors.Is(err, ErrInvalidPrecision) {
			t.Errorf("error = %v, want ErrInvalidPrecision", err)
		}
	})

	t.Run("ImpossibleWithDeadCurve", func(t *testing.T) {
		got, err := s.MinIncentiveForTarget(30, 1, Constant(0), 10)
		if err != nil {
			t.Fatalf("MinIncentiveForTarget: %v", err)
		}
		if got != Impossible {
			t.Errorf("got %v, want Impossible", got)
		}
	})

	t.Run("RoundsToPrecisionMultiple", func(t *testing.T) {
		const precision = 10.0
		got, err := s.MinIncentiveForTarget(30, 500, Linear(MaxIncentive), precision)
		if err != nil {
			t.Fatalf("MinIncentiveForTarget: %v", err)
		}
		if got == Impossible {
			t.Fatal("unexpected Impossible")
		}
		if rem := math.Mod(got, precision); rem != 0 {
			t.Errorf("got %v, want a multiple of %v", got, precision)
		}

		// The returned incentive must actually reach the target.
		totals, err := s.Simulate(Linear(MaxIncentive)(got), 30)
		if err != nil {
			t.Fatal(err)
		}
		if final(totals) < 500 {
			t.Errorf("final = %d, want >= 500", final(totals))
		}
	})

	t.Run("MinimalityWithinPrecision", func(t *testing.T) {
		const precision = 10.0
		curve := Linear(MaxIncentive)
		got, err := s.MinIncentiveForTarget(30, 500, curve, precision)
		if err != nil {
			t.Fatal(err)
		}
		if got <= 0 {
			t.Fatalf("got %v, want a positive incentive", got)
		}

		// Rounding can overshoot the bracket by up to one step, so two
		// precision steps lower must miss the target.
		totals, err := s.Simulate(curve(got-2*precision), 30)
		if err != nil {
			t.Fatal(err)
		}
		if final(totals) >= 500 {
			t.Errorf("incentive %v already reaches the target; %v is not minimal", got-2*precision, got)
		}
	})

	t.Run("StepCurve", func(t *testing.T) {
		// Nothing below an incentive of 200, plenty at or above it: the
		// result must land within one precision step of the threshold.
		got, err := s.MinIncentiveForTarget(30, 100, Step(200, 0, 0.5), 10)
		if err != nil {
			t.Fatal(err)
		}
		if got < 200 || got > 210 {
			t.Errorf("got %v, want within [200, 210]", got)
		}
		if math.Mod(got, 10) != 0 {
			t.Errorf("got %v, want a multiple of 10", got)
		}
	})
}

func TestCurves(t *testing.T) {
	t.Run("LinearSaturates", func(t *testing.T) {
		c := Linear(100)
		if got := c(0); got != 0 {
			t.Errorf("c(0) = %v, want 0", got)
		}
		if got := c(50); got != 0.5 {
			t.Errorf("c(50) = %v, want 0.5", got)
		}
		if got := c(1000); got != 1 {
			t.Errorf("c(1000) = %v, want 1", got)
		}
	})

	t.Run("LogisticBounded", func(t *testing.T) {
		c := Logistic(500, 0.01)
		for _, b := range []float64{0, 250, 500, 750, 10_000} {
			p := c(b)
			if p < 0 || p > 1 {
				t.Errorf("c(%v) = %v, want within [0, 1]", b, p)
			}
		}
		if c(100) >= c(900) {
			t.Error("logistic curve must be increasing")
		}
	})

	t.Run("ConstantClamps", func(t *testing.T) {
		if got := Constant(2)(0); got != 1 {
			t.Errorf("Constant(2)(0) = %v, want clamp to 1", got)
		}
	})
}
