package growth

import (
	"errors"
	"math"
)

var (
	// ErrInvalidProbability is returned when an adoption probability falls
	// outside [0, 1].
	ErrInvalidProbability = errors.New("probability must be in [0, 1]")

	// ErrInvalidDuration is returned when a simulation duration is negative.
	ErrInvalidDuration = errors.New("duration must not be negative")

	// ErrInvalidTarget is returned by the inverse searches when the target
	// referral count is negative.
	ErrInvalidTarget = errors.New("target must not be negative")

	// ErrInvalidPrecision is returned by [Simulator.MinIncentiveForTarget]
	// when the search precision is not positive.
	ErrInvalidPrecision = errors.New("precision must be positive")
)

// Default configuration values.
const (
	// DefaultInitialReferrers is the number of referrer slots active on day
	// zero of a simulation.
	DefaultInitialReferrers = 100

	// DefaultCapacity is the expected-referral units a slot accumulates
	// before it is exhausted and stops contributing.
	DefaultCapacity = 10
)

// Safety caps. Simulations degrade gracefully at these bounds: durations
// beyond maxDays are truncated, and a run whose slot population reaches
// maxSlots ends early with a shorter result. Neither case is an error.
const (
	maxDays  = 10_000
	maxSlots = 250_000
)

// Config holds the fixed parameters of a [Simulator]. Zero fields fall back
// to the package defaults.
type Config struct {
	// InitialReferrers is the slot population at the start of every run.
	InitialReferrers int

	// Capacity is the expected-referral budget of a single slot.
	Capacity float64
}

// Simulator computes deterministic expected-value growth of a referral
// network. It holds no state between calls: every Simulate invocation
// builds a fresh slot population, so a single Simulator may be shared by
// concurrent callers.
type Simulator struct {
	initial  int
	capacity float64
}

// New creates a Simulator from cfg, applying defaults for zero fields.
func New(cfg Config) *Simulator {
	if cfg.InitialReferrers <= 0 {
		cfg.InitialReferrers = DefaultInitialReferrers
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	return &Simulator{initial: cfg.InitialReferrers, capacity: cfg.Capacity}
}

// Simulate runs the growth recurrence for the given daily adoption
// probability and duration, returning the cumulative expected referral
// total after each day.
//
// Each day, every slot below capacity contributes p expected referrals and
// accumulates p toward its capacity; floor(day total) new slots join the
// population, eligible from the following day. The recorded value for a day
// is the floor of the running expected-referral sum.
//
// Durations beyond the internal day cap are silently truncated, and the run
// ends early if the slot population hits its cap, so the result may be
// shorter than requested. days = 0 yields an empty result.
func (s *Simulator) Simulate(p float64, days int) ([]int, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return nil, ErrInvalidProbability
	}
	if days < 0 {
		return nil, ErrInvalidDuration
	}
	if days > maxDays {
		days = maxDays
	}

	slots := make([]float64, s.initial)
	totals := make([]int, 0, days)
	running := 0.0

	for day := 0; day < days; day++ {
		daily := 0.0
		for i := range slots {
			if slots[i] < s.capacity {
				daily += p
				slots[i] += p
			}
		}
		running += daily

		for n := int(math.Floor(daily)); n > 0 && len(slots) < maxSlots; n-- {
			slots = append(slots, 0)
		}

		totals = append(totals, int(math.Floor(running)))

		if len(slots) >= maxSlots {
			break
		}
	}
	return totals, nil
}

// final returns the last cumulative value of a run, or 0 for an empty run.
func final(totals []int) int {
	if len(totals) == 0 {
		return 0
	}
	return totals[len(totals)-1]
}
