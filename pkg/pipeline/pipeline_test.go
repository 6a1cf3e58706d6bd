package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/refnetlabs/refnet/pkg/cache"
	"github.com/refnetlabs/refnet/pkg/errors"
	"github.com/refnetlabs/refnet/pkg/growth"
	"github.com/refnetlabs/refnet/pkg/referral"
)

func testGraph(t *testing.T) *referral.Graph {
	t.Helper()
	g := referral.New()
	for _, u := range []string{"a", "b", "c", "d", "e"} {
		g.Register(u)
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "e"}} {
		ok, err := g.Connect(e[0], e[1])
		if err != nil || !ok {
			t.Fatalf("Connect(%s, %s) = %v, %v", e[0], e[1], ok, err)
		}
	}
	return g
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr errors.Code
	}{
		{"Rank", Options{Kind: AnalysisRank}, ""},
		{"Reach", Options{Kind: AnalysisReach, User: "a"}, ""},
		{"UnknownKind", Options{Kind: "pagerank"}, errors.ErrCodeInvalidAnalysis},
		{"EmptyKind", Options{}, errors.ErrCodeInvalidAnalysis},
		{"ReachWithoutUser", Options{Kind: AnalysisReach}, errors.ErrCodeInvalidUser},
		{"NegativeK", Options{Kind: AnalysisRank, K: -1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want code %s", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Kind: AnalysisRank}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.K != DefaultK {
		t.Errorf("K = %d, want %d", opts.K, DefaultK)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSimOptionsDefaults(t *testing.T) {
	opts := SimOptions{Kind: SimIncentive, Target: 50, Curve: CurveSpec{Name: CurveLinear, Saturation: 1000}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Days != DefaultDays {
		t.Errorf("Days = %d, want %d", opts.Days, DefaultDays)
	}
	if opts.Precision != 10.0 {
		t.Errorf("Precision = %v, want 10", opts.Precision)
	}
}

// Default incentive answers round up to the nearest 10 units.
func TestSimulateIncentiveDefaultRounding(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Simulate(context.Background(), SimOptions{
		Kind:   SimIncentive,
		Days:   10,
		Target: 200,
		Curve:  CurveSpec{Name: CurveLinear, Saturation: 1000},
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if result.Incentive < 0 {
		t.Fatalf("Incentive = %v, want a reachable answer", result.Incentive)
	}
	if rem := math.Mod(result.Incentive, 10); rem != 0 {
		t.Errorf("Incentive = %v, want a multiple of 10", result.Incentive)
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	g := testGraph(t)
	runner := NewRunner(nil, nil, nil)

	t.Run("Rank", func(t *testing.T) {
		result, err := runner.Analyze(ctx, g, Options{Kind: AnalysisRank, K: 3})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if len(result.Ranked) != 3 {
			t.Fatalf("len(Ranked) = %d, want 3", len(result.Ranked))
		}
		if result.Ranked[0].User != "a" || result.Ranked[0].Reach != 4 {
			t.Errorf("top = %+v, want {a 4}", result.Ranked[0])
		}
		if result.NetworkHash == "" {
			t.Error("NetworkHash should be set")
		}
		if result.Stats.UserCount != 5 || result.Stats.EdgeCount != 4 {
			t.Errorf("stats = %+v, want 5 users 4 edges", result.Stats)
		}
	})

	t.Run("Coverage", func(t *testing.T) {
		result, err := runner.Analyze(ctx, g, Options{Kind: AnalysisCoverage})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if len(result.Ordering) != 5 {
			t.Fatalf("len(Ordering) = %d, want 5", len(result.Ordering))
		}
		if result.Ordering[0] != "a" {
			t.Errorf("Ordering[0] = %s, want a", result.Ordering[0])
		}
	})

	t.Run("Centrality", func(t *testing.T) {
		result, err := runner.Analyze(ctx, g, Options{Kind: AnalysisCentrality})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if len(result.Centrality) != 5 {
			t.Fatalf("len(Centrality) = %d, want 5", len(result.Centrality))
		}
	})

	t.Run("Reach", func(t *testing.T) {
		result, err := runner.Analyze(ctx, g, Options{Kind: AnalysisReach, User: "b"})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if result.Reach != 1 {
			t.Errorf("Reach = %d, want 1", result.Reach)
		}
	})

	t.Run("ReachUnknownUser", func(t *testing.T) {
		_, err := runner.Analyze(ctx, g, Options{Kind: AnalysisReach, User: "ghost"})
		if !errors.Is(err, errors.ErrCodeUnknownUser) {
			t.Errorf("error = %v, want UNKNOWN_USER", err)
		}
	})
}

func TestAnalyzeCaching(t *testing.T) {
	ctx := context.Background()
	g := testGraph(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	runner := NewRunner(c, nil, nil)

	opts := Options{Kind: AnalysisRank, K: 3}

	first, err := runner.Analyze(ctx, g, opts)
	if err != nil {
		t.Fatalf("first Analyze: %v", err)
	}
	if first.CacheInfo.Hit {
		t.Error("first run should be a cache miss")
	}

	second, err := runner.Analyze(ctx, g, opts)
	if err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second run should be a cache hit")
	}
	if second.Ranked[0] != first.Ranked[0] {
		t.Errorf("cached result differs: %+v vs %+v", second.Ranked[0], first.Ranked[0])
	}

	// Refresh bypasses the cache
	third, err := runner.Analyze(ctx, g, Options{Kind: AnalysisRank, K: 3, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Analyze: %v", err)
	}
	if third.CacheInfo.Hit {
		t.Error("refresh run should bypass the cache")
	}

	// A different network misses
	g2 := testGraph(t)
	g2.Register("f")
	other, err := runner.Analyze(ctx, g2, opts)
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheInfo.Hit {
		t.Error("different network should be a cache miss")
	}
}

func TestSimulate(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	t.Run("Run", func(t *testing.T) {
		result, err := runner.Simulate(ctx, SimOptions{
			Kind:        SimRun,
			Probability: 1.0,
			Days:        2,
		})
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if len(result.Totals) != 2 {
			t.Fatalf("len(Totals) = %d, want 2", len(result.Totals))
		}
		if result.Totals[0] != 100 || result.Totals[1] != 300 {
			t.Errorf("Totals = %v, want [100 300]", result.Totals)
		}
		if result.Final != 300 {
			t.Errorf("Final = %d, want 300", result.Final)
		}
	})

	t.Run("Days", func(t *testing.T) {
		result, err := runner.Simulate(ctx, SimOptions{
			Kind:        SimDays,
			Probability: 1.0,
			Target:      100,
		})
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if result.Days != 1 {
			t.Errorf("Days = %d, want 1", result.Days)
		}
	})

	t.Run("DaysUnreachable", func(t *testing.T) {
		result, err := runner.Simulate(ctx, SimOptions{
			Kind:        SimDays,
			Probability: 0,
			Target:      100,
		})
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if result.Days != growth.Unreachable {
			t.Errorf("Days = %d, want Unreachable", result.Days)
		}
	})

	t.Run("Incentive", func(t *testing.T) {
		result, err := runner.Simulate(ctx, SimOptions{
			Kind:   SimIncentive,
			Days:   10,
			Target: 50,
			Curve:  CurveSpec{Name: CurveLinear, Saturation: 1000},
		})
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if result.Incentive < 0 {
			t.Errorf("Incentive = %v, want a reachable answer", result.Incentive)
		}
	})

	t.Run("InvalidProbability", func(t *testing.T) {
		_, err := runner.Simulate(ctx, SimOptions{
			Kind:        SimRun,
			Probability: 1.5,
			Days:        5,
		})
		if !errors.Is(err, errors.ErrCodeInvalidProbability) {
			t.Errorf("error = %v, want INVALID_PROBABILITY", err)
		}
	})

	t.Run("InvalidKind", func(t *testing.T) {
		_, err := runner.Simulate(ctx, SimOptions{Kind: "montecarlo"})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("error = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("InvalidCurve", func(t *testing.T) {
		_, err := runner.Simulate(ctx, SimOptions{
			Kind:   SimIncentive,
			Target: 10,
			Curve:  CurveSpec{Name: "parabolic"},
		})
		if !errors.Is(err, errors.ErrCodeInvalidCurve) {
			t.Errorf("error = %v, want INVALID_CURVE", err)
		}
	})
}

func TestSimulateCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	runner := NewRunner(c, nil, nil)

	opts := SimOptions{Kind: SimRun, Probability: 0.5, Days: 10}

	first, err := runner.Simulate(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.Hit {
		t.Error("first run should be a cache miss")
	}

	second, err := runner.Simulate(ctx, SimOptions{Kind: SimRun, Probability: 0.5, Days: 10})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second run should be a cache hit")
	}
	if len(second.Totals) != len(first.Totals) {
		t.Error("cached totals differ in length")
	}
}

func TestCurveSpecBuild(t *testing.T) {
	tests := []struct {
		name    string
		spec    CurveSpec
		wantErr bool
	}{
		{"Constant", CurveSpec{Name: CurveConstant, Probability: 0.5}, false},
		{"Linear", CurveSpec{Name: CurveLinear, Saturation: 100}, false},
		{"LinearZeroSaturation", CurveSpec{Name: CurveLinear}, true},
		{"Logistic", CurveSpec{Name: CurveLogistic, Midpoint: 50, Steepness: 0.1}, false},
		{"Step", CurveSpec{Name: CurveStep, Threshold: 10, Low: 0.1, High: 0.9}, false},
		{"Unknown", CurveSpec{Name: "exponential"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve, err := tt.spec.Build()
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidCurve) {
					t.Errorf("error = %v, want INVALID_CURVE", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if curve == nil {
				t.Fatal("Build returned nil curve")
			}
			if p := curve(100); p < 0 || p > 1 {
				t.Errorf("curve(100) = %v, outside [0, 1]", p)
			}
		})
	}
}
