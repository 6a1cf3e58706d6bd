package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/refnetlabs/refnet/pkg/cache"
	"github.com/refnetlabs/refnet/pkg/errors"
	"github.com/refnetlabs/refnet/pkg/growth"
	"github.com/refnetlabs/refnet/pkg/network"
	"github.com/refnetlabs/refnet/pkg/referral"
)

// Runner encapsulates analysis and simulation execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze runs an analysis over a referral network with caching.
func (r *Runner) Analyze(ctx context.Context, g *referral.Graph, opts Options) (*AnalysisResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()

	// Compute the network hash for cache keys and result metadata
	netData, err := network.MarshalNetwork(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize network")
	}
	netHash := cache.Hash(netData)

	cacheKey := r.Keyer.AnalysisKey(netHash, cache.AnalysisKeyOpts{
		Kind: opts.Kind,
		K:    opts.K,
		User: opts.User,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached AnalysisResult
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.CacheInfo.Hit = true
				cached.Stats.Duration = time.Since(start)
				return &cached, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	result := &AnalysisResult{
		RunID:       uuid.New(),
		Kind:        opts.Kind,
		NetworkHash: netHash,
	}

	switch opts.Kind {
	case AnalysisRank:
		result.Ranked = g.TopK(opts.K)
	case AnalysisCoverage:
		result.Ordering = g.UniqueReachExpansion()
	case AnalysisCentrality:
		result.Centrality = g.FlowCentrality()
	case AnalysisReach:
		reach, err := g.TotalReach(opts.User)
		if err != nil {
			if stderrors.Is(err, referral.ErrUnknownUser) {
				return nil, errors.Wrap(errors.ErrCodeUnknownUser, err, "user %q", opts.User)
			}
			return nil, err
		}
		result.Reach = reach
	}

	result.Stats.UserCount = g.Len()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.Duration = time.Since(start)

	r.Logger.Info("computed analysis",
		"kind", opts.Kind,
		"users", result.Stats.UserCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.Duration)

	if data, err := json.Marshal(result); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLAnalysis)
	}

	return result, nil
}

// Simulate runs a growth simulation flow.
// Plain runs are cached; the inverse searches are computed directly.
func (r *Runner) Simulate(ctx context.Context, opts SimOptions) (*SimResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	sim := opts.simulator()

	result := &SimResult{
		RunID: uuid.New(),
		Kind:  opts.Kind,
	}

	switch opts.Kind {
	case SimRun:
		cacheKey := r.Keyer.SimKey(opts.simKeyOpts())
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var cached SimResult
				if err := json.Unmarshal(data, &cached); err == nil {
					cached.CacheInfo.Hit = true
					cached.Stats.Duration = time.Since(start)
					return &cached, nil
				}
			}
		}

		totals, err := sim.Simulate(opts.Probability, opts.Days)
		if err != nil {
			return nil, mapGrowthErr(err)
		}
		result.Totals = totals
		if len(totals) > 0 {
			result.Final = totals[len(totals)-1]
		}
		result.Stats.Duration = time.Since(start)

		if data, err := json.Marshal(result); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSimulation)
		}

	case SimDays:
		days, err := sim.DaysToTarget(opts.Probability, opts.Target)
		if err != nil {
			return nil, mapGrowthErr(err)
		}
		result.Days = days
		result.Stats.Duration = time.Since(start)

	case SimIncentive:
		curve, err := opts.Curve.Build()
		if err != nil {
			return nil, err
		}
		incentive, err := sim.MinIncentiveForTarget(opts.Days, opts.Target, curve, opts.Precision)
		if err != nil {
			return nil, mapGrowthErr(err)
		}
		result.Incentive = incentive
		result.Stats.Duration = time.Since(start)
	}

	r.Logger.Info("completed simulation",
		"kind", opts.Kind,
		"duration", result.Stats.Duration)

	return result, nil
}

// mapGrowthErr translates growth sentinel errors into structured errors so
// the CLI and API report consistent codes.
func mapGrowthErr(err error) error {
	switch {
	case stderrors.Is(err, growth.ErrInvalidProbability):
		return errors.Wrap(errors.ErrCodeInvalidProbability, err, "invalid probability")
	case stderrors.Is(err, growth.ErrInvalidDuration):
		return errors.Wrap(errors.ErrCodeInvalidDuration, err, "invalid duration")
	case stderrors.Is(err, growth.ErrInvalidTarget):
		return errors.Wrap(errors.ErrCodeInvalidTarget, err, "invalid target")
	case stderrors.Is(err, growth.ErrInvalidPrecision):
		return errors.Wrap(errors.ErrCodeInvalidPrecision, err, "invalid precision")
	default:
		return err
	}
}
