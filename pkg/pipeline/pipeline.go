// Package pipeline provides the core analysis pipeline for refnet.
//
// This package implements the load → analyze and simulate flows shared by
// the CLI and the API server. By centralizing this logic, we ensure
// consistent caching, validation, and defaults across all entry points.
//
// # Architecture
//
// Two independent flows run through a Runner:
//
//  1. Analyze: compute a ranking, coverage ordering, centrality scores, or
//     a single user's reach over a referral network
//  2. Simulate: run the growth model forward, or invert it for days-to-target
//     and minimum-incentive searches
//
// Analysis results are cached keyed by the network content hash plus the
// analysis parameters. Simulations are cached keyed by their parameters.
//
// # Usage
//
// Create a Runner and execute an analysis:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Kind: pipeline.AnalysisRank, K: 10}
//	result, err := runner.Analyze(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range result.Ranked {
//	    fmt.Println(r.User, r.Reach)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/refnetlabs/refnet/pkg/cache"
	"github.com/refnetlabs/refnet/pkg/errors"
	"github.com/refnetlabs/refnet/pkg/growth"
	"github.com/refnetlabs/refnet/pkg/referral"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultK is the default result size for ranking analyses.
	DefaultK = 10

	// DefaultDays is the default simulation horizon.
	DefaultDays = 30

	// DefaultPrecision is the default tolerance for the incentive search:
	// answers are rounded up to the nearest 10 incentive units.
	DefaultPrecision = 10.0
)

// Analysis kind constants.
const (
	AnalysisRank       = "rank"
	AnalysisCoverage   = "coverage"
	AnalysisCentrality = "centrality"
	AnalysisReach      = "reach"
)

// ValidAnalyses is the set of supported analysis kinds.
var ValidAnalyses = map[string]bool{
	AnalysisRank:       true,
	AnalysisCoverage:   true,
	AnalysisCentrality: true,
	AnalysisReach:      true,
}

// Simulation kind constants.
const (
	SimRun       = "run"
	SimDays      = "days"
	SimIncentive = "incentive"
)

// ValidSimKinds is the set of supported simulation kinds.
var ValidSimKinds = map[string]bool{
	SimRun:       true,
	SimDays:      true,
	SimIncentive: true,
}

// =============================================================================
// Options - Analysis Configuration
// =============================================================================

// Options contains all configuration for an analysis run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Kind selects the analysis: rank, coverage, centrality, or reach.
	Kind string `json:"kind"`

	// K is the result size for rank. Zero means DefaultK.
	K int `json:"k,omitempty"`

	// User is the subject of a reach analysis.
	User string `json:"user,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if !ValidAnalyses[o.Kind] {
		return errors.New(errors.ErrCodeInvalidAnalysis,
			"invalid analysis kind: %q (must be one of: rank, coverage, centrality, reach)", o.Kind)
	}
	if o.Kind == AnalysisReach {
		if err := errors.ValidateUserID(o.User); err != nil {
			return err
		}
	}
	if o.K == 0 {
		o.K = DefaultK
	}
	if o.K < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "k cannot be negative: %d", o.K)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// SimOptions - Simulation Configuration
// =============================================================================

// SimOptions contains all configuration for a simulation run.
// This struct supports JSON serialization for API requests.
type SimOptions struct {
	// Kind selects the flow: run, days, or incentive.
	Kind string `json:"kind"`

	// Simulator parameters. Zero fields fall back to the growth defaults.
	InitialReferrers int     `json:"initial_referrers,omitempty"`
	Capacity         float64 `json:"capacity,omitempty"`

	// Probability is the daily adoption probability for run and days.
	Probability float64 `json:"probability"`

	// Days is the horizon for run and incentive. Zero means DefaultDays.
	Days int `json:"days,omitempty"`

	// Target is the referral goal for days and incentive.
	Target int `json:"target,omitempty"`

	// Precision is the incentive search tolerance. Zero means DefaultPrecision.
	Precision float64 `json:"precision,omitempty"`

	// Curve describes the adoption curve for incentive searches.
	Curve CurveSpec `json:"curve,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Target and precision range errors are left to the growth package so
// there is a single source of truth for those rules.
func (o *SimOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if !ValidSimKinds[o.Kind] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid simulation kind: %q (must be one of: run, days, incentive)", o.Kind)
	}
	if o.Kind != SimIncentive {
		if err := errors.ValidateProbability(o.Probability); err != nil {
			return err
		}
	}
	if o.Days == 0 {
		o.Days = DefaultDays
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if o.Kind == SimIncentive {
		if err := o.Curve.validate(); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// simulator builds the growth simulator for these options.
func (o *SimOptions) simulator() *growth.Simulator {
	return growth.New(growth.Config{
		InitialReferrers: o.InitialReferrers,
		Capacity:         o.Capacity,
	})
}

// simKeyOpts returns the cache key parameters for a plain simulation run.
func (o *SimOptions) simKeyOpts() cache.SimKeyOpts {
	return cache.SimKeyOpts{
		InitialReferrers: o.InitialReferrers,
		Capacity:         o.Capacity,
		Probability:      o.Probability,
		Days:             o.Days,
	}
}

// =============================================================================
// Results
// =============================================================================

// AnalysisResult contains the outputs of an analysis run.
type AnalysisResult struct {
	// RunID uniquely identifies this execution.
	RunID uuid.UUID `json:"run_id"`

	// Kind echoes the requested analysis.
	Kind string `json:"kind"`

	// NetworkHash is the content hash of the analyzed network.
	NetworkHash string `json:"network_hash"`

	// Ranked holds rank results.
	Ranked []referral.Ranked `json:"ranked,omitempty"`

	// Ordering holds the coverage ordering.
	Ordering []string `json:"ordering,omitempty"`

	// Centrality holds flow centrality scores.
	Centrality []referral.Centrality `json:"centrality,omitempty"`

	// Reach holds the subject's total reach for reach analyses.
	Reach int `json:"reach,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// SimResult contains the outputs of a simulation run.
type SimResult struct {
	// RunID uniquely identifies this execution.
	RunID uuid.UUID `json:"run_id"`

	// Kind echoes the requested flow.
	Kind string `json:"kind"`

	// Totals holds the cumulative expected referrals per day for run.
	Totals []int `json:"totals,omitempty"`

	// Final is the cumulative total at the end of a run.
	Final int `json:"final"`

	// Days holds the days-to-target answer; growth.Unreachable when the
	// target cannot be reached.
	Days int `json:"days,omitempty"`

	// Incentive holds the minimum-incentive answer; growth.Impossible when
	// no incentive reaches the target in time.
	Incentive float64 `json:"incentive,omitempty"`

	// Stats contains timing information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains execution statistics.
type Stats struct {
	UserCount int           `json:"user_count,omitempty"`
	EdgeCount int           `json:"edge_count,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// CacheInfo tracks cache behavior for a run.
type CacheInfo struct {
	Hit bool `json:"hit"` // Whether the result came from cache
}

// =============================================================================
// Curve Specification
// =============================================================================

// Curve name constants.
const (
	CurveConstant = "constant"
	CurveLinear   = "linear"
	CurveLogistic = "logistic"
	CurveStep     = "step"
)

// CurveSpec is a serializable description of an adoption curve.
// It exists so API requests and CLI flags can name a curve; Build turns it
// into the function the optimizer consumes.
type CurveSpec struct {
	Name string `json:"name"`

	// Probability is the fixed probability for constant curves.
	Probability float64 `json:"probability,omitempty"`

	// Saturation is the incentive at which linear curves reach 1.0.
	Saturation float64 `json:"saturation,omitempty"`

	// Midpoint and Steepness shape logistic curves.
	Midpoint  float64 `json:"midpoint,omitempty"`
	Steepness float64 `json:"steepness,omitempty"`

	// Threshold, Low, and High shape step curves.
	Threshold float64 `json:"threshold,omitempty"`
	Low       float64 `json:"low,omitempty"`
	High      float64 `json:"high,omitempty"`
}

func (c CurveSpec) validate() error {
	switch c.Name {
	case CurveConstant, CurveLogistic, CurveStep:
	case CurveLinear:
		if c.Saturation <= 0 {
			return errors.New(errors.ErrCodeInvalidCurve, "linear curve requires a positive saturation")
		}
	default:
		return errors.New(errors.ErrCodeInvalidCurve,
			"invalid curve: %q (must be one of: constant, linear, logistic, step)", c.Name)
	}
	return nil
}

// Build constructs the adoption curve this spec describes.
func (c CurveSpec) Build() (growth.AdoptionCurve, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	switch c.Name {
	case CurveConstant:
		return growth.Constant(c.Probability), nil
	case CurveLinear:
		return growth.Linear(c.Saturation), nil
	case CurveLogistic:
		return growth.Logistic(c.Midpoint, c.Steepness), nil
	default:
		return growth.Step(c.Threshold, c.Low, c.High), nil
	}
}
