// Package cache provides caching abstractions for refnet analysis results.
//
// The Cache interface abstracts over storage backends (file-based for CLI,
// Redis for the API server, null for testing). The Keyer interface generates
// deterministic cache keys from analysis inputs, so identical networks and
// parameters hit the same entry regardless of entry point.
package cache

import (
	"context"
	"time"
)

// TTL constants for different cached artifact types.
const (
	// TTLNetwork is how long imported networks stay cached.
	TTLNetwork = 24 * time.Hour

	// TTLAnalysis is how long ranking and centrality results stay cached.
	// Analyses are pure functions of the network, so this can be generous.
	TTLAnalysis = 7 * 24 * time.Hour

	// TTLSimulation is how long simulation results stay cached.
	// Simulations are deterministic, so entries never go stale.
	TTLSimulation = 7 * 24 * time.Hour
)

// Cache is the interface for cache backends.
// All methods take a context for cancellation support.
type Cache interface {
	// Get retrieves a value. Returns (data, true, nil) on hit,
	// (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// AnalysisKeyOpts contains the parameters that distinguish analysis cache entries.
type AnalysisKeyOpts struct {
	Kind string // rank, coverage, centrality, reach
	K    int    // top-k / budget parameter
	User string // subject user for reach queries
}

// SimKeyOpts contains the parameters that distinguish simulation cache entries.
type SimKeyOpts struct {
	InitialReferrers int
	Capacity         float64
	Probability      float64
	Days             int
}

// Keyer generates cache keys for the different cached artifact types.
type Keyer interface {
	// NetworkKey generates a key for a serialized network.
	NetworkKey(networkHash string) string

	// AnalysisKey generates a key for an analysis result over a network.
	AnalysisKey(networkHash string, opts AnalysisKeyOpts) string

	// SimKey generates a key for a simulation run.
	SimKey(opts SimKeyOpts) string
}

// DefaultKeyer generates keys by hashing the input parameters.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// NetworkKey generates a key for a serialized network.
func (k *DefaultKeyer) NetworkKey(networkHash string) string {
	return networkKey(networkHash)
}

// AnalysisKey generates a key for an analysis result over a network.
func (k *DefaultKeyer) AnalysisKey(networkHash string, opts AnalysisKeyOpts) string {
	return analysisKey(networkHash, opts)
}

// SimKey generates a key for a simulation run.
func (k *DefaultKeyer) SimKey(opts SimKeyOpts) string {
	return simKey(opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
