package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when several networks or users share a cache backend and
// need separate namespaces.
//
// Example usage:
//
//	// Tenant-specific keys
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// NetworkKey generates a prefixed key for a serialized network.
func (k *ScopedKeyer) NetworkKey(networkHash string) string {
	return k.prefix + k.inner.NetworkKey(networkHash)
}

// AnalysisKey generates a prefixed key for an analysis result.
func (k *ScopedKeyer) AnalysisKey(networkHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(networkHash, opts)
}

// SimKey generates a prefixed key for a simulation run.
func (k *ScopedKeyer) SimKey(opts SimKeyOpts) string {
	return k.prefix + k.inner.SimKey(opts)
}
