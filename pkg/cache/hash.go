package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key prefixes, one per cached artifact type. Keys look like
// "analysis:<64 hex chars>" so entries in a shared backend can be told
// apart by eye.
const (
	prefixNetwork  = "network"
	prefixAnalysis = "analysis"
	prefixSim      = "sim"
)

// networkKey builds the key for a serialized network. The input is already
// a content hash, but it is digested again under the network prefix so
// network entries can never collide with analysis entries over the same
// hash.
func networkKey(networkHash string) string {
	return prefixNetwork + ":" + Hash([]byte(networkHash))
}

// analysisKey ties an analysis entry to the network content and to every
// option that changes the answer: the analysis kind, the k budget, and the
// subject user for reach queries.
func analysisKey(networkHash string, opts AnalysisKeyOpts) string {
	payload, _ := json.Marshal(struct {
		Network string          `json:"network"`
		Opts    AnalysisKeyOpts `json:"opts"`
	}{networkHash, opts})
	return prefixAnalysis + ":" + Hash(payload)
}

// simKey distinguishes simulation runs by the full simulator configuration.
// Networks play no part here: a simulation depends only on its parameters.
func simKey(opts SimKeyOpts) string {
	payload, _ := json.Marshal(opts)
	return prefixSim + ":" + Hash(payload)
}

// Hash fingerprints a byte payload, typically a serialized network, as a
// 64-character hex SHA-256 digest. The full digest is kept so distinct
// networks cannot share an entry.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
