package network

import (
	"github.com/refnetlabs/refnet/pkg/errors"
	"github.com/refnetlabs/refnet/pkg/referral"
)

// Network is the canonical serialization format for referral networks.
// Used for CLI input files, API payloads, caching, and report archiving.
//
// The format is human-readable and designed for round-trip fidelity:
// import → analyze → export → re-import produces identical results. Users
// appear in registration order and edges in the order they were committed.
type Network struct {
	Users []string `json:"users" bson:"users"`
	Edges []Edge   `json:"edges" bson:"edges"`
}

// Edge represents a directed referral in the serialization format.
type Edge struct {
	Referrer  string `json:"referrer" bson:"referrer"`
	Candidate string `json:"candidate" bson:"candidate"`
}

// FromGraph converts a referral graph to its serialization format.
// Users keep registration order and edges keep insertion order, so the
// output is deterministic for a given construction sequence.
func FromGraph(g *referral.Graph) Network {
	edges := g.Edges()
	out := Network{
		Users: g.Users(),
		Edges: make([]Edge, len(edges)),
	}
	for i, e := range edges {
		out.Edges[i] = Edge{Referrer: e.Referrer, Candidate: e.Candidate}
	}
	return out
}

// ToGraph replays a serialized network into a live referral graph.
//
// Every user id is validated at this boundary, and every edge must commit:
// an edge the graph rejects (self-referral, duplicate referrer, cycle)
// means the file does not describe a valid referral network, so the replay
// fails with an INVALID_NETWORK error naming the offending edge.
func ToGraph(n Network) (*referral.Graph, error) {
	g := referral.New()

	for _, u := range n.Users {
		if err := errors.ValidateUserID(u); err != nil {
			return nil, err
		}
		g.Register(u)
	}

	for _, e := range n.Edges {
		ok, err := g.Connect(e.Referrer, e.Candidate)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetwork, err,
				"edge %s -> %s", e.Referrer, e.Candidate)
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidNetwork,
				"edge %s -> %s rejected (self-referral, duplicate referrer, or cycle)",
				e.Referrer, e.Candidate)
		}
	}

	return g, nil
}
