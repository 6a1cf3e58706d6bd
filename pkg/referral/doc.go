// Package referral implements a constraint-bound directed referral graph
// and the ranking algorithms built on top of it.
//
// # Structure
//
// A [Graph] holds registered users and directed referrer -> candidate edges.
// Three invariants are enforced when an edge is created:
//
//  1. Both endpoints must already be registered.
//  2. No self-referrals.
//  3. A candidate is referred at most once, ever, and no edge may close a
//     directed cycle.
//
// Together these keep the live structure a forest of out-trees: every user
// has at most one referrer, and following referrals forward never loops.
//
// # Queries
//
// Read operations rank users by influence:
//
//   - [Graph.TotalReach] counts a user's transitive referrals.
//   - [Graph.TopK] ranks all users by reach.
//   - [Graph.UniqueReachExpansion] orders users by greedy marginal coverage.
//   - [Graph.FlowCentrality] scores users by shortest-path betweenness.
//
// # Concurrency
//
// A Graph may be shared across goroutines. Connect holds an exclusive lock
// for the cycle check and the commit together, so readers never observe a
// half-applied edge. Read queries take a shared lock and may run in
// parallel with each other.
//
// # Errors
//
// Precondition violations (operating on an unregistered user) surface as
// [ErrUnknownUser]. Expected business rejections - self-referral, duplicate
// referrer, would-form-cycle - are reported as a false return from Connect,
// never as errors.
package referral
