// Package growth models referral network expansion as a deterministic
// expected-value recurrence and provides two inverse searches on top of it.
//
// A [Simulator] maintains no state between calls. Each [Simulator.Simulate]
// run starts from a fresh population of referrer "slots", each of which
// contributes its daily adoption probability until a fixed capacity of
// expected referrals is exhausted; whole expected referrals become new
// slots the next day. The model is not stochastic - no sampling happens
// anywhere, so identical inputs always produce identical output.
//
// [Simulator.DaysToTarget] and [Simulator.MinIncentiveForTarget] are binary
// searches driving full simulation runs per probe. Both report unreachable
// targets as the ordinary sentinel values [Unreachable] and [Impossible]
// rather than errors, since an out-of-reach target is an expected planning
// outcome.
package growth
