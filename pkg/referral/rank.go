package referral

import "sort"

// Ranked pairs a user with their total transitive reach.
type Ranked struct {
	User  string `json:"user" bson:"user"`
	Reach int    `json:"reach" bson:"reach"`
}

// Centrality pairs a user with their flow centrality score.
type Centrality struct {
	User  string `json:"user" bson:"user"`
	Score int    `json:"score" bson:"score"`
}

// TopK returns the k users with the largest total reach, descending. The
// sort is stable, so users with equal reach keep their registration order.
// k <= 0 yields an empty result; k beyond the population returns everyone.
func (g *Graph) TopK(k int) []Ranked {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if k <= 0 {
		return []Ranked{}
	}

	ranked := make([]Ranked, len(g.order))
	for i, u := range g.order {
		ranked[i] = Ranked{User: u, Reach: len(g.reachFrom(u)) - 1}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Reach > ranked[j].Reach })

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// UniqueReachExpansion orders all users by greedy maximum coverage: each
// round selects the user whose reach set (the user plus everyone they
// transitively referred) adds the most not-yet-covered users. Ties go to the
// earlier-registered user, which makes the ordering deterministic. Once no
// remaining user adds coverage, the rest are appended in registration order.
//
// The result always contains every registered user exactly once.
func (g *Graph) UniqueReachExpansion() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	reach := make(map[string]map[string]struct{}, len(g.order))
	for _, u := range g.order {
		reach[u] = g.reachFrom(u)
	}

	result := make([]string, 0, len(g.order))
	selected := make(map[string]struct{}, len(g.order))
	covered := make(map[string]struct{}, len(g.order))

	for len(result) < len(g.order) {
		best := ""
		bestGain := 0
		for _, u := range g.order {
			if _, done := selected[u]; done {
				continue
			}
			gain := 0
			for v := range reach[u] {
				if _, ok := covered[v]; !ok {
					gain++
				}
			}
			if gain > bestGain {
				best, bestGain = u, gain
			}
		}

		if best == "" {
			// Nothing left adds coverage; drain the rest in registration order.
			for _, u := range g.order {
				if _, done := selected[u]; !done {
					result = append(result, u)
				}
			}
			return result
		}

		selected[best] = struct{}{}
		result = append(result, best)
		for v := range reach[best] {
			covered[v] = struct{}{}
		}
	}
	return result
}

// FlowCentrality scores each user by how many ordered pairs of other users
// have a shortest forward referral path through them. Distances come from a
// breadth-first search per node; a user v lies on a shortest s->t path
// exactly when d(s,v) + d(v,t) = d(s,t) with both legs finite. The result is
// sorted descending by score, stable on ties. Graphs with at most one user
// return an empty result.
func (g *Graph) FlowCentrality() []Centrality {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.order) <= 1 {
		return []Centrality{}
	}

	dist := make(map[string]map[string]int, len(g.order))
	for _, u := range g.order {
		dist[u] = g.bfsDistances(u)
	}

	score := make(map[string]int, len(g.order))
	for _, s := range g.order {
		for _, t := range g.order {
			if s == t {
				continue
			}
			dst, ok := dist[s][t]
			if !ok {
				continue
			}
			for _, v := range g.order {
				if v == s || v == t {
					continue
				}
				dsv, ok1 := dist[s][v]
				dvt, ok2 := dist[v][t]
				if ok1 && ok2 && dsv+dvt == dst {
					score[v]++
				}
			}
		}
	}

	out := make([]Centrality, len(g.order))
	for i, u := range g.order {
		out[i] = Centrality{User: u, Score: score[u]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// bfsDistances returns shortest forward-path lengths from src to every
// reachable node (src itself at distance 0). Unreachable nodes are absent.
// Callers must hold the lock.
func (g *Graph) bfsDistances(src string) map[string]int {
	dist := map[string]int{src: 0}
	queue := []string{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.referrals[u] {
			if _, seen := dist[v]; seen {
				continue
			}
			dist[v] = dist[u] + 1
			queue = append(queue, v)
		}
	}
	return dist
}
