package referral

import (
	"errors"
	"slices"
	"sync"
)

// ErrUnknownUser is returned by [Graph.Connect], [Graph.DirectReports] and
// [Graph.TotalReach] when a user has not been registered. Registration is a
// precondition for every other operation.
var ErrUnknownUser = errors.New("unknown user")

// Edge represents a directed referral relation from a referrer to the
// candidate they brought in.
type Edge struct {
	Referrer  string
	Candidate string
}

// Graph is a directed referral relationship graph. Every node has in-degree
// at most one (a candidate is referred once, ever), and no sequence of
// referrals may close a cycle, so the live structure is always a forest of
// out-trees. Both invariants are enforced at edge creation time.
//
// The zero value is not usable - use New to create a valid Graph instance.
// All operations are safe for concurrent use: Connect serializes against
// every other operation, so a cycle check and the commit it guards are
// observed as a single atomic step.
type Graph struct {
	mu         sync.RWMutex
	users      map[string]struct{}
	order      []string            // registration order
	referrals  map[string][]string // referrer -> candidates, insertion order
	referrerOf map[string]string   // candidate -> its one referrer
	edges      []Edge
}

// New creates an empty referral graph.
func New() *Graph {
	return &Graph{
		users:      make(map[string]struct{}),
		referrals:  make(map[string][]string),
		referrerOf: make(map[string]string),
	}
}

// Register adds a user to the graph. Registering an already-known user is a
// no-op, so callers can replay event streams without pre-filtering.
func (g *Graph) Register(user string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.users[user]; ok {
		return
	}
	g.users[user] = struct{}{}
	g.order = append(g.order, user)
}

// Registered reports whether user has been registered.
func (g *Graph) Registered(user string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.users[user]
	return ok
}

// Connect records that referrer brought candidate into the network.
//
// It returns ErrUnknownUser if either endpoint has not been registered.
// Structural rejections are not errors: Connect returns false, with the
// graph untouched, when the referral is a self-loop, when the candidate
// already has a referrer, or when the edge would close a directed cycle.
// On success it returns true and the edge is fully committed.
func (g *Graph) Connect(referrer, candidate string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.users[referrer]; !ok {
		return false, ErrUnknownUser
	}
	if _, ok := g.users[candidate]; !ok {
		return false, ErrUnknownUser
	}
	if referrer == candidate {
		return false, nil
	}
	if _, taken := g.referrerOf[candidate]; taken {
		return false, nil
	}
	if g.reachable(candidate, referrer) {
		return false, nil
	}

	g.referrals[referrer] = append(g.referrals[referrer], candidate)
	g.referrerOf[candidate] = referrer
	g.edges = append(g.edges, Edge{Referrer: referrer, Candidate: candidate})
	return true, nil
}

// reachable reports whether target can be reached from start by following
// referral edges forward. Iterative DFS with an explicit stack; callers must
// hold the lock.
func (g *Graph) reachable(start, target string) bool {
	if start == target {
		return true
	}
	visited := map[string]struct{}{start: {}}
	stack := []string{start}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, v := range g.referrals[u] {
			if v == target {
				return true
			}
			if _, seen := visited[v]; seen {
				continue
			}
			visited[v] = struct{}{}
			stack = append(stack, v)
		}
	}
	return false
}

// DirectReports returns the candidates directly referred by user, in the
// order the referrals were made. Returns ErrUnknownUser if user is not
// registered.
func (g *Graph) DirectReports(user string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.users[user]; !ok {
		return nil, ErrUnknownUser
	}
	return slices.Clone(g.referrals[user]), nil
}

// Referrer returns the user that referred candidate, or "" and false if the
// candidate has no referrer or is not registered.
func (g *Graph) Referrer(candidate string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.referrerOf[candidate]
	return r, ok
}

// TotalReach counts the users transitively referred by user, excluding the
// user itself. The traversal is a breadth-first search with a visited set,
// so it stays correct on any DAG even though the single-referrer invariant
// makes the live structure a forest. Returns ErrUnknownUser if user is not
// registered.
func (g *Graph) TotalReach(user string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.users[user]; !ok {
		return 0, ErrUnknownUser
	}
	return len(g.reachFrom(user)) - 1, nil
}

// reachFrom returns the reach set of user: the user itself plus every node
// reachable forward. BFS with an explicit queue; callers must hold the lock.
func (g *Graph) reachFrom(user string) map[string]struct{} {
	visited := map[string]struct{}{user: {}}
	queue := []string{user}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.referrals[u] {
			if _, seen := visited[v]; seen {
				continue
			}
			visited[v] = struct{}{}
			queue = append(queue, v)
		}
	}
	return visited
}

// Users returns all registered users in registration order.
func (g *Graph) Users() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.order)
}

// Edges returns a copy of all committed referral edges in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.edges)
}

// Len returns the number of registered users.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.users)
}

// EdgeCount returns the number of committed referral edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}
