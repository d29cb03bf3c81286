// Package graph implements the directed graph of node matchers: an
// arena of vertices addressed by stable integer index, with exactly
// one Root vertex at index 0.
//
// A generic DAG library (the teacher's own legacy dependency on
// hashicorp/terraform's dag.AcyclicGraph, see config/config_graph.go) is
// deliberately not used here — see DESIGN.md for why its
// interface{}-keyed vertex model doesn't give the stable dense indices
// and out-of-bounds Untracked sentinel this package needs.
package graph

import "github.com/dd-studio/jobsys/node"

// UntrackedIndex is the sentinel index a node-path records for a
// component beyond the policed region. Vertex maps it, like any index
// that is not a real vertex in the arena (negative, or >= Len()), to
// the Untracked matcher. It never collides with a real vertex, since
// real indices start at 0.
const UntrackedIndex = -1

// Graph is a directed graph of node.Matcher vertices with unweighted
// edges, stored as an arena plus adjacency lists.
type Graph struct {
	vertices  []*node.Matcher
	neighbors [][]int
}

// New constructs an empty graph with the Root vertex pre-inserted at
// index 0, so its index is stable for the lifetime of the graph.
func New() *Graph {
	g := &Graph{}
	g.vertices = append(g.vertices, node.Root())
	g.neighbors = append(g.neighbors, nil)

	return g
}

// RootIndex is always 0.
func (g *Graph) RootIndex() int { return 0 }

// Len returns the number of real vertices in the arena.
func (g *Graph) Len() int { return len(g.vertices) }

// AddVertex appends m to the arena and returns its new stable index.
func (g *Graph) AddVertex(m *node.Matcher) int {
	g.vertices = append(g.vertices, m)
	g.neighbors = append(g.neighbors, nil)

	return len(g.vertices) - 1
}

// AddEdge adds a directed edge from -> to. Both must already be valid
// indices in the arena.
func (g *Graph) AddEdge(from, to int) {
	g.neighbors[from] = append(g.neighbors[from], to)
}

// Neighbors returns the indices of idx's out-edges, or nil if idx is
// out of range or has none.
func (g *Graph) Neighbors(idx int) []int {
	if idx < 0 || idx >= len(g.vertices) {
		return nil
	}

	return g.neighbors[idx]
}

// Vertex returns the matcher at idx. An out-of-bounds idx (including
// UntrackedIndex) returns the Untracked sentinel rather than failing,
// so callers walking past the policed region never need a bounds check.
func (g *Graph) Vertex(idx int) *node.Matcher {
	if idx < 0 || idx >= len(g.vertices) {
		return node.Untracked()
	}

	return g.vertices[idx]
}

// Indices returns every real vertex index in insertion order, root
// first.
func (g *Graph) Indices() []int {
	out := make([]int, len(g.vertices))
	for i := range g.vertices {
		out[i] = i
	}

	return out
}

// Reachable returns the set of vertex indices reachable from root via
// edges (root itself included), used to check that every declared
// label is actually wired into the tree.
func (g *Graph) Reachable() map[int]bool {
	visited := map[int]bool{g.RootIndex(): true}
	stack := []int{g.RootIndex()}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range g.Neighbors(cur) {
			if !visited[n] {
				visited[n] = true

				stack = append(stack, n)
			}
		}
	}

	return visited
}

// Unreachable returns every real vertex index not reachable from root.
func (g *Graph) Unreachable() []int {
	reachable := g.Reachable()

	var unreachable []int

	for _, idx := range g.Indices() {
		if idx == g.RootIndex() {
			continue
		}

		if !reachable[idx] {
			unreachable = append(unreachable, idx)
		}
	}

	return unreachable
}
