package graph

import (
	"fmt"
	"strings"

	"github.com/dd-studio/jobsys/node"
)

// NodePath is an ordered sequence of vertex indices from root to some
// vertex, always rooted (Indices[0] is the graph's root index), plus
// the concrete path component matched at each non-root step. Components
// is what lets a NodePath built over a Regex vertex (which only holds a
// pattern, not a concrete value) be converted back into a filesystem
// path.
type NodePath struct {
	Graph      *Graph
	Indices    []int
	Components []string
}

// NewNodePath starts a fresh, empty node-path rooted at g's root
// vertex.
func NewNodePath(g *Graph) *NodePath {
	return &NodePath{Graph: g, Indices: []int{g.RootIndex()}}
}

// Push extends the node-path with vertex idx, matched by the concrete
// path component text.
func (p *NodePath) Push(idx int, component string) {
	p.Indices = append(p.Indices, idx)
	p.Components = append(p.Components, component)
}

// Pop removes the most recently pushed vertex, used when a DFS branch
// fails and backtracks.
func (p *NodePath) Pop() {
	p.Indices = p.Indices[:len(p.Indices)-1]
	p.Components = p.Components[:len(p.Components)-1]
}

// Len is the number of vertices in the path, including root.
func (p *NodePath) Len() int { return len(p.Indices) }

// Depth is the number of non-root steps taken, i.e. Len()-1.
func (p *NodePath) Depth() int { return len(p.Indices) - 1 }

// VertexAt returns the matcher at the given depth (0 is root). An
// out-of-range depth returns the Untracked sentinel.
func (p *NodePath) VertexAt(depth int) *node.Matcher {
	if depth < 0 || depth >= len(p.Indices) {
		return node.Untracked()
	}

	return p.Graph.Vertex(p.Indices[depth])
}

// Last returns the deepest vertex reached.
func (p *NodePath) Last() *node.Matcher {
	return p.VertexAt(p.Len() - 1)
}

// Clone returns an independent copy of the path, so a caller can branch
// without mutating the original during backtracking.
func (p *NodePath) Clone() *NodePath {
	indices := make([]int, len(p.Indices))
	copy(indices, p.Indices)

	components := make([]string, len(p.Components))
	copy(components, p.Components)

	return &NodePath{Graph: p.Graph, Indices: indices, Components: components}
}

// ToPath renders the node-path back into an absolute filesystem path.
// It fails if any non-root Regex vertex has no recorded component: a
// path built from sparse coordinates isn't fully resolved until every
// Regex vertex along it has been matched against a concrete value.
func (p *NodePath) ToPath() (string, error) {
	var b strings.Builder

	b.WriteByte('/')

	for i, component := range p.Components {
		v := p.Graph.Vertex(p.Indices[i+1])
		if v.Kind == node.KindRegex && component == "" {
			return "", fmt.Errorf("node-path contains an unresolved regex vertex %q at depth %d", v.Name, i+1)
		}

		if i > 0 {
			b.WriteByte('/')
		}

		b.WriteString(component)
	}

	return b.String(), nil
}

// String renders a display form of the node-path: each vertex's own
// display form, joined by " -> ".
func (p *NodePath) String() string {
	parts := make([]string, len(p.Indices))
	for i, idx := range p.Indices {
		parts[i] = p.Graph.Vertex(idx).String()
	}

	return strings.Join(parts, " -> ")
}
