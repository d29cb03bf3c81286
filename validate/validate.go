// Package validate implements the Validator: a DFS that checks whether
// a concrete filesystem path conforms to a template graph, reporting
// the deepest match reached on failure.
package validate

import (
	"path"
	"strings"

	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/jobserrors"
)

// Validate walks p's components against g from the root. On success it
// returns a node-path with exactly one entry per path component (plus
// root); components beyond the last vertex with any declared neighbor
// are recorded against the Untracked sentinel so the full input path
// is still recoverable from the node-path.
func Validate(g *graph.Graph, p string) (*graph.NodePath, error) {
	components := splitPath(p)

	result := graph.NewNodePath(g)
	best := &bestFailure{}

	if walk(g, g.RootIndex(), components, result, best) {
		return result, nil
	}

	return nil, jobserrors.WithStackTrace(best.toError())
}

// splitPath cleans p (resolving . and ..) and splits it into non-empty
// components, forward-slash delimited regardless of OS.
func splitPath(p string) []string {
	cleaned := strings.Trim(path.Clean(p), "/")
	if cleaned == "" || cleaned == "." {
		return nil
	}

	return strings.Split(cleaned, "/")
}

// walk attempts to match components in sequence, starting from vertex
// parent, pushing each matched vertex onto result. It returns true if
// the whole component list is consumed, either by matching every one
// against a declared vertex or by running off the end of the policed
// region (parent has no further neighbors).
func walk(g *graph.Graph, parent int, components []string, result *graph.NodePath, best *bestFailure) bool {
	if len(components) == 0 {
		return true
	}

	neighbors := g.Neighbors(parent)
	if len(neighbors) == 0 {
		for _, c := range components {
			result.Push(graph.UntrackedIndex, c)
		}

		return true
	}

	component := components[0]
	depth := result.Depth() + 1

	for _, n := range neighbors {
		if !g.Vertex(n).Matches(component) {
			continue
		}

		result.Push(n, component)

		if walk(g, n, components[1:], result, best) {
			return true
		}

		result.Pop()
	}

	best.consider(depth, component, neighborDisplay(g, neighbors))

	return false
}

func neighborDisplay(g *graph.Graph, neighbors []int) []string {
	out := make([]string, len(neighbors))
	for i, n := range neighbors {
		out[i] = g.Vertex(n).String()
	}

	return out
}

// bestFailure tracks the deepest-reached failure seen across every
// DFS branch, per the tie-break rule: deepest depth wins, since it
// carries the most informative diagnostic.
type bestFailure struct {
	have      bool
	depth     int
	component string
	neighbors []string
}

func (b *bestFailure) consider(depth int, component string, neighbors []string) {
	if b.have && depth <= b.depth {
		return
	}

	b.have = true
	b.depth = depth
	b.component = component
	b.neighbors = neighbors
}

func (b *bestFailure) toError() *jobserrors.ValidationFailure {
	return &jobserrors.ValidationFailure{Component: b.component, Depth: b.depth, Neighbors: b.neighbors}
}
