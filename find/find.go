// Package find implements the Finder: a DFS that synthesizes a
// concrete, conformant node-path from an ordered set of sparse search
// terms.
package find

import (
	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/jobserrors"
	"github.com/dd-studio/jobsys/node"
	"github.com/dd-studio/jobsys/term"
)

// Find synthesizes a node-path satisfying search against g. Simple
// vertices on the way are mandatory fixed waypoints: they consume no
// term. Root is passed through without consuming. A Regex vertex
// consumes the head term iff its label matches the term's key and its
// pattern accepts the term's value.
func Find(g *graph.Graph, search term.Search) (*graph.NodePath, error) {
	result := graph.NewNodePath(g)

	if walk(g, g.RootIndex(), search, result) {
		return result, nil
	}

	return nil, jobserrors.WithStackTrace(&jobserrors.FindFailure{Terms: termLabels(search)})
}

func termLabels(search term.Search) []string {
	out := make([]string, len(search))
	for i, t := range search {
		out[i] = t.Key + ":" + t.Value
	}

	return out
}

// walk tries to satisfy remaining from vertex current, pushing matched
// vertices onto result as it goes and backtracking on failure.
func walk(g *graph.Graph, current int, remaining term.Search, result *graph.NodePath) bool {
	if len(remaining) == 0 {
		return true
	}

	head := remaining[0]

	for _, n := range g.Neighbors(current) {
		v := g.Vertex(n)

		switch v.Kind {
		case node.KindRegex:
			if v.Name != head.Key || !v.Matches(head.Value) {
				continue
			}

			result.Push(n, head.Value)

			if walk(g, n, remaining[1:], result) {
				return true
			}

			result.Pop()

		case node.KindSimple:
			result.Push(n, v.Name)

			if walk(g, n, remaining, result) {
				return true
			}

			result.Pop()

		case node.KindRoot:
			if walk(g, n, remaining, result) {
				return true
			}

		case node.KindUntracked:
			panic("find: Untracked vertex encountered as a real graph neighbor")
		}
	}

	return false
}
