package clishared

import (
	"github.com/dd-studio/jobsys/find"
	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/term"
	"github.com/dd-studio/jobsys/validate"
)

// ResolveNodePath turns a command's TERMS (plus the -l/--level and
// -f/--force-path flags) into a node-path: Validator over a path, or
// Finder over a levelspec/key:value search, depending on how TERMS
// classifies.
func ResolveNodePath(opts *options.Options, g *graph.Graph, levelFlag string, terms []string, force bool) (*graph.NodePath, error) {
	if term.ClassifyIsPath(terms, force) {
		return validate.Validate(g, terms[0])
	}

	levelspec, extra := term.SplitLevelspecArgs(levelFlag, terms)

	search, err := term.BuildSearch(levelspec, extra, opts.Env)
	if err != nil {
		return nil, err
	}

	return find.Find(g, search)
}
