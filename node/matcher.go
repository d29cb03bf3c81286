// Package node implements the node matcher and its attached metadata:
// the tagged variant that decides whether a filesystem path component
// is legal at a given vertex.
package node

import (
	"github.com/dd-studio/jobsys/regexmatch"
)

// Kind is the closed set of node-matcher variants. It is intentionally
// a small enum rather than an interface hierarchy: the set is fixed and
// every switch over Kind must be exhaustive.
type Kind int

const (
	// KindRoot is the singleton sentinel present exactly once per graph,
	// at vertex index 0. It never equals any OS string.
	KindRoot Kind = iota
	// KindSimple matches iff the candidate equals Name byte-for-byte.
	KindSimple
	// KindRegex matches per regexmatch.Matcher rules; Name is a human
	// label, not the match target.
	KindRegex
	// KindUntracked matches any candidate.
	KindUntracked
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSimple:
		return "simple"
	case KindRegex:
		return "regex"
	case KindUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// Matcher is a vertex payload: the tagged node-matcher variant plus its
// attached Metadata.
type Matcher struct {
	Kind Kind

	// Name is the declared label. For KindSimple it also doubles as the
	// literal match target; for KindRegex it is a human label distinct
	// from the pattern.
	Name string

	// Regex is set only for KindRegex.
	Regex *regexmatch.Matcher

	Metadata Metadata
}

// Root constructs the singleton Root matcher.
func Root() *Matcher {
	return &Matcher{Kind: KindRoot, Name: "root", Metadata: Metadata{EntryType: EntryRoot}}
}

// Simple constructs a vertex matching a literal path-component name.
func Simple(name string, meta Metadata) *Matcher {
	return &Matcher{Kind: KindSimple, Name: name, Metadata: meta}
}

// Regex constructs a vertex matching via an anchored (and optionally
// excluding) regular expression.
func Regex(label string, re *regexmatch.Matcher, meta Metadata) *Matcher {
	return &Matcher{Kind: KindRegex, Name: label, Regex: re, Metadata: meta}
}

// Untracked constructs the sentinel matching any candidate, used both
// for "beyond the policed region" vertices and for out-of-bounds
// node-path indexing.
func Untracked() *Matcher {
	return &Matcher{Kind: KindUntracked, Name: "*", Metadata: Metadata{EntryType: EntryUntracked}}
}

// Matches reports whether candidate is legal at this vertex. Comparing
// the Root vertex to a path component is a programmer error: Root never
// appears past index 0 of a node-path, so a caller asking the question
// has a bug, and Matches panics rather than silently returning false.
func (m *Matcher) Matches(candidate string) bool {
	switch m.Kind {
	case KindRoot:
		panic("node: comparing Root matcher against a path component is a programmer error")
	case KindSimple:
		return candidate == m.Name
	case KindRegex:
		return m.Regex.Match(candidate)
	case KindUntracked:
		return true
	default:
		return false
	}
}

// String renders a human display form: the label, the patterns
// (positive and negative if present), and any owner/perms in brackets.
func (m *Matcher) String() string {
	label := m.Name

	switch m.Kind {
	case KindRegex:
		label += "=" + m.Regex.String()
	case KindSimple:
		// label already carries the literal name.
	case KindRoot, KindUntracked:
		// no pattern to render.
	}

	bracket := ""

	if owner := m.Metadata.Owner.String(); owner != "" {
		bracket += "owner:" + owner
	}

	if m.Metadata.Perms != "" {
		if bracket != "" {
			bracket += ", "
		}

		bracket += "perms:" + m.Metadata.Perms
	}

	if bracket == "" {
		return label
	}

	return label + " [" + bracket + "]"
}
