// Package term implements search terms and levelspec expansion:
// turning the compact coordinate strings a CLI invocation accepts into
// an ordered Search the Finder can walk.
package term

import (
	"strings"

	"github.com/dd-studio/jobsys/jobserrors"
	"github.com/dd-studio/jobsys/options"
)

// Term is a (key, value) pair: key is the human label of a Regex
// vertex, value is the proposed match.
type Term struct {
	Key   string
	Value string
}

// Search is an ordered sequence of search terms.
type Search []Term

// levelLabels and levelEnvVars are paired positionally: a levelspec's
// Nth dot-delimited segment corresponds to levelLabels[N], and is
// filled from levelEnvVars[N] when left blank.
var (
	levelLabels  = []string{"show", "sequence", "shot"}
	levelEnvVars = []string{"DD_SHOW", "DD_SEQUENCE", "DD_SHOT"}
)

// ExpandLevelspec expands a dot-delimited levelspec (e.g. "foo.rd.0001"
// or the relative ".rd.0001") into a Search of positional terms,
// filling any blank segment from its corresponding environment
// variable. A levelspec with more segments than there are levels is a
// SearchTermError.
func ExpandLevelspec(levelspec string, env options.EnvLookup) (Search, error) {
	if levelspec == "" {
		return nil, nil
	}

	segments := strings.Split(levelspec, ".")
	if len(segments) > len(levelLabels) {
		return nil, jobserrors.WithStackTrace(&jobserrors.SearchTermError{Text: levelspec})
	}

	search := make(Search, 0, len(segments))

	for i, seg := range segments {
		value := seg

		if value == "" {
			resolved, ok := env(levelEnvVars[i])
			if !ok || resolved == "" {
				return nil, jobserrors.WithStackTrace(&jobserrors.SearchTermError{Text: levelspec})
			}

			value = resolved
		}

		search = append(search, Term{Key: levelLabels[i], Value: value})
	}

	return search, nil
}

// ParseKeyValueTerms parses a list of "key:value" arguments into a
// Search. Every malformed term is collected and returned together as
// one aggregated error rather than failing on the first.
func ParseKeyValueTerms(args []string) (Search, error) {
	var (
		search Search
		errs   []error
	)

	for _, arg := range args {
		idx := strings.Index(arg, ":")
		if idx <= 0 || idx == len(arg)-1 {
			errs = append(errs, &jobserrors.SearchTermError{Text: arg})
			continue
		}

		search = append(search, Term{
			Key:   strings.TrimSpace(arg[:idx]),
			Value: strings.TrimSpace(arg[idx+1:]),
		})
	}

	if err := jobserrors.Join(errs...); err != nil {
		return nil, err
	}

	return search, nil
}

// BuildSearch expands levelspec (if non-empty) and appends the
// explicit "key:value" terms in extra, in that order: the expanded
// levelspec values pair positionally with the level labels before any
// additional explicit key:value pairs are appended.
func BuildSearch(levelspec string, extra []string, env options.EnvLookup) (Search, error) {
	base, err := ExpandLevelspec(levelspec, env)
	if err != nil {
		return nil, err
	}

	rest, err := ParseKeyValueTerms(extra)
	if err != nil {
		return nil, err
	}

	return append(base, rest...), nil
}

// SplitLevelspecArgs splits a command's positional TERMS into a
// levelspec and the remaining explicit key:value terms. An explicit
// -l/--level flag value takes precedence and leaves every positional
// arg as a key:value term. Otherwise, when the first positional arg is
// itself a key:value term (it contains ':'), there is no levelspec and
// every positional arg is a key:value term; else the first positional
// arg is the levelspec and the rest are key:value terms.
func SplitLevelspecArgs(levelFlag string, terms []string) (string, []string) {
	if levelFlag != "" {
		return levelFlag, terms
	}

	if len(terms) == 0 {
		return "", nil
	}

	if strings.Contains(terms[0], ":") {
		return "", terms
	}

	return terms[0], terms[1:]
}

// ClassifyIsPath implements the TERMS disambiguation rule from spec
// §6's mk/go CLI surface: TERMS is a single absolute path when -f
// forces it, or when there is exactly one term and it contains a '/';
// otherwise it is a levelspec plus optional key:value pairs.
func ClassifyIsPath(terms []string, force bool) bool {
	if force {
		return true
	}

	return len(terms) == 1 && strings.Contains(terms[0], "/")
}
