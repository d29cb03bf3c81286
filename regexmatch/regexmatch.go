// Package regexmatch implements the anchored pattern matcher that backs
// every Regex node in a job-system template: component A of the core.
package regexmatch

import (
	"regexp"
	"strings"

	"github.com/dd-studio/jobsys/jobserrors"
)

// Matcher is an anchored positive pattern with an optional negative
// exclusion. A candidate matches iff the positive pattern matches and,
// when present, the negative pattern does not.
//
// Matcher is comparable and orderable by source text so that a template
// graph built from it can be serialized deterministically.
type Matcher struct {
	source  string
	exclude string

	re    *regexp.Regexp
	notRe *regexp.Regexp
}

// New compiles a simple (positive-only) pattern.
func New(pattern string) (*Matcher, error) {
	return NewWithExclude(pattern, "")
}

// NewWithExclude compiles a positive pattern plus an optional negative
// exclusion pattern. Both are wrapped in ^…$ if not already anchored.
// Construction fails with a TemplateError if either pattern does not
// compile.
func NewWithExclude(pattern, exclude string) (*Matcher, error) {
	anchoredPattern := anchor(pattern)

	re, err := regexp.Compile(anchoredPattern)
	if err != nil {
		return nil, jobserrors.WithStackTrace(&jobserrors.TemplateError{
			Msg: "invalid regex pattern " + quote(pattern) + ": " + err.Error(),
		})
	}

	m := &Matcher{source: pattern, re: re}

	if exclude != "" {
		anchoredExclude := anchor(exclude)

		notRe, err := regexp.Compile(anchoredExclude)
		if err != nil {
			return nil, jobserrors.WithStackTrace(&jobserrors.TemplateError{
				Msg: "invalid exclusion pattern " + quote(exclude) + ": " + err.Error(),
			})
		}

		m.exclude = exclude
		m.notRe = notRe
	}

	return m, nil
}

// anchor prefixes pattern with ^ unless it already begins with one, and
// suffixes it with $ unless it already ends with one.
func anchor(pattern string) string {
	anchored := pattern
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}

	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}

	return anchored
}

func quote(s string) string {
	return "\"" + s + "\""
}

// Match reports whether candidate satisfies the positive pattern and,
// if an exclusion is present, does not satisfy it.
func (m *Matcher) Match(candidate string) bool {
	if m == nil || m.re == nil {
		return false
	}

	if !m.re.MatchString(candidate) {
		return false
	}

	if m.notRe != nil && m.notRe.MatchString(candidate) {
		return false
	}

	return true
}

// FindCapture re-runs the positive pattern against candidate and returns
// the value of the named capture group, or "" with ok=false if the
// group is absent or did not participate in the match.
func (m *Matcher) FindCapture(candidate, name string) (string, bool) {
	if m == nil || m.re == nil {
		return "", false
	}

	idx := m.re.FindStringSubmatchIndex(candidate)
	if idx == nil {
		return "", false
	}

	for i, groupName := range m.re.SubexpNames() {
		if groupName != name {
			continue
		}

		start, end := idx[2*i], idx[2*i+1]
		if start < 0 || end < 0 {
			return "", false
		}

		return candidate[start:end], true
	}

	return "", false
}

// HasCapture reports whether the positive pattern declares a named
// capture group with this name.
func (m *Matcher) HasCapture(name string) bool {
	if m == nil || m.re == nil {
		return false
	}

	for _, groupName := range m.re.SubexpNames() {
		if groupName == name {
			return true
		}
	}

	return false
}

// Source returns the original, unanchored positive pattern text.
func (m *Matcher) Source() string {
	if m == nil {
		return ""
	}

	return m.source
}

// ExcludeSource returns the original, unanchored negative pattern text,
// or "" if none was declared.
func (m *Matcher) ExcludeSource() string {
	if m == nil {
		return ""
	}

	return m.exclude
}

// String renders the anchored positive pattern, and the exclusion in
// brackets if present, e.g. `^[A-Z]+$ [!^DEV$]`.
func (m *Matcher) String() string {
	if m == nil {
		return ""
	}

	s := anchor(m.source)
	if m.exclude != "" {
		s += " [!" + anchor(m.exclude) + "]"
	}

	return s
}

// Equal compares two matchers by source text (positive and negative),
// not by compiled representation.
func (m *Matcher) Equal(other *Matcher) bool {
	if m == nil || other == nil {
		return m == other
	}

	return m.source == other.source && m.exclude == other.exclude
}

// Less orders two matchers by source text, primary key the positive
// pattern, secondary key the exclusion, so a set of matchers can be
// sorted deterministically for serialization.
func (m *Matcher) Less(other *Matcher) bool {
	if m == nil || other == nil {
		return other != nil
	}

	if m.source != other.source {
		return m.source < other.source
	}

	return m.exclude < other.exclude
}
