// Package jobserrors implements jobsys's error taxonomy: one concrete
// type per failure case, each wrapped with a stack trace at its
// construction site, mirroring the teacher's own
// errors.WithStackTrace(...) convention.
package jobserrors

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// WithStackTrace wraps err with a stack trace captured at the call
// site, unless err is nil or already carries one. Every error
// constructed anywhere in jobsys should be passed through this before
// it is returned, the way the teacher wraps every returned error in
// cli/cli_app.go.
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(interface{ StackTrace() errors.StackTrace }); ok {
		return err
	}

	return errors.WithStack(err)
}

// Join aggregates multiple errors into one, dropping any nils. Returns
// nil if errs contains no non-nil error.
func Join(errs ...error) error {
	var merr *multierror.Error

	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	return merr.ErrorOrNil()
}

// TemplateError indicates the template file could not be found,
// canonicalized, or contains a malformed regex.
type TemplateError struct {
	Msg string
}

func (e *TemplateError) Error() string {
	return "template error: " + e.Msg
}

// ParsingError is a DSL syntax error with full context: the line
// number, the original line text, the parser state it occurred in, and
// the underlying cause.
type ParsingError struct {
	Line  int
	Text  string
	State string
	Cause error
}

func (e *ParsingError) Error() string {
	msg := fmt.Sprintf("parse error at line %d (state %s): %q", e.Line, e.State, e.Text)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *ParsingError) Unwrap() error {
	return e.Cause
}

// InvalidStateTransition indicates a section header appeared out of the
// strictly-forward sequence Start -> RegexParsing -> NodeParsing ->
// EdgeParsing -> Done.
type InvalidStateTransition struct {
	From string
	To   string
}

func (e *InvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}

// KeyMapLookupError indicates an edges-section line referenced a node
// label that was never declared in the nodes section.
type KeyMapLookupError struct {
	Name string
}

func (e *KeyMapLookupError) Error() string {
	return "undeclared node referenced in edges: " + e.Name
}

// RegexMapLookupError indicates a node declaration referenced
// `$regex_name` for a name never declared in the regex section.
type RegexMapLookupError struct {
	Name string
}

func (e *RegexMapLookupError) Error() string {
	return "undeclared regex referenced in node: " + e.Name
}

// EnvVarLookupError indicates a `label = $$ENV_VAR` node referenced an
// environment variable that is unset at load time.
type EnvVarLookupError struct {
	Name string
}

func (e *EnvVarLookupError) Error() string {
	return "environment variable not set: " + e.Name
}

// ValidationFailure indicates a candidate path does not conform to the
// template. It carries enough context to render
// "failed to match COMPONENT at depth D; neighbors of the last good
// vertex were: …".
type ValidationFailure struct {
	Component string
	Depth     int
	Neighbors []string
}

func (e *ValidationFailure) Error() string {
	msg := fmt.Sprintf("failed to match %q at depth %d", e.Component, e.Depth)
	if len(e.Neighbors) > 0 {
		msg += "; neighbors of the last good vertex were: " + joinComma(e.Neighbors)
	} else {
		msg += "; the last good vertex had no neighbors"
	}

	return msg
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}

		out += item
	}

	return out
}

// FindFailure indicates that a set of search terms could not be
// satisfied against the template graph.
type FindFailure struct {
	Terms []string
}

func (e *FindFailure) Error() string {
	return "could not satisfy search terms: " + joinComma(e.Terms)
}

// SearchTermError indicates a malformed `key:value` term.
type SearchTermError struct {
	Text string
}

func (e *SearchTermError) Error() string {
	return "malformed search term: " + e.Text
}

// UidRetrievalError indicates a configured owner (named user or a
// captured group value) could not be resolved to a system UID.
type UidRetrievalError struct {
	Msg string
}

func (e *UidRetrievalError) Error() string {
	return "failed to resolve uid: " + e.Msg
}

// MkdirFailure wraps a failed directory/volume creation.
type MkdirFailure struct {
	Path string
	Err  error
}

func (e *MkdirFailure) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Path, e.Err)
}

func (e *MkdirFailure) Unwrap() error {
	return e.Err
}

// IoError wraps an underlying I/O error (file open/read/close).
type IoError struct {
	Cause error
}

func (e *IoError) Error() string {
	return "io error: " + e.Cause.Error()
}

func (e *IoError) Unwrap() error {
	return e.Cause
}

// UnknownShell indicates a -s/--shell value that is not a supported
// shell target.
type UnknownShell struct {
	Name string
}

func (e *UnknownShell) Error() string {
	return "unknown shell: " + e.Name
}
