// Package template implements the template DSL parser: a line-oriented
// state machine over [regex]/[nodes]/[edges] sections that builds a
// graph.Graph, keyed by declared node labels and named regex patterns.
package template

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/dd-studio/jobsys/jobserrors"
	"github.com/dd-studio/jobsys/options"
)

// Load resolves, opens, and parses the template at path, or at
// $JSP_PATH if path is empty, recording the resolved path on opts.
func Load(path string, opts *options.Options) (*Result, error) {
	resolved, err := ResolvePath(path, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, jobserrors.WithStackTrace(&jobserrors.IoError{Cause: err})
	}
	defer f.Close()

	opts.TemplatePath = resolved

	return Parse(f, opts)
}

// LoadString parses data as a complete template body without touching
// the filesystem, for tests.
func LoadString(data string, opts *options.Options) (*Result, error) {
	return Parse(strings.NewReader(data), opts)
}

// ResolvePath expands an explicit template path, or $JSP_PATH when
// path is empty, expanding a leading ~ via the user's home directory,
// joining a relative result onto opts.WorkingDir and cleaning it with
// filepath.Clean. Symlinks are not resolved, and the file's existence
// is not checked here.
func ResolvePath(path string, opts *options.Options) (string, error) {
	candidate := path
	if candidate == "" {
		candidate = opts.Getenv("JSP_PATH")
	}

	if candidate == "" {
		return "", jobserrors.WithStackTrace(&jobserrors.TemplateError{
			Msg: "no template path given and $JSP_PATH is not set",
		})
	}

	expanded, err := homedir.Expand(candidate)
	if err != nil {
		return "", jobserrors.WithStackTrace(&jobserrors.TemplateError{
			Msg: "could not expand template path: " + err.Error(),
		})
	}

	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(opts.WorkingDir, expanded)
	}

	return filepath.Clean(expanded), nil
}
