// Package options carries the invocation-wide context threaded through
// every jobsys component explicitly, mirroring the teacher's own
// options.TerragruntOptions: working directory, template location, the
// logger, the output writers, and the environment lookup, instead of
// package-level globals.
package options

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultUser is the compiled-in fallback identity: the owner of a
// managed directory when no owner is declared or inherited, and what
// User returns when $USER is unset.
const DefaultUser = "jobsys"

// DefaultMode is the permission mode applied to a managed directory
// whose template node declares no perms and which has no inherited
// mode to fall back to.
const DefaultMode os.FileMode = 0o755

// EnvLookup abstracts environment-variable lookup so tests can supply a
// fixed environment instead of the process's real one.
type EnvLookup func(name string) (string, bool)

// Options is the shared, read-only context passed to every component.
// It is built once by the CLI layer; after SetVerbose and
// template.Load (which records TemplatePath), nothing changes it.
type Options struct {
	// WorkingDir is the process's current working directory, used to
	// resolve a relative template path.
	WorkingDir string

	// TemplatePath is the canonicalized path to the loaded template
	// file, resolved from -i/--input or $JSP_PATH.
	TemplatePath string

	// Env looks up an environment variable. Defaults to os.LookupEnv.
	Env EnvLookup

	// Logger receives structured diagnostic output.
	Logger *logrus.Logger

	// Writer and ErrWriter are the streams stdout/shell-command output
	// and human diagnostics are written to, respectively.
	Writer    io.Writer
	ErrWriter io.Writer

	// Verbose enables colorized, detailed diagnostics (-v).
	Verbose bool

	// Color enables ANSI colorization of diagnostics. Always false when
	// ErrWriter is not a terminal, regardless of Verbose.
	Color bool

	// DefaultUser is the owner applied when no metadata and no
	// inherited owner is available.
	DefaultUser string

	// DefaultMode is the permission mode applied when no metadata and
	// no inherited mode is available.
	DefaultMode os.FileMode
}

// New builds an Options with the process environment, logrus defaults,
// and the package-level default user/mode.
func New() *Options {
	return &Options{
		WorkingDir:  mustGetwd(),
		Env:         osLookup,
		Logger:      newLogger(),
		Writer:      os.Stdout,
		ErrWriter:   os.Stderr,
		DefaultUser: DefaultUser,
		DefaultMode: DefaultMode,
	}
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return wd
}

func osLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return logger
}

// Getenv returns the value of name, or "" if unset.
func (o *Options) Getenv(name string) string {
	value, _ := o.Env(name)
	return value
}

// LookupEnv returns the value of name and whether it was set.
func (o *Options) LookupEnv(name string) (string, bool) {
	return o.Env(name)
}

// User returns $USER from the environment, falling back to
// o.DefaultUser.
func (o *Options) User() string {
	if user, ok := o.Env("USER"); ok && user != "" {
		return user
	}

	return o.DefaultUser
}

// SetVerbose configures the logger level and color policy for -v.
func (o *Options) SetVerbose(verbose, isTerminal bool) {
	o.Verbose = verbose
	o.Color = verbose && isTerminal

	if verbose {
		o.Logger.SetLevel(logrus.DebugLevel)
	}
}
