// Package shellemit implements the shell-command emitter (component
// I): rendering env-var set/unset and alias set/unset strings for the
// shells a `go` invocation's output is `eval`'d by.
package shellemit

import (
	"fmt"

	"github.com/dd-studio/jobsys/jobserrors"
)

// Shell renders the small set/unset/alias/cd command vocabulary that
// cmd/go's stdout is eval'd through. Bash and Tcsh are the two variants;
// the interface lets cmd/go stay agnostic of which is in play.
type Shell interface {
	Name() string
	SetEnv(name, value string) string
	UnsetEnv(name string) string
	SetAlias(name, cdPath string) string
	UnsetAlias(name string) string
	Cd(path string) string
}

// New resolves a -s/--shell flag value to a Shell. "" defaults to
// bash.
func New(name string) (Shell, error) {
	switch name {
	case "", "bash":
		return bashShell{}, nil
	case "tcsh":
		return tcshShell{}, nil
	default:
		return nil, jobserrors.WithStackTrace(&jobserrors.UnknownShell{Name: name})
	}
}

type bashShell struct{}

func (bashShell) Name() string { return "bash" }

func (bashShell) SetEnv(name, value string) string {
	return fmt.Sprintf("export %s=%s;", name, value)
}

func (bashShell) UnsetEnv(name string) string {
	return fmt.Sprintf("unset %s;", name)
}

func (bashShell) SetAlias(name, cdPath string) string {
	return fmt.Sprintf("alias %s='cd %s';", name, cdPath)
}

func (bashShell) UnsetAlias(name string) string {
	return fmt.Sprintf("unalias %s;", name)
}

func (bashShell) Cd(path string) string {
	return fmt.Sprintf("cd %s;", path)
}

type tcshShell struct{}

func (tcshShell) Name() string { return "tcsh" }

func (tcshShell) SetEnv(name, value string) string {
	return fmt.Sprintf("setenv %s %s;", name, value)
}

func (tcshShell) UnsetEnv(name string) string {
	return fmt.Sprintf("unsetenv %s;", name)
}

func (tcshShell) SetAlias(name, cdPath string) string {
	return fmt.Sprintf("alias %s 'cd %s';", name, cdPath)
}

func (tcshShell) UnsetAlias(name string) string {
	return fmt.Sprintf("unalias %s;", name)
}

func (tcshShell) Cd(path string) string {
	return fmt.Sprintf("cd %s;", path)
}
