// Package session implements cached-variable tracking: remembering,
// across `go` invocations, which env vars and aliases the previous
// invocation exported, so the next one can clean them up before
// setting its own.
package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/shellemit"
)

// VarsTrackingVar and AliasTrackingVar are the process-wide tracking
// variable names a `go` invocation remembers its own exports under, so
// the next invocation can clean them up before setting its own.
const (
	VarsTrackingVar  = "JSP_VARS"
	AliasTrackingVar = "JSP_ALIAS_NAMES"
)

// VarBinding is one environment variable to export.
type VarBinding struct {
	Name  string
	Value string
}

// AliasBinding is one shell alias to export, aliasing Name to `cd
// CDPath`.
type AliasBinding struct {
	Name   string
	CDPath string
}

// Session emits the cleanup-then-set command sequences for a `go`
// invocation's shell target.
type Session struct {
	Shell shellemit.Shell
	Env   options.EnvLookup
}

// New builds a Session over the given shell target and environment
// lookup.
func New(shell shellemit.Shell, env options.EnvLookup) *Session {
	return &Session{Shell: shell, Env: env}
}

// EmitVars writes, to w: an unset for every name the previous
// invocation tracked, a set for every binding in vars (in order), and
// an update (or unset, if vars is empty) of the tracking variable
// itself.
func (s *Session) EmitVars(w io.Writer, vars []VarBinding) {
	for _, name := range s.tracked(VarsTrackingVar) {
		s.writeln(w, s.Shell.UnsetEnv(name))
	}

	names := make([]string, len(vars))

	for i, v := range vars {
		s.writeln(w, s.Shell.SetEnv(v.Name, v.Value))
		names[i] = v.Name
	}

	if len(names) == 0 {
		s.writeln(w, s.Shell.UnsetEnv(VarsTrackingVar))
		return
	}

	s.writeln(w, s.Shell.SetEnv(VarsTrackingVar, strings.Join(names, ":")))
}

// EmitAliases is EmitVars' counterpart for aliases, tracked under
// AliasTrackingVar.
func (s *Session) EmitAliases(w io.Writer, aliases []AliasBinding) {
	for _, name := range s.tracked(AliasTrackingVar) {
		s.writeln(w, s.Shell.UnsetAlias(name))
	}

	names := make([]string, len(aliases))

	for i, a := range aliases {
		s.writeln(w, s.Shell.SetAlias(a.Name, a.CDPath))
		names[i] = a.Name
	}

	if len(names) == 0 {
		s.writeln(w, s.Shell.UnsetEnv(AliasTrackingVar))
		return
	}

	s.writeln(w, s.Shell.SetEnv(AliasTrackingVar, strings.Join(names, ":")))
}

func (s *Session) tracked(trackingVar string) []string {
	raw, ok := s.Env(trackingVar)
	if !ok || raw == "" {
		return nil
	}

	return strings.Split(raw, ":")
}

func (s *Session) writeln(w io.Writer, line string) {
	fmt.Fprintln(w, line)
}
