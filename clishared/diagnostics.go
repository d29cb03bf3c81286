package clishared

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
	wordwrap "github.com/mitchellh/go-wordwrap"

	"github.com/dd-studio/jobsys/options"
)

// IsTerminal reports whether f is attached to a terminal, covering the
// Windows/Cygwin pty case along with the normal tty case.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// FormatDiagnostic renders err for display on opts.ErrWriter: wrapped
// and colorized red when opts.Color is set, plain otherwise.
func FormatDiagnostic(opts *options.Options, err error) string {
	msg := err.Error()
	if !opts.Color {
		return msg
	}

	return ansi.Color(wordwrap.WrapString(msg, 100), "red+b")
}
