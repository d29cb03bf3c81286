package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dd-studio/jobsys/options"
)

func TestUserFallsBackToDefault(t *testing.T) {
	opts := &options.Options{
		Env:         func(string) (string, bool) { return "", false },
		DefaultUser: options.DefaultUser,
	}

	assert.Equal(t, options.DefaultUser, opts.User())
}

func TestUserPrefersEnvironment(t *testing.T) {
	opts := &options.Options{
		Env:         func(name string) (string, bool) { return "alice", name == "USER" },
		DefaultUser: options.DefaultUser,
	}

	assert.Equal(t, "alice", opts.User())
}

func TestSetVerboseGatesColorOnTerminal(t *testing.T) {
	opts := options.New()

	opts.SetVerbose(true, false)
	assert.True(t, opts.Verbose)
	assert.False(t, opts.Color)

	opts.SetVerbose(true, true)
	assert.True(t, opts.Color)

	opts.SetVerbose(false, true)
	assert.False(t, opts.Color)
}

func TestGetenv(t *testing.T) {
	opts := &options.Options{Env: func(name string) (string, bool) {
		if name == "JSP_PATH" {
			return "/etc/jobsys/t.jspt", true
		}
		return "", false
	}}

	assert.Equal(t, "/etc/jobsys/t.jspt", opts.Getenv("JSP_PATH"))
	assert.Equal(t, "", opts.Getenv("NOPE"))
}
