package shellemit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd-studio/jobsys/jobserrors"
	"github.com/dd-studio/jobsys/shellemit"
)

func TestBashCommands(t *testing.T) {
	s, err := shellemit.New("bash")
	require.NoError(t, err)

	assert.Equal(t, "export DD_SHOW=FOO;", s.SetEnv("DD_SHOW", "FOO"))
	assert.Equal(t, "unset DD_SHOW;", s.UnsetEnv("DD_SHOW"))
	assert.Equal(t, "alias dev='cd /dd/shows/FOO';", s.SetAlias("dev", "/dd/shows/FOO"))
	assert.Equal(t, "unalias dev;", s.UnsetAlias("dev"))
	assert.Equal(t, "cd /dd/shows/FOO;", s.Cd("/dd/shows/FOO"))
}

func TestTcshCommands(t *testing.T) {
	s, err := shellemit.New("tcsh")
	require.NoError(t, err)

	assert.Equal(t, "setenv DD_SHOW FOO;", s.SetEnv("DD_SHOW", "FOO"))
	assert.Equal(t, "unsetenv DD_SHOW;", s.UnsetEnv("DD_SHOW"))
	assert.Equal(t, "alias dev 'cd /dd/shows/FOO';", s.SetAlias("dev", "/dd/shows/FOO"))
	assert.Equal(t, "unalias dev;", s.UnsetAlias("dev"))
}

func TestDefaultShellIsBash(t *testing.T) {
	s, err := shellemit.New("")
	require.NoError(t, err)
	assert.Equal(t, "bash", s.Name())
}

func TestUnknownShellFails(t *testing.T) {
	_, err := shellemit.New("fish")
	require.Error(t, err)

	var unknown *jobserrors.UnknownShell
	assert.ErrorAs(t, err, &unknown)
}
