package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd-studio/jobsys/jobserrors"
	"github.com/dd-studio/jobsys/node"
	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/template"
)

func testOptions(env map[string]string) *options.Options {
	return &options.Options{
		Env: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
		DefaultUser: "jobsys",
		DefaultMode: 0o755,
	}
}

const happyTemplate = `
# a comment
[regex]
show = "[A-Z]+[A-Z0-9]*"

[nodes]
dd
shows
SHARED [ owner: me, perms: 751 ]
MODEL
show = $show [ owner: $show ]

[edges]
root -> dd -> shows -> show -> SHARED -> MODEL
`

func TestLoadStringBuildsGraph(t *testing.T) {
	result, err := template.LoadString(happyTemplate, testOptions(nil))
	require.NoError(t, err)

	assert.Equal(t, 6, result.Graph.Len())

	for _, label := range []string{"dd", "shows", "SHARED", "MODEL", "show"} {
		_, ok := result.KeyMap[label]
		assert.Truef(t, ok, "expected %q in KeyMap", label)
	}

	showIdx := result.KeyMap["show"]
	showVertex := result.Graph.Vertex(showIdx)
	assert.Equal(t, node.KindRegex, showVertex.Kind)
	assert.Equal(t, node.OwnerCaptured, showVertex.Metadata.Owner.Kind)

	sharedVertex := result.Graph.Vertex(result.KeyMap["SHARED"])
	assert.Equal(t, "751", sharedVertex.Metadata.Perms)
	assert.Equal(t, node.OwnerMe, sharedVertex.Metadata.Owner.Kind)
}

func TestLoadStringHeaderOutOfOrder(t *testing.T) {
	body := `
[nodes]
a

[regex]
show = "X"
`
	_, err := template.LoadString(body, testOptions(nil))
	require.Error(t, err)

	var invalid *jobserrors.InvalidStateTransition
	assert.ErrorAs(t, err, &invalid)
}

func TestLoadStringUndeclaredEdgeEndpoint(t *testing.T) {
	body := `
[nodes]
a

[edges]
a -> b
`
	_, err := template.LoadString(body, testOptions(nil))
	require.Error(t, err)

	var lookupErr *jobserrors.KeyMapLookupError
	assert.ErrorAs(t, err, &lookupErr)
}

func TestLoadStringUndeclaredRegexReference(t *testing.T) {
	body := `
[nodes]
a = $missing
`
	_, err := template.LoadString(body, testOptions(nil))
	require.Error(t, err)

	var lookupErr *jobserrors.RegexMapLookupError
	assert.ErrorAs(t, err, &lookupErr)
}

func TestLoadStringEnvVarLookupFailure(t *testing.T) {
	body := `
[nodes]
a = $$MISSING_ENV_VAR
`
	_, err := template.LoadString(body, testOptions(nil))
	require.Error(t, err)

	var envErr *jobserrors.EnvVarLookupError
	assert.ErrorAs(t, err, &envErr)
}

func TestLoadStringEnvVarResolvesToLiteral(t *testing.T) {
	body := `
[nodes]
a = $$JSP_TEST_VAR
`
	result, err := template.LoadString(body, testOptions(map[string]string{"JSP_TEST_VAR": "resolved"}))
	require.NoError(t, err)

	v := result.Graph.Vertex(result.KeyMap["a"])
	assert.Equal(t, node.KindSimple, v.Kind)
	assert.Equal(t, "resolved", v.Name)
}

func TestLoadStringMalformedLine(t *testing.T) {
	body := `
[nodes]
1bad
`
	_, err := template.LoadString(body, testOptions(nil))
	require.Error(t, err)

	var parseErr *jobserrors.ParsingError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadStringLiteralPair(t *testing.T) {
	body := `
[nodes]
public = pub
`
	result, err := template.LoadString(body, testOptions(nil))
	require.NoError(t, err)

	v := result.Graph.Vertex(result.KeyMap["public"])
	assert.Equal(t, node.KindSimple, v.Kind)
	assert.Equal(t, "pub", v.Name)
}

func TestLoadStringVolumeFlag(t *testing.T) {
	body := `
[nodes]
store [ volume ]
`
	result, err := template.LoadString(body, testOptions(nil))
	require.NoError(t, err)

	v := result.Graph.Vertex(result.KeyMap["store"])
	assert.True(t, v.Metadata.Volume())
}

func TestResolvePathExpandsJSPPathWhenNoExplicitPath(t *testing.T) {
	opts := testOptions(map[string]string{"JSP_PATH": "/etc/jobsys/template.jspt"})
	opts.WorkingDir = "/tmp"

	resolved, err := template.ResolvePath("", opts)
	require.NoError(t, err)
	assert.Equal(t, "/etc/jobsys/template.jspt", resolved)
}

func TestResolvePathFailsWithNoSource(t *testing.T) {
	opts := testOptions(nil)

	_, err := template.ResolvePath("", opts)
	assert.Error(t, err)
}
