package clishared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd-studio/jobsys/clishared"
	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/node"
	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/regexmatch"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()

	g := graph.New()

	re, err := regexmatch.New("[A-Z]+[A-Z0-9]*")
	require.NoError(t, err)

	dd := g.AddVertex(node.Simple("dd", node.Metadata{}))
	shows := g.AddVertex(node.Simple("shows", node.Metadata{}))
	show := g.AddVertex(node.Regex("show", re, node.Metadata{EnvVar: "DD_SHOW"}))

	g.AddEdge(g.RootIndex(), dd)
	g.AddEdge(dd, shows)
	g.AddEdge(shows, show)

	return g
}

func testOpts() *options.Options {
	return &options.Options{Env: func(string) (string, bool) { return "", false }}
}

func TestResolveNodePathAsPath(t *testing.T) {
	g := buildGraph(t)

	np, err := clishared.ResolveNodePath(testOpts(), g, "", []string{"/dd/shows/DEV01"}, false)
	require.NoError(t, err)

	path, err := np.ToPath()
	require.NoError(t, err)
	assert.Equal(t, "/dd/shows/DEV01", path)
}

func TestResolveNodePathAsLevelspec(t *testing.T) {
	g := buildGraph(t)

	np, err := clishared.ResolveNodePath(testOpts(), g, "", []string{"show:DEV01"}, false)
	require.NoError(t, err)

	path, err := np.ToPath()
	require.NoError(t, err)
	assert.Equal(t, "/dd/shows/DEV01", path)
}

func TestCollectVarBindings(t *testing.T) {
	g := buildGraph(t)

	np, err := clishared.ResolveNodePath(testOpts(), g, "", []string{"show:DEV01"}, false)
	require.NoError(t, err)

	bindings := clishared.CollectVarBindings(np)

	require.Len(t, bindings, 1)
	assert.Equal(t, "DD_SHOW", bindings[0].Name)
	assert.Equal(t, "DEV01", bindings[0].Value)
}
