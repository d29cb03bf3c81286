package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/node"
	"github.com/dd-studio/jobsys/regexmatch"
)

func TestNodePathToPath(t *testing.T) {
	g := graph.New()
	dd := g.AddVertex(node.Simple("dd", node.Metadata{}))
	shows := g.AddVertex(node.Simple("shows", node.Metadata{}))

	g.AddEdge(g.RootIndex(), dd)
	g.AddEdge(dd, shows)

	np := graph.NewNodePath(g)
	np.Push(dd, "dd")
	np.Push(shows, "shows")

	path, err := np.ToPath()
	require.NoError(t, err)
	assert.Equal(t, "/dd/shows", path)
}

func TestNodePathToPathFailsOnUnresolvedRegex(t *testing.T) {
	g := graph.New()
	re, err := regexmatch.New("[A-Z]+")
	require.NoError(t, err)

	showIdx := g.AddVertex(node.Regex("show", re, node.Metadata{}))
	g.AddEdge(g.RootIndex(), showIdx)

	np := graph.NewNodePath(g)
	np.Push(showIdx, "")

	_, err = np.ToPath()
	assert.Error(t, err)
}

func TestNodePathPushPopDepth(t *testing.T) {
	g := graph.New()
	dd := g.AddVertex(node.Simple("dd", node.Metadata{}))

	np := graph.NewNodePath(g)
	assert.Equal(t, 0, np.Depth())

	np.Push(dd, "dd")
	assert.Equal(t, 1, np.Depth())

	np.Pop()
	assert.Equal(t, 0, np.Depth())
}

func TestNodePathCloneIsIndependent(t *testing.T) {
	g := graph.New()
	dd := g.AddVertex(node.Simple("dd", node.Metadata{}))

	np := graph.NewNodePath(g)
	np.Push(dd, "dd")

	clone := np.Clone()
	clone.Push(dd, "dd-again")

	assert.Equal(t, 1, np.Depth())
	assert.Equal(t, 2, clone.Depth())
}

func TestNodePathVertexAtOutOfRangeReturnsUntracked(t *testing.T) {
	g := graph.New()
	np := graph.NewNodePath(g)

	assert.Equal(t, node.KindUntracked, np.VertexAt(5).Kind)
	assert.Equal(t, node.KindUntracked, np.VertexAt(-1).Kind)
}
