package materialize_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/materialize"
	"github.com/dd-studio/jobsys/node"
	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/regexmatch"
)

type createdDir struct {
	mode   os.FileMode
	uid    int
	volume bool
}

type fakeIdentity struct {
	uids      map[string]int
	effective int
	created   map[string]createdDir
	sticky    string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		uids:    map[string]int{},
		created: map[string]createdDir{},
	}
}

func (f *fakeIdentity) LookupUID(name string) (int, error) {
	uid, ok := f.uids[name]
	if !ok {
		return 0, fmt.Errorf("no such user %s", name)
	}

	return uid, nil
}

func (f *fakeIdentity) SetEffectiveUID(uid int) error {
	f.effective = uid
	return nil
}

func (f *fakeIdentity) Mkdir(path string, mode os.FileMode) error {
	f.created[path] = createdDir{mode: mode, uid: f.effective}
	return nil
}

func (f *fakeIdentity) MkdirVolume(path string, mode os.FileMode) error {
	f.created[path] = createdDir{mode: mode, uid: f.effective, volume: true}
	return nil
}

func (f *fakeIdentity) Chown(path string, uid int) error {
	c := f.created[path]
	c.uid = uid
	f.created[path] = c

	return nil
}

func (f *fakeIdentity) SetSticky(path string) error {
	f.sticky = path
	return nil
}

func (f *fakeIdentity) Exists(path string) (bool, error) {
	_, ok := f.created[path]
	return ok, nil
}

func testOpts() *options.Options {
	return &options.Options{
		DefaultUser: "jobsys",
		DefaultMode: 0o755,
		Env:         func(string) (string, bool) { return "", false },
	}
}

func TestMaterializeCreatesDirsWithDeclaredPermsAndOwner(t *testing.T) {
	g := graph.New()

	dd := g.AddVertex(node.Simple("dd", node.Metadata{EntryType: node.EntryDirectory}))
	shows := g.AddVertex(node.Simple("shows", node.Metadata{EntryType: node.EntryDirectory}))

	re, err := regexmatch.New("[A-Z]+[A-Z0-9]*")
	require.NoError(t, err)

	show := g.AddVertex(node.Regex("show", re, node.Metadata{
		EntryType: node.EntryDirectory,
		Perms:     "751",
		Owner:     node.Named("jobsys"),
	}))

	g.AddEdge(g.RootIndex(), dd)
	g.AddEdge(dd, shows)
	g.AddEdge(shows, show)

	np := graph.NewNodePath(g)
	np.Push(dd, "dd")
	np.Push(shows, "shows")
	np.Push(show, "FOO")

	identity := newFakeIdentity()
	identity.uids["jobsys"] = 42

	mat := materialize.New(identity, testOpts(), false)
	require.NoError(t, mat.Materialize(np))

	dir, ok := identity.created["/dd/shows/FOO"]
	require.True(t, ok)
	assert.Equal(t, os.FileMode(0o751), dir.mode)
	assert.Equal(t, 42, dir.uid)
}

func TestMaterializeUntrackedInheritsLastManagedOwnerAndMode(t *testing.T) {
	g := graph.New()

	show := g.AddVertex(node.Simple("FOO", node.Metadata{
		EntryType: node.EntryDirectory,
		Perms:     "751",
		Owner:     node.Named("jobsys"),
	}))
	g.AddEdge(g.RootIndex(), show)

	np := graph.NewNodePath(g)
	np.Push(show, "FOO")
	np.Push(graph.UntrackedIndex, "extra")

	identity := newFakeIdentity()
	identity.uids["jobsys"] = 42

	mat := materialize.New(identity, testOpts(), false)
	require.NoError(t, mat.Materialize(np))

	extra, ok := identity.created["/FOO/extra"]
	require.True(t, ok)
	assert.Equal(t, os.FileMode(0o751), extra.mode)
	assert.Equal(t, 42, extra.uid)
}

func TestMaterializeSkipsExistingDirectories(t *testing.T) {
	g := graph.New()
	show := g.AddVertex(node.Simple("FOO", node.Metadata{EntryType: node.EntryDirectory, Owner: node.Named("jobsys")}))
	g.AddEdge(g.RootIndex(), show)

	np := graph.NewNodePath(g)
	np.Push(show, "FOO")

	identity := newFakeIdentity()
	identity.uids["jobsys"] = 42
	identity.created["/FOO"] = createdDir{mode: 0o700, uid: 7}

	mat := materialize.New(identity, testOpts(), false)
	require.NoError(t, mat.Materialize(np))

	assert.Equal(t, 7, identity.created["/FOO"].uid)
	assert.Equal(t, os.FileMode(0o700), identity.created["/FOO"].mode)
}

func TestMaterializeSetsStickyOnLastManagedDir(t *testing.T) {
	g := graph.New()
	show := g.AddVertex(node.Simple("FOO", node.Metadata{EntryType: node.EntryDirectory, Owner: node.Named("jobsys")}))
	g.AddEdge(g.RootIndex(), show)

	np := graph.NewNodePath(g)
	np.Push(show, "FOO")

	identity := newFakeIdentity()
	identity.uids["jobsys"] = 42

	mat := materialize.New(identity, testOpts(), true)
	require.NoError(t, mat.Materialize(np))

	assert.Equal(t, "/FOO", identity.sticky)
}

func TestMaterializeResolvesOwnerMeViaUserEnv(t *testing.T) {
	g := graph.New()
	show := g.AddVertex(node.Simple("FOO", node.Metadata{EntryType: node.EntryDirectory, Owner: node.Me()}))
	g.AddEdge(g.RootIndex(), show)

	np := graph.NewNodePath(g)
	np.Push(show, "FOO")

	identity := newFakeIdentity()
	identity.uids["alice"] = 501

	opts := testOpts()
	opts.Env = func(name string) (string, bool) {
		if name == "USER" {
			return "alice", true
		}

		return "", false
	}

	mat := materialize.New(identity, opts, false)
	require.NoError(t, mat.Materialize(np))

	assert.Equal(t, 501, identity.created["/FOO"].uid)
}

func TestMaterializeResolvesCapturedOwner(t *testing.T) {
	g := graph.New()

	re, err := regexmatch.New(`(?P<id>[A-Z]+)`)
	require.NoError(t, err)

	show := g.AddVertex(node.Regex("show", re, node.Metadata{
		EntryType: node.EntryDirectory,
		Owner:     node.Captured("id"),
	}))
	g.AddEdge(g.RootIndex(), show)

	np := graph.NewNodePath(g)
	np.Push(show, "DEV")

	identity := newFakeIdentity()
	identity.uids["DEV"] = 99

	mat := materialize.New(identity, testOpts(), false)
	require.NoError(t, mat.Materialize(np))

	assert.Equal(t, 99, identity.created["/DEV"].uid)
}
