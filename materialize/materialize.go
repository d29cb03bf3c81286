// Package materialize implements the disk materializer: walking a
// validated node-path, creating missing directories with the owner and
// mode their matched template vertex dictates.
package materialize

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/jobserrors"
	"github.com/dd-studio/jobsys/node"
	"github.com/dd-studio/jobsys/options"
)

// Materializer realizes a node-path on disk. Sticky requests that, if
// the walk completes, the sticky bit is set on the deepest managed
// (non-root, non-Untracked) directory — a per-invocation flag, not a
// template property.
type Materializer struct {
	Identity    Identity
	Logger      *logrus.Logger
	CurrentUser string
	DefaultUser string
	DefaultMode os.FileMode
	Sticky      bool
}

// New builds a Materializer using opts' current/default user and mode.
// CurrentUser is resolved once from $USER (falling back to DefaultUser,
// per options.Options.User), so an `owner: me` vertex resolves to the
// invoking user via the environment, not the process's real effective
// UID.
func New(identity Identity, opts *options.Options, sticky bool) *Materializer {
	return &Materializer{
		Identity:    identity,
		Logger:      opts.Logger,
		CurrentUser: opts.User(),
		DefaultUser: opts.DefaultUser,
		DefaultMode: opts.DefaultMode,
		Sticky:      sticky,
	}
}

// Materialize walks np from its first non-root vertex, creating
// missing directories in lock-step with the accumulated filesystem
// path. Owner and mode are inherited down the walk: each vertex's own
// declared metadata is merged over the last-seen owner/mode via
// node.Metadata.WithDefaults, so an unset field falls through to the
// nearest ancestor that did declare one, and only the narrow
// owner/perms pair is ever carried forward — entry type, env binding,
// and autocreate never leak across vertices this way.
func (m *Materializer) Materialize(np *graph.NodePath) error {
	lastMeta := node.Metadata{}
	lastManagedDir := ""
	dir := ""

	for i := 1; i < np.Len(); i++ {
		idx := np.Indices[i]
		component := np.Components[i-1]
		dir += "/" + component

		v := np.Graph.Vertex(idx)

		if v.Metadata.EntryType == node.EntryRoot {
			continue
		}

		merged, err := v.Metadata.WithDefaults(node.Metadata{Owner: lastMeta.Owner, Perms: lastMeta.Perms})
		if err != nil {
			return err
		}

		ownerName, err := m.resolveOwnerName(v, component, merged.Owner)
		if err != nil {
			return err
		}

		uid, err := m.Identity.LookupUID(ownerName)
		if err != nil {
			return err
		}

		mode, err := m.resolveMode(merged.Perms)
		if err != nil {
			return err
		}

		if v.Metadata.EntryType == node.EntryUntracked {
			if err := m.ensure(dir, uid, mode, false); err != nil {
				return err
			}

			continue
		}

		if err := m.ensure(dir, uid, mode, v.Metadata.Volume()); err != nil {
			return err
		}

		lastMeta = node.Metadata{Owner: node.Named(ownerName), Perms: fmt.Sprintf("%o", mode)}
		lastManagedDir = dir
	}

	if m.Sticky && lastManagedDir != "" {
		if err := m.Identity.SetSticky(lastManagedDir); err != nil {
			return err
		}

		m.debugf("set sticky bit on %s", lastManagedDir)
	}

	return nil
}

// resolveOwnerName turns a merged owner declaration into a concrete
// user name: Me resolves via the environment, Named is a literal,
// Captured extracts a named group from v's own regex match against
// component, and a nil owner (nothing declared on this vertex or any
// ancestor) falls back to the configured default user. Captured can
// only ever reach here from v's own metadata — an inherited owner is
// always collapsed to Named before being carried forward, so there is
// no ambiguity about whose regex to capture against.
func (m *Materializer) resolveOwnerName(v *node.Matcher, component string, owner *node.Owner) (string, error) {
	if owner == nil {
		return m.DefaultUser, nil
	}

	switch owner.Kind {
	case node.OwnerMe:
		return m.CurrentUser, nil

	case node.OwnerNamed:
		return owner.Literal, nil

	case node.OwnerCaptured:
		if v.Regex == nil {
			return "", jobserrors.WithStackTrace(&jobserrors.UidRetrievalError{
				Msg: "owner captured from a non-regex vertex " + v.Name,
			})
		}

		value, ok := v.Regex.FindCapture(component, owner.Capture)
		if !ok {
			return "", jobserrors.WithStackTrace(&jobserrors.UidRetrievalError{
				Msg: "capture group " + owner.Capture + " did not participate in matching " + component,
			})
		}

		return value, nil

	default:
		return m.DefaultUser, nil
	}
}

// resolveMode parses a merged perms string, falling back to the
// configured default mode when neither this vertex nor any ancestor
// declared one.
func (m *Materializer) resolveMode(perms string) (os.FileMode, error) {
	if perms == "" {
		return m.DefaultMode, nil
	}

	parsed, err := strconv.ParseUint(perms, 8, 32)
	if err != nil {
		return 0, jobserrors.WithStackTrace(&jobserrors.TemplateError{
			Msg: "invalid perms " + perms,
		})
	}

	return os.FileMode(parsed), nil
}

// ensure creates dir with the given owner/mode if it does not already
// exist. An existing directory is left untouched: ownership/mode
// decisions on it are skipped, the idempotence contract that makes
// concurrent mk invocations safe without a lock.
func (m *Materializer) ensure(dir string, uid int, mode os.FileMode, volume bool) error {
	exists, err := m.Identity.Exists(dir)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	if err := m.Identity.SetEffectiveUID(uid); err != nil {
		return err
	}

	var mkErr error
	if volume {
		mkErr = m.Identity.MkdirVolume(dir, mode)
	} else {
		mkErr = m.Identity.Mkdir(dir, mode)
	}

	if mkErr != nil {
		return jobserrors.WithStackTrace(&jobserrors.MkdirFailure{Path: dir, Err: mkErr})
	}

	if err := m.Identity.Chown(dir, uid); err != nil {
		return jobserrors.WithStackTrace(&jobserrors.MkdirFailure{Path: dir, Err: err})
	}

	m.debugf("created %s with mode %o owned by uid %d (volume=%v)", dir, mode, uid, volume)

	return nil
}

// debugf logs at debug level through the shared options logger, the
// way the teacher's command actions call opts.Logger.Debugf — a no-op
// if no logger was configured (e.g. in unit tests).
func (m *Materializer) debugf(format string, args ...any) {
	if m.Logger == nil {
		return
	}

	m.Logger.Debugf(format, args...)
}
