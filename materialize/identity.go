package materialize

import (
	"os"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/dd-studio/jobsys/jobserrors"
)

// Identity is the small capability surface the materializer needs from
// the operating system: UID lookup, effective-UID reassignment,
// ownership/mode changes, and directory/volume creation. It is
// isolated behind an interface so tests can stub it instead of
// requiring root and a real filesystem.
type Identity interface {
	LookupUID(name string) (int, error)
	SetEffectiveUID(uid int) error
	Mkdir(path string, mode os.FileMode) error
	MkdirVolume(path string, mode os.FileMode) error
	Chown(path string, uid int) error
	SetSticky(path string) error
	Exists(path string) (bool, error)
}

// UnixIdentity is the real Identity, backed by os/user lookups and
// golang.org/x/sys/unix syscalls.
type UnixIdentity struct{}

// NewUnixIdentity constructs the real, syscall-backed Identity.
func NewUnixIdentity() *UnixIdentity { return &UnixIdentity{} }

func (UnixIdentity) LookupUID(name string) (int, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, jobserrors.WithStackTrace(&jobserrors.UidRetrievalError{Msg: "no such user " + name + ": " + err.Error()})
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, jobserrors.WithStackTrace(&jobserrors.UidRetrievalError{Msg: "non-numeric uid for " + name})
	}

	return uid, nil
}

// SetEffectiveUID reassigns the process's effective UID, so that a
// following mkdir+chown by an unprivileged caller can still hand the
// new directory to its configured owner.
func (UnixIdentity) SetEffectiveUID(uid int) error {
	if uid == os.Geteuid() {
		return nil
	}

	if err := unix.Seteuid(uid); err != nil {
		return jobserrors.WithStackTrace(err)
	}

	return nil
}

func (UnixIdentity) Mkdir(path string, mode os.FileMode) error {
	if err := os.Mkdir(path, mode); err != nil {
		return jobserrors.WithStackTrace(err)
	}

	return nil
}

// MkdirVolume is the platform-specific volume-creation hook. Local
// filesystems treat it identically to an ordinary directory; a
// networked-volume strategy is out of scope here.
func (UnixIdentity) MkdirVolume(path string, mode os.FileMode) error {
	return UnixIdentity{}.Mkdir(path, mode)
}

func (UnixIdentity) Chown(path string, uid int) error {
	if err := os.Chown(path, uid, -1); err != nil {
		return jobserrors.WithStackTrace(err)
	}

	return nil
}

// SetSticky ORs S_ISVTX into path's current mode without disturbing
// its other bits.
func (UnixIdentity) SetSticky(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return jobserrors.WithStackTrace(err)
	}

	if err := os.Chmod(path, info.Mode()|os.ModeSticky); err != nil {
		return jobserrors.WithStackTrace(err)
	}

	return nil
}

func (UnixIdentity) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, jobserrors.WithStackTrace(err)
}
