package node

import "dario.cat/mergo"

// EntryType distinguishes how a vertex's directory is realized on disk.
type EntryType int

const (
	// EntryDirectory is an ordinary directory created with mkdir.
	EntryDirectory EntryType = iota
	// EntryVolume is created via a (potentially platform-specific)
	// volume call rather than an ordinary mkdir.
	EntryVolume
	// EntryRoot is the singleton root vertex; no action is taken for it.
	EntryRoot
	// EntryUntracked models filesystem territory beyond the policed
	// region.
	EntryUntracked
)

func (t EntryType) String() string {
	switch t {
	case EntryDirectory:
		return "directory"
	case EntryVolume:
		return "volume"
	case EntryRoot:
		return "root"
	case EntryUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// OwnerKind distinguishes how a vertex's owning UID is determined.
type OwnerKind int

const (
	// OwnerNone means no owner is declared; the materializer inherits
	// the last-seen owner.
	OwnerNone OwnerKind = iota
	// OwnerMe resolves to the current user via the environment.
	OwnerMe
	// OwnerNamed resolves to a literal system user name.
	OwnerNamed
	// OwnerCaptured resolves by extracting a named capture group from
	// the node's regex match against the current path component.
	OwnerCaptured
)

// Owner declares how to resolve the UID that should own a vertex's
// directory.
type Owner struct {
	Kind OwnerKind

	// Literal holds the user name for OwnerNamed.
	Literal string

	// Capture holds the capture-group name for OwnerCaptured.
	Capture string
}

// Me builds a new Owner for `owner: me`.
func Me() *Owner { return &Owner{Kind: OwnerMe} }

// Named builds an Owner resolving to a literal user name.
func Named(user string) *Owner { return &Owner{Kind: OwnerNamed, Literal: user} }

// Captured builds an Owner resolving via a named capture group.
func Captured(group string) *Owner { return &Owner{Kind: OwnerCaptured, Capture: group} }

func (o *Owner) String() string {
	if o == nil {
		return ""
	}

	switch o.Kind {
	case OwnerMe:
		return "me"
	case OwnerNamed:
		return o.Literal
	case OwnerCaptured:
		return "$" + o.Capture
	default:
		return ""
	}
}

// Metadata is the plain immutable value attached to every vertex,
// carrying ownership, permission, environment-variable binding,
// autocreate, and entry-type information.
type Metadata struct {
	Owner      *Owner
	Perms      string
	EnvVar     string
	Autocreate bool
	EntryType  EntryType
}

// WithDefaults returns a copy of m with every unset field filled in from
// defaults, using dario.cat/mergo so that per-node declarations always
// win and defaults only fill gaps.
func (m Metadata) WithDefaults(defaults Metadata) (Metadata, error) {
	merged := m
	if err := mergo.Merge(&merged, defaults); err != nil {
		return Metadata{}, err
	}

	return merged, nil
}

// Volume reports whether this vertex's entry type is a volume.
func (m Metadata) Volume() bool {
	return m.EntryType == EntryVolume
}
