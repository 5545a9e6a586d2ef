package row

// KeyStyle controls how a row treats non-positional keys during lookup.
// Integer positions are always honored; the style only governs names and
// column objects, and whether resolving them warns.
type KeyStyle int

const (
	// KeyIntegerOnly rejects every non-integer key.
	KeyIntegerOnly KeyStyle = iota

	// KeyObjectsOnly resolves names and column objects. In mapping access it
	// additionally rejects integer keys.
	KeyObjectsOnly

	// KeyObjectsButWarn resolves names and column objects but emits a
	// deprecation warning whenever the key is not already the resolved
	// position.
	KeyObjectsButWarn

	// KeyObjectsNoWarn resolves names and column objects silently.
	KeyObjectsNoWarn
)

func (s KeyStyle) String() string {
	switch s {
	case KeyIntegerOnly:
		return "integer-only"
	case KeyObjectsOnly:
		return "objects-only"
	case KeyObjectsButWarn:
		return "objects-but-warn"
	case KeyObjectsNoWarn:
		return "objects-no-warn"
	}
	return "unknown"
}

// ContainsMode controls what the Contains operation tests for.
type ContainsMode int

const (
	// ContainsValue tests membership of a value in the row's value sequence.
	ContainsValue ContainsMode = iota

	// ContainsKey tests presence of a key in the result metadata. This is the
	// migration-era dictionary behavior; each use warns through the metadata.
	ContainsKey
)

func (m ContainsMode) String() string {
	if m == ContainsKey {
		return "key"
	}
	return "value"
}

// Range is a positional sub-sequence key for Get.
type Range struct {
	Start int
	Stop  int
}

const (
	// DefaultKeyStyle is the style rows are fetched with unless configured
	// otherwise.
	DefaultKeyStyle = KeyObjectsButWarn

	// LegacyDefaultKeyStyle is the style legacy rows are fetched with.
	LegacyDefaultKeyStyle = KeyObjectsNoWarn
)
