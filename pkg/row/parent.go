package row

// Resolution is one entry of a result set's key index: the position a key
// resolves to, or the ambiguity marker when a label occurs more than once.
type Resolution struct {
	Index     int
	Ambiguous bool
	Name      string
}

// KeyIndex maps keys to resolutions. A populated index carries an entry per
// integer position, per unique column label, and per column identity object.
type KeyIndex map[any]Resolution

// Processor converts one raw value into its presented form. Processors run
// exactly once, at row construction.
type Processor func(any) any

// Parent is the per-result-set metadata every row of that set shares. Rows
// hold it by reference and delegate key resolution failures, fallback lookup
// and deprecation warnings to it.
type Parent interface {
	// Keys returns the ordered column labels. An empty string marks a column
	// with no usable label.
	Keys() []string

	// HasKey reports whether the key index knows the key, ambiguous entries
	// included.
	HasKey(key any) bool

	// KeyIndex returns the shared key index, used to re-link restored rows.
	KeyIndex() KeyIndex

	// MissingKey is consulted when a key is absent from the index. It may
	// resolve the key through a looser match or return an error wrapping
	// ErrUnknownKey.
	MissingKey(key any) (Resolution, error)

	// AmbiguousColumn builds the error for a label that resolves to more than
	// one position.
	AmbiguousColumn(name string) error

	// RejectNonIntKey builds the error for a non-integer key under
	// KeyIntegerOnly.
	RejectNonIntKey(key any) error

	// WarnNonIntKey records a migration-era lookup by name or object on a row
	// whose style is KeyObjectsButWarn.
	WarnNonIntKey(key any)

	// WarnDeprecated records a call to a deprecated row accessor.
	WarnDeprecated(method, alternative string)
}
