package row

import "errors"

var (
	// ErrIndexOutOfRange reports a positional access outside the row's bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrKeyRejected reports a key whose type is forbidden by the row's key
	// style: a non-integer key under KeyIntegerOnly, or an integer key in
	// mapping access under KeyObjectsOnly.
	ErrKeyRejected = errors.New("key type rejected")

	// ErrUnknownKey reports a key the result metadata could not resolve.
	ErrUnknownKey = errors.New("unknown key")

	// ErrAmbiguousName reports a column label that resolves to more than one
	// position in the result set.
	ErrAmbiguousName = errors.New("ambiguous column name")

	// ErrUnsupported reports an operation the row intentionally does not
	// implement.
	ErrUnsupported = errors.New("operation not supported")

	// ErrDetached reports a snapshot that carries no result metadata.
	ErrDetached = errors.New("snapshot is detached from result metadata")

	// ErrIncomparable reports an ordering comparison between values that have
	// no defined order relative to each other.
	ErrIncomparable = errors.New("values cannot be ordered")
)
