// Package result binds rows to the result sets that produce them. Metadata
// is the shared parent every row of one result set holds: ordered labels, the
// key index, the fallback resolver and the warning sink. Rows streams
// processed rows out of database/sql queries.
package result

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/turbolytics/rowset/pkg/row"
)

// Column describes one column of a result set. The pointer identity of a
// Column is itself a valid row lookup key, unambiguous even when labels
// repeat.
type Column struct {
	Name string
	Type string
}

// Metadata implements row.Parent for one result set.
type Metadata struct {
	columns []*Column
	keys    []string
	keymap  row.KeyIndex
	logger  *zap.Logger

	loose  bool
	folded map[string]row.Resolution
}

type MetadataOption func(*Metadata)

// MetadataWithLogger sets the sink deprecation warnings are reported through.
func MetadataWithLogger(logger *zap.Logger) MetadataOption {
	return func(m *Metadata) {
		m.logger = logger
	}
}

// MetadataWithCaseInsensitive resolves keys that miss the index by
// case-folded label match, provided the match is unique.
func MetadataWithCaseInsensitive() MetadataOption {
	return func(m *Metadata) {
		m.loose = true
	}
}

// NewMetadata indexes the columns of one result set. Every position, unique
// label and column pointer gets an index entry; a repeated label is replaced
// by an ambiguity marker. Columns with an empty name are reachable by
// position and pointer only.
func NewMetadata(columns []*Column, opts ...MetadataOption) *Metadata {
	m := &Metadata{
		columns: columns,
		keys:    make([]string, len(columns)),
		keymap:  make(row.KeyIndex, 3*len(columns)),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for i, c := range columns {
		rec := row.Resolution{Index: i, Name: c.Name}
		m.keys[i] = c.Name
		m.keymap[i] = rec
		m.keymap[c] = rec
		if c.Name == "" {
			continue
		}
		if _, ok := m.keymap[c.Name]; ok {
			m.keymap[c.Name] = row.Resolution{Ambiguous: true, Name: c.Name}
			continue
		}
		m.keymap[c.Name] = rec
	}

	if m.loose {
		m.folded = make(map[string]row.Resolution, len(columns))
		for _, c := range columns {
			if c.Name == "" {
				continue
			}
			fold := strings.ToLower(c.Name)
			if _, ok := m.folded[fold]; ok {
				m.folded[fold] = row.Resolution{Ambiguous: true, Name: c.Name}
				continue
			}
			m.folded[fold] = m.keymap[c.Name]
		}
	}
	return m
}

// Columns returns the described columns in result order.
func (m *Metadata) Columns() []*Column {
	return m.columns
}

// Keys returns the ordered column labels; empty entries mark columns without
// a usable label. The slice is shared, callers must not mutate it.
func (m *Metadata) Keys() []string {
	return m.keys
}

// HasKey reports whether the key index knows the key. Ambiguous labels and
// integer positions count as known.
func (m *Metadata) HasKey(key any) bool {
	_, ok := m.keymap[row.NormalizeKey(key)]
	return ok
}

// KeyIndex returns the shared key index.
func (m *Metadata) KeyIndex() row.KeyIndex {
	return m.keymap
}

// MissingKey resolves index misses. With case-insensitive matching enabled a
// unique folded label match resolves; everything else reports ErrUnknownKey.
func (m *Metadata) MissingKey(key any) (row.Resolution, error) {
	if m.loose {
		if s, ok := key.(string); ok {
			if rec, ok := m.folded[strings.ToLower(s)]; ok {
				return rec, nil
			}
		}
	}
	return row.Resolution{}, fmt.Errorf("%w: could not locate %s in result set", row.ErrUnknownKey, describeKey(key))
}

// AmbiguousColumn builds the error for a label occurring more than once.
func (m *Metadata) AmbiguousColumn(name string) error {
	return fmt.Errorf("%w: %q repeats in the result set, access it by position or column object", row.ErrAmbiguousName, name)
}

// RejectNonIntKey builds the error for non-integer keys under integer-only
// access.
func (m *Metadata) RejectNonIntKey(key any) error {
	return fmt.Errorf("%w: %s on an integer-only row", row.ErrKeyRejected, describeKey(key))
}

// WarnNonIntKey reports a migration-era keyed lookup on a row that should be
// accessed positionally or through its mapping view.
func (m *Metadata) WarnNonIntKey(key any) {
	m.logger.Warn("keyed access on a positional row, use the mapping view",
		zap.String("key", describeKey(key)),
	)
}

// WarnDeprecated reports a call to a deprecated row accessor.
func (m *Metadata) WarnDeprecated(method, alternative string) {
	m.logger.Warn("deprecated row accessor",
		zap.String("method", method),
		zap.String("alternative", alternative),
	)
}

func describeKey(key any) string {
	switch k := key.(type) {
	case *Column:
		return fmt.Sprintf("column %q", k.Name)
	case string:
		return fmt.Sprintf("key %q", k)
	default:
		return fmt.Sprintf("key %v", k)
	}
}
