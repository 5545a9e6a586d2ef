// Package row implements the immutable result row shared by every fetch path
// in this module. A row is a fixed sequence of processed values bound to the
// metadata of the result set that produced it. The same data is readable
// three ways: positionally like a tuple, by name through a mapping view, and
// through a migration-era hybrid that accepts both at once, with a key style
// deciding how strictly non-positional keys are treated.
package row

import (
	"fmt"
	"strings"
)

type base struct {
	parent   Parent
	values   []any
	keymap   KeyIndex
	keyStyle KeyStyle
}

// Row is an immutable, ordered view over one fetched row. Values are fixed at
// construction; every accessor that can fail returns an error instead of
// panicking.
type Row struct {
	base
	contains ContainsMode
}

// New builds a row from raw fetched values. Processors are applied
// positionally, exactly once; nil entries leave the value untouched. The
// keymap must be the parent's key index; passing anything else is a caller
// bug. Raw values are copied, never retained.
func New(parent Parent, processors []Processor, keymap KeyIndex, style KeyStyle, raw []any) *Row {
	return &Row{
		base: base{
			parent:   parent,
			values:   process(processors, raw),
			keymap:   keymap,
			keyStyle: style,
		},
		contains: ContainsValue,
	}
}

// NewLegacy builds a row whose Contains tests key presence instead of value
// membership, preserving the dictionary reading of `in` checks that predate
// the mapping view.
func NewLegacy(parent Parent, processors []Processor, keymap KeyIndex, style KeyStyle, raw []any) *Row {
	r := New(parent, processors, keymap, style, raw)
	r.contains = ContainsKey
	return r
}

func process(processors []Processor, raw []any) []any {
	values := make([]any, len(raw))
	copy(values, raw)
	for i, p := range processors {
		if p == nil || i >= len(values) {
			continue
		}
		values[i] = p(values[i])
	}
	return values
}

// Derive produces a new row sharing this row's metadata, key index and key
// style, with a replacement value sequence run through the given processors.
// A nil values slice re-processes the current values.
func (r *Row) Derive(values []any, processors []Processor) *Row {
	if values == nil {
		values = r.values
	}
	return &Row{
		base: base{
			parent:   r.parent,
			values:   process(processors, values),
			keymap:   r.keymap,
			keyStyle: r.keyStyle,
		},
		contains: r.contains,
	}
}

// Len returns the number of values in the row.
func (b *base) Len() int {
	return len(b.values)
}

func (b *base) at(i int) (any, error) {
	if i < 0 || i >= len(b.values) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(b.values))
	}
	return b.values[i], nil
}

func (b *base) valuesCopy() []any {
	out := make([]any, len(b.values))
	copy(out, b.values)
	return out
}

// lookup resolves a key through the shared index, falling back to the parent
// for misses and delegating ambiguous entries to it. Integer kinds are
// canonicalized so an int64 finds the index entry stored under int.
func (b *base) lookup(key any) (Resolution, error) {
	key = NormalizeKey(key)
	rec, ok := b.keymap[key]
	if !ok {
		var err error
		if rec, err = b.parent.MissingKey(key); err != nil {
			return Resolution{}, err
		}
	}
	if rec.Ambiguous {
		return Resolution{}, b.parent.AmbiguousColumn(rec.Name)
	}
	return rec, nil
}

// getByKeyMapping is the strict resolution used by mapping views and named
// field access: integer keys are rejected under KeyObjectsOnly after the
// ambiguity check, matching the resolution order of keyed sequence access.
func (b *base) getByKeyMapping(key any) (any, error) {
	rec, err := b.lookup(key)
	if err != nil {
		return nil, err
	}
	if b.keyStyle == KeyObjectsOnly {
		if _, isInt := asInt(key); isInt {
			return nil, fmt.Errorf("%w: integer key %v in mapping access", ErrKeyRejected, key)
		}
	}
	return b.at(rec.Index)
}

// Index returns the value at position i.
func (r *Row) Index(i int) (any, error) {
	return r.at(i)
}

// Slice returns a copy of the values in [start, stop). Bounds are clamped to
// the row; an empty or inverted range yields an empty slice.
func (r *Row) Slice(start, stop int) []any {
	if start < 0 {
		start = 0
	}
	if stop > len(r.values) {
		stop = len(r.values)
	}
	if start >= stop {
		return []any{}
	}
	out := make([]any, stop-start)
	copy(out, r.values[start:stop])
	return out
}

// Key resolves a non-positional key against the result metadata and returns
// the value at the resolved position. Integer keys are honored positionally
// regardless of key style. Under KeyIntegerOnly every other key is rejected;
// under KeyObjectsButWarn every key that is not already the resolved position
// warns through the metadata before resolving.
func (r *Row) Key(key any) (any, error) {
	if i, ok := asInt(key); ok {
		return r.at(i)
	}
	if r.keyStyle == KeyIntegerOnly {
		return nil, r.parent.RejectNonIntKey(key)
	}
	rec, err := r.lookup(key)
	if err != nil {
		return nil, err
	}
	if r.keyStyle == KeyObjectsButWarn {
		if i, isInt := asInt(key); !isInt || i != rec.Index {
			r.parent.WarnNonIntKey(key)
		}
	}
	return r.at(rec.Index)
}

// Get is the combined accessor kept for call sites migrating off dual-mode
// indexing. It dispatches on the key's runtime type: integers go positional,
// a Range slices, anything else resolves through Key.
func (r *Row) Get(key any) (any, error) {
	if rg, ok := key.(Range); ok {
		return r.Slice(rg.Start, rg.Stop), nil
	}
	return r.Key(key)
}

// Field returns the value of the named column. Reserved sequence method names
// are ordinary labels here: Field("count") reads a column named count, while
// Count remains the sequence operation.
func (r *Row) Field(name string) (any, error) {
	return r.getByKeyMapping(name)
}

// Values returns a copy of the row's values in positional order.
func (r *Row) Values() []any {
	return r.valuesCopy()
}

// Contains reports membership according to the row's contains mode: value
// membership for ContainsValue, key presence for ContainsKey. The key reading
// warns through the metadata on every use.
func (r *Row) Contains(v any) bool {
	if r.contains == ContainsKey {
		r.parent.WarnDeprecated("Contains", "Mapping().Has")
		return r.parent.HasKey(v)
	}
	for _, val := range r.values {
		if equalValues(val, v) {
			return true
		}
	}
	return false
}

// Count returns how many values in the row equal value.
func (r *Row) Count(value any) int {
	n := 0
	for _, v := range r.values {
		if equalValues(v, value) {
			n++
		}
	}
	return n
}

// IndexOf returns the position of the first value equal to value.
func (r *Row) IndexOf(value any) (int, bool) {
	for i, v := range r.values {
		if equalValues(v, value) {
			return i, true
		}
	}
	return 0, false
}

// Fields returns the column labels in positional order, dropping columns
// without a usable label.
func (r *Row) Fields() []string {
	keys := r.parent.Keys()
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			fields = append(fields, k)
		}
	}
	return fields
}

// Mapping returns the name-keyed view of the row. The view shares the row's
// values and metadata and always resolves with KeyObjectsOnly.
func (r *Row) Mapping() *Mapping {
	m := &Mapping{base: r.base}
	m.keyStyle = KeyObjectsOnly
	return m
}

// AsMap materializes the mapping view. Rows with duplicate labels cannot be
// materialized and report ErrAmbiguousName.
func (r *Row) AsMap() (map[string]any, error) {
	return r.Mapping().AsMap()
}

// Replace is not supported on rows; fields cannot be rewritten.
func (r *Row) Replace(map[string]any) (*Row, error) {
	return nil, fmt.Errorf("%w: Replace", ErrUnsupported)
}

// FieldDefaults is not supported on rows.
func (r *Row) FieldDefaults() (map[string]any, error) {
	return nil, fmt.Errorf("%w: FieldDefaults", ErrUnsupported)
}

// Keys returns the raw column labels, empty entries included.
//
// Deprecated: use Mapping().Keys.
func (r *Row) Keys() []string {
	r.parent.WarnDeprecated("Keys", "Mapping().Keys")
	return append([]string(nil), r.parent.Keys()...)
}

// Items returns label/value pairs in positional order.
//
// Deprecated: use Mapping().Items.
func (r *Row) Items() ([]KeyValue, error) {
	r.parent.WarnDeprecated("Items", "Mapping().Items")
	return r.Mapping().items()
}

// HasKey reports whether the result metadata knows the key.
//
// Deprecated: use Mapping().Has.
func (r *Row) HasKey(key any) bool {
	r.parent.WarnDeprecated("HasKey", "Mapping().Has")
	return r.parent.HasKey(key)
}

func (r *Row) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range r.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeDisplayValue(&sb, v)
	}
	sb.WriteByte(')')
	return sb.String()
}

func writeDisplayValue(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("<nil>")
	case string:
		fmt.Fprintf(sb, "%q", t)
	default:
		fmt.Fprintf(sb, "%v", t)
	}
}

// NormalizeKey canonicalizes integer key kinds to int so key index entries
// are found regardless of the integer kind a caller indexes with. Parent
// implementations should apply it before consulting their own tables.
func NormalizeKey(key any) any {
	if i, ok := asInt(key); ok {
		return i
	}
	return key
}

// asInt reports whether key is one of the integer kinds a caller might index
// with, normalized to int.
func asInt(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int8:
		return int(k), true
	case int16:
		return int(k), true
	case int32:
		return int(k), true
	case int64:
		return int(k), true
	case uint:
		return int(k), true
	case uint8:
		return int(k), true
	case uint16:
		return int(k), true
	case uint32:
		return int(k), true
	case uint64:
		return int(k), true
	}
	return 0, false
}
