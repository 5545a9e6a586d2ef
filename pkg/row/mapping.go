package row

import (
	"fmt"
	"strings"
)

// KeyValue is one label/value pair of a mapping view.
type KeyValue struct {
	Key   string
	Value any
}

// Mapping is the name-keyed view of a row. It shares the row's values and
// metadata; only the resolution rules differ. Integer keys are rejected, and
// length counts values, not labels, so a row with unlabeled columns is longer
// than its label set.
type Mapping struct {
	base
}

// Get returns the value for a label or column object key. Integer keys report
// ErrKeyRejected, unresolvable keys ErrUnknownKey, duplicated labels
// ErrAmbiguousName.
func (m *Mapping) Get(key any) (any, error) {
	return m.getByKeyMapping(key)
}

// Has reports whether the result metadata knows the key.
func (m *Mapping) Has(key any) bool {
	return m.parent.HasKey(key)
}

// Keys returns the usable column labels in positional order.
func (m *Mapping) Keys() []string {
	keys := m.parent.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Values returns a read-only view over every value of the row, unlabeled
// columns included.
func (m *Mapping) Values() View {
	return View{items: m.valuesCopy()}
}

// Items returns a read-only view of label/value pairs in positional order.
// A row with duplicated labels cannot enumerate pairs and reports
// ErrAmbiguousName.
func (m *Mapping) Items() (View, error) {
	pairs, err := m.items()
	if err != nil {
		return View{}, err
	}
	items := make([]any, len(pairs))
	for i, p := range pairs {
		items[i] = p
	}
	return View{items: items}, nil
}

func (m *Mapping) items() ([]KeyValue, error) {
	keys := m.Keys()
	pairs := make([]KeyValue, 0, len(keys))
	for _, k := range keys {
		v, err := m.getByKeyMapping(k)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, KeyValue{Key: k, Value: v})
	}
	return pairs, nil
}

// AsMap materializes the view into a plain map.
func (m *Mapping) AsMap() (map[string]any, error) {
	pairs, err := m.items()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		out[p.Key] = p.Value
	}
	return out, nil
}

func (m *Mapping) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: ", k)
		v, err := m.getByKeyMapping(k)
		if err != nil {
			sb.WriteString("<ambiguous>")
			continue
		}
		writeDisplayValue(&sb, v)
	}
	sb.WriteByte('}')
	return sb.String()
}

// View is a materialized, read-only collection over a mapping's items or
// values. Views compare by ordered list equality, never by mapping equality.
type View struct {
	items []any
}

// Len returns the number of items in the view.
func (v View) Len() int {
	return len(v.items)
}

// Items returns a copy of the view's items in order.
func (v View) Items() []any {
	out := make([]any, len(v.items))
	copy(out, v.items)
	return out
}

// Contains reports whether the view holds an item equal to item.
func (v View) Contains(item any) bool {
	for _, it := range v.items {
		if equalValues(it, item) {
			return true
		}
	}
	return false
}

// Equal compares the view to another View or a plain slice, element by
// element in order.
func (v View) Equal(other any) bool {
	var items []any
	switch o := other.(type) {
	case View:
		items = o.items
	case []any:
		items = o
	default:
		return false
	}
	if len(items) != len(v.items) {
		return false
	}
	for i, it := range v.items {
		if !equalValues(it, items[i]) {
			return false
		}
	}
	return true
}

func (v View) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, it := range v.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeDisplayValue(&sb, it)
	}
	sb.WriteByte(']')
	return sb.String()
}
