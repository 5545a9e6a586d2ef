package row

// Snapshot is the persistable state of a row: metadata reference, processed
// values, key style and contains mode. The key index is deliberately absent;
// restoring re-links it from the parent, which keeps independently produced
// snapshots interchangeable.
type Snapshot struct {
	Parent   Parent
	Values   []any
	KeyStyle KeyStyle
	Contains ContainsMode
}

// State captures the row for persistence or transport. Values are copied.
func (r *Row) State() Snapshot {
	return Snapshot{
		Parent:   r.parent,
		Values:   r.valuesCopy(),
		KeyStyle: r.keyStyle,
		Contains: r.contains,
	}
}

// Restore rebuilds a row from a snapshot, re-deriving the key index from the
// snapshot's parent. A snapshot without a parent reports ErrDetached.
func Restore(s Snapshot) (*Row, error) {
	if s.Parent == nil {
		return nil, ErrDetached
	}
	values := make([]any, len(s.Values))
	copy(values, s.Values)
	return &Row{
		base: base{
			parent:   s.Parent,
			values:   values,
			keymap:   s.Parent.KeyIndex(),
			keyStyle: s.KeyStyle,
		},
		contains: s.Contains,
	}, nil
}

// KeyStyle returns the style the row resolves non-positional keys with.
func (r *Row) KeyStyle() KeyStyle {
	return r.keyStyle
}

// ContainsMode returns how the row interprets Contains.
func (r *Row) ContainsMode() ContainsMode {
	return r.contains
}

// Parent returns the result metadata the row is bound to.
func (r *Row) Parent() Parent {
	return r.parent
}
