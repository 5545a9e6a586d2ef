package row

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRestore_RoundTrip(t *testing.T) {
	parent := newTestParent("id", "name")
	r := New(parent, nil, parent.KeyIndex(), KeyObjectsNoWarn, []any{7, "bob"})

	restored, err := Restore(r.State())
	require.NoError(t, err)

	assert.True(t, restored.Equal(r))
	assert.Equal(t, r.Hash(), restored.Hash())
	assert.Equal(t, r.KeyStyle(), restored.KeyStyle())
	assert.Equal(t, r.ContainsMode(), restored.ContainsMode())

	v, err := restored.Key("name")
	require.NoError(t, err)
	assert.Equal(t, "bob", v, "key index is re-linked from the parent")
}

func TestStateRestore_LegacyRow(t *testing.T) {
	parent := newTestParent("id", "name")
	r := NewLegacy(parent, nil, parent.KeyIndex(), LegacyDefaultKeyStyle, []any{7, "bob"})

	restored, err := Restore(r.State())
	require.NoError(t, err)

	assert.Equal(t, ContainsKey, restored.ContainsMode())
	assert.True(t, restored.Contains("id"))
}

func TestState_ExcludesKeyIndex(t *testing.T) {
	parent := newTestParent("id")
	r := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{1})

	s := r.State()
	assert.Same(t, parent, s.Parent)
	assert.Equal(t, []any{1}, s.Values)
	assert.Equal(t, DefaultKeyStyle, s.KeyStyle)
}

func TestState_CopiesValues(t *testing.T) {
	parent := newTestParent("id")
	r := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{1})

	s := r.State()
	s.Values[0] = 99

	v, err := r.Index(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestRestore_DetachedSnapshot(t *testing.T) {
	_, err := Restore(Snapshot{Values: []any{1}})
	assert.ErrorIs(t, err, ErrDetached)
}
