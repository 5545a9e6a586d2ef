package row

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Equal(t *testing.T) {
	parent := newTestParent("id", "name")

	t.Run("row to row", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{7, "bob"})
		b := New(parent, nil, parent.KeyIndex(), KeyIntegerOnly, []any{7, "bob"})

		assert.True(t, a.Equal(b), "key style does not participate in equality")
	})

	t.Run("row to plain sequence", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{7, "bob"})

		assert.True(t, a.Equal([]any{7, "bob"}))
		assert.False(t, a.Equal([]any{7, "alice"}))
		assert.False(t, a.Equal([]any{7}))
		assert.False(t, a.Equal("no sequence"))
	})

	t.Run("numeric kinds compare by value", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{int64(7), float64(1)})

		assert.True(t, a.Equal([]any{7, 1.0}))
		assert.True(t, a.Equal([]any{uint8(7), int32(1)}))
	})

	t.Run("nil values", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{nil, "bob"})

		assert.True(t, a.Equal([]any{nil, "bob"}))
		assert.False(t, a.Equal([]any{0, "bob"}))
	})
}

func TestRow_Compare(t *testing.T) {
	parent := newTestParent("a", "b")

	cases := []struct {
		name  string
		row   []any
		other []any
		want  int
	}{
		{"equal", []any{1, "x"}, []any{1, "x"}, 0},
		{"first element decides", []any{1, "z"}, []any{2, "a"}, -1},
		{"later element decides", []any{1, "b"}, []any{1, "a"}, 1},
		{"prefix orders first", []any{1}, []any{1, "a"}, -1},
		{"numeric cross kind", []any{int64(2)}, []any{1.5}, 1},
		{"bytes", []any{[]byte("ab")}, []any{[]byte("ac")}, -1},
		{"bools", []any{false}, []any{true}, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, tc.row)
			got, err := r.Compare(tc.other)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("times compare as instants", func(t *testing.T) {
		utc := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		r := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{utc})

		got, err := r.Compare([]any{utc.In(time.FixedZone("x", 3600))})
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("incomparable pairs report an error", func(t *testing.T) {
		r := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{1})

		_, err := r.Compare([]any{"one"})
		assert.ErrorIs(t, err, ErrIncomparable)

		_, err = r.Compare([]any{nil})
		assert.ErrorIs(t, err, ErrIncomparable)

		_, err = r.Compare(42)
		assert.ErrorIs(t, err, ErrIncomparable)
	})
}

func TestRow_Ordering(t *testing.T) {
	parent := newTestParent("a")
	r := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{5})

	less, err := r.Less([]any{6})
	require.NoError(t, err)
	assert.True(t, less)

	ge, err := r.GreaterEqual([]any{5})
	require.NoError(t, err)
	assert.True(t, ge)

	gt, err := r.Greater([]any{5})
	require.NoError(t, err)
	assert.False(t, gt)
}

func TestRow_Hash(t *testing.T) {
	parent := newTestParent("id", "name")

	t.Run("equal values hash equal", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{7, "bob"})
		b := New(parent, nil, parent.KeyIndex(), KeyIntegerOnly, []any{7, "bob"})

		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("numerically equal kinds hash equal", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{int64(7), 2.0})
		b := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{7, int32(2)})

		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("different values hash differently", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{7, "bob"})
		b := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{7, "alice"})

		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("nil is distinct from zero", func(t *testing.T) {
		a := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{nil, "x"})
		b := New(parent, nil, parent.KeyIndex(), DefaultKeyStyle, []any{0, "x"})

		assert.NotEqual(t, a.Hash(), b.Hash())
	})
}
