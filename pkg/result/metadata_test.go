package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turbolytics/rowset/pkg/row"
)

func TestNewMetadata_KeyIndex(t *testing.T) {
	id := &Column{Name: "id", Type: "INT8"}
	name := &Column{Name: "name", Type: "TEXT"}
	m := NewMetadata([]*Column{id, name})

	km := m.KeyIndex()
	assert.Equal(t, row.Resolution{Index: 0, Name: "id"}, km[0])
	assert.Equal(t, row.Resolution{Index: 1, Name: "name"}, km[1])
	assert.Equal(t, row.Resolution{Index: 0, Name: "id"}, km["id"])
	assert.Equal(t, row.Resolution{Index: 0, Name: "id"}, km[id])
	assert.Equal(t, row.Resolution{Index: 1, Name: "name"}, km[name])

	assert.Equal(t, []string{"id", "name"}, m.Keys())
}

func TestNewMetadata_DuplicateLabels(t *testing.T) {
	first := &Column{Name: "value"}
	second := &Column{Name: "value"}
	m := NewMetadata([]*Column{first, second})

	rec := m.KeyIndex()["value"]
	assert.True(t, rec.Ambiguous)
	assert.Equal(t, "value", rec.Name)

	assert.Equal(t, 0, m.KeyIndex()[first].Index, "column objects stay unambiguous")
	assert.Equal(t, 1, m.KeyIndex()[second].Index)
	assert.True(t, m.HasKey("value"), "ambiguous labels are still known")
}

func TestNewMetadata_UnnamedColumns(t *testing.T) {
	anon := &Column{Name: ""}
	m := NewMetadata([]*Column{{Name: "id"}, anon})

	assert.False(t, m.HasKey(""))
	assert.True(t, m.HasKey(1))
	assert.True(t, m.HasKey(anon))
	assert.Equal(t, []string{"id", ""}, m.Keys())
}

func TestMetadata_HasKeyNormalizesIntegers(t *testing.T) {
	m := NewMetadata([]*Column{{Name: "id"}})

	assert.True(t, m.HasKey(0))
	assert.True(t, m.HasKey(int64(0)))
	assert.False(t, m.HasKey(1))
}

func TestMetadata_MissingKey(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		m := NewMetadata([]*Column{{Name: "id"}})

		_, err := m.MissingKey("ID")
		assert.ErrorIs(t, err, row.ErrUnknownKey)
	})

	t.Run("case-insensitive resolves a unique match", func(t *testing.T) {
		m := NewMetadata([]*Column{{Name: "id"}, {Name: "Name"}}, MetadataWithCaseInsensitive())

		rec, err := m.MissingKey("NAME")
		require.NoError(t, err)
		assert.Equal(t, 1, rec.Index)
	})

	t.Run("case-insensitive collision stays ambiguous", func(t *testing.T) {
		m := NewMetadata([]*Column{{Name: "Name"}, {Name: "NAME"}}, MetadataWithCaseInsensitive())

		rec, err := m.MissingKey("name")
		require.NoError(t, err)
		assert.True(t, rec.Ambiguous)
	})

	t.Run("case-insensitive miss still errors", func(t *testing.T) {
		m := NewMetadata([]*Column{{Name: "id"}}, MetadataWithCaseInsensitive())

		_, err := m.MissingKey("missing")
		assert.ErrorIs(t, err, row.ErrUnknownKey)
	})
}

func TestMetadata_ErrorBuilders(t *testing.T) {
	m := NewMetadata([]*Column{{Name: "id"}})

	assert.ErrorIs(t, m.AmbiguousColumn("id"), row.ErrAmbiguousName)
	assert.ErrorIs(t, m.RejectNonIntKey("id"), row.ErrKeyRejected)
}

func TestMetadata_WarnSink(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewMetadata(
		[]*Column{{Name: "id"}, {Name: "name"}},
		MetadataWithLogger(zap.New(core)),
	)

	r := row.New(m, nil, m.KeyIndex(), row.KeyObjectsButWarn, []any{7, "bob"})

	v, err := r.Key("name")
	require.NoError(t, err)
	assert.Equal(t, "bob", v)
	require.Equal(t, 1, logs.Len(), "keyed access warns without interrupting")
	assert.Contains(t, logs.All()[0].Message, "mapping view")

	r.Keys()
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "deprecated row accessor", logs.All()[1].Message)
}

func TestMetadata_RowsResolveByColumnObject(t *testing.T) {
	id := &Column{Name: "id"}
	name := &Column{Name: "name"}
	m := NewMetadata([]*Column{id, name})

	r := row.New(m, nil, m.KeyIndex(), row.KeyObjectsNoWarn, []any{7, "bob"})

	v, err := r.Key(name)
	require.NoError(t, err)
	assert.Equal(t, "bob", v)
}

func TestMetadata_CaseInsensitiveEndToEnd(t *testing.T) {
	m := NewMetadata([]*Column{{Name: "id"}, {Name: "name"}}, MetadataWithCaseInsensitive())
	r := row.New(m, nil, m.KeyIndex(), row.KeyObjectsNoWarn, []any{7, "bob"})

	v, err := r.Key("NAME")
	require.NoError(t, err)
	assert.Equal(t, "bob", v)

	v, err = r.Mapping().Get("Id")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
