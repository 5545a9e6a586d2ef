package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRowsetFromFile(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		rowset, err := NewRowsetFromFile("../../dev/examples/postgres.snapshot.yml")
		assert.NoError(t, err)
		assert.NotNil(t, rowset)

		assert.Equal(t, "postgres-example-1", rowset.Snapshot.Name)
		assert.Equal(t, "public", rowset.Snapshot.Source.Schema)
		assert.Equal(t, "parquet", rowset.Snapshot.Preserver.Type)
		assert.True(t, rowset.Snapshot.Rows.CaseInsensitive)

		require.Len(t, rowset.Snapshot.Preserver.Parquet.Schema, 3)
		assert.Equal(t, "DECIMAL", rowset.Snapshot.Preserver.Parquet.Schema[2].ConvertedType)
		assert.Equal(t, 2, rowset.Snapshot.Preserver.Parquet.Schema[2].Scale)

		assert.Equal(t, ":8080", rowset.Serve.Listen)
		require.Len(t, rowset.Serve.Queries, 1)
		assert.Equal(t, "recent-sales", rowset.Serve.Queries[0].Name)

		assert.Equal(t, "kafka://localhost:9092/property-sales?key_column=serial_number", rowset.Emit.Kafka.URI)
		assert.Equal(t, 100, rowset.Tail.CheckpointEvery)
	})

	t.Run("mongo config", func(t *testing.T) {
		rowset, err := NewRowsetFromFile("../../dev/examples/mongo.snapshot.yml")
		assert.NoError(t, err)

		assert.Equal(t, "mongodb", rowset.Snapshot.Source.Type)
		assert.Equal(t, "shop", rowset.Snapshot.Source.Database)
		assert.Equal(t, "s3", rowset.Snapshot.Repository.Type)
		assert.True(t, rowset.Snapshot.Repository.S3Config.ForcePathStyle)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewRowsetFromFile("nope.yml")
		assert.Error(t, err)
	})
}

func TestRows_Options(t *testing.T) {
	tests := []struct {
		name    string
		rows    Rows
		wantLen int
	}{
		{"default", Rows{}, 0},
		{"objects_but_warn", Rows{KeyStyle: "objects_but_warn"}, 0},
		{"integer_only", Rows{KeyStyle: "integer_only"}, 1},
		{"objects_only", Rows{KeyStyle: "objects_only"}, 1},
		{"objects_no_warn", Rows{KeyStyle: "objects_no_warn"}, 1},
		{"legacy and loose", Rows{Legacy: true, CaseInsensitive: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.rows.Options()
			require.NoError(t, err)
			assert.Len(t, opts, tt.wantLen)
		})
	}

	t.Run("unknown style", func(t *testing.T) {
		_, err := Rows{KeyStyle: "yolo"}.Options()
		assert.Error(t, err)
	})
}

func TestParquetFields_RoundTrip(t *testing.T) {
	fields := []ParquetField{
		{Name: "id", Type: "INT64"},
		{Name: "amount", Type: "INT64", ConvertedType: "DECIMAL", Scale: 2, Precision: 10, RepetitionType: "OPTIONAL"},
	}

	assert.Equal(t, fields, SchemaToConfigFields(ParquetFields(fields)))
}

func TestLogger_Build(t *testing.T) {
	logger, err := Logger{Level: "debug"}.Build()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = Logger{}.Build()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = Logger{Level: "shouty"}.Build()
	assert.Error(t, err)
}
