package config

import (
	"context"
	"database/sql"
	"fmt"
	"path"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal"
	"github.com/turbolytics/rowset/internal/local"
	"github.com/turbolytics/rowset/internal/mongo"
	"github.com/turbolytics/rowset/internal/parquet"
	"github.com/turbolytics/rowset/internal/preserver"
	"github.com/turbolytics/rowset/internal/s3"
	isql "github.com/turbolytics/rowset/internal/sql"
	"github.com/turbolytics/rowset/pkg/result"
	"github.com/turbolytics/rowset/pkg/row"
)

// Style resolves the configured key style name.
func (r Rows) Style() (row.KeyStyle, error) {
	switch r.KeyStyle {
	case "", "objects_but_warn":
		return row.KeyObjectsButWarn, nil
	case "integer_only":
		return row.KeyIntegerOnly, nil
	case "objects_only":
		return row.KeyObjectsOnly, nil
	case "objects_no_warn":
		return row.KeyObjectsNoWarn, nil
	}
	return 0, fmt.Errorf("unknown key style: %q", r.KeyStyle)
}

// Options maps the rows configuration onto result set options.
func (r Rows) Options() ([]result.Option, error) {
	style, err := r.Style()
	if err != nil {
		return nil, err
	}

	var opts []result.Option
	if style != row.DefaultKeyStyle {
		opts = append(opts, result.WithKeyStyle(style))
	}

	if r.Legacy {
		opts = append(opts, result.WithLegacyRows())
	}
	if r.CaseInsensitive {
		opts = append(opts, result.WithCaseInsensitiveNames())
	}

	return opts, nil
}

// ParquetFields maps configured fields onto a parquet schema.
func ParquetFields(fields []ParquetField) parquet.Schema {
	s := make(parquet.Schema, len(fields))
	for i, f := range fields {
		s[i] = parquet.Field{
			Name:           f.Name,
			Type:           f.Type,
			ConvertedType:  f.ConvertedType,
			RepetitionType: f.RepetitionType,
			Scale:          f.Scale,
			Precision:      f.Precision,
		}
	}
	return s
}

// SchemaToConfigFields is the inverse of ParquetFields, used when
// emitting generated schemas as yaml.
func SchemaToConfigFields(s parquet.Schema) []ParquetField {
	fields := make([]ParquetField, len(s))
	for i, f := range s {
		fields[i] = ParquetField{
			Name:           f.Name,
			Type:           f.Type,
			ConvertedType:  f.ConvertedType,
			RepetitionType: f.RepetitionType,
			Scale:          f.Scale,
			Precision:      f.Precision,
		}
	}
	return fields
}

// InitializeSource opens the configured snapshot source and verifies
// connectivity.
func InitializeSource(ctx context.Context, c Source, rows Rows, logger *zap.Logger) (internal.Source, error) {
	switch c.Type {
	case "", "postgres":
		db, err := sql.Open("pgx", c.ConnectionString)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}

		resultOpts, err := rows.Options()
		if err != nil {
			return nil, err
		}

		return isql.NewSource(
			db,
			isql.WithSchema(c.Schema),
			isql.WithTable(c.Table),
			isql.WithQuery(c.Query),
			isql.WithLogger(logger),
			isql.WithResultOptions(resultOpts...),
		), nil

	case "mongodb":
		style, err := rows.Style()
		if err != nil {
			return nil, err
		}
		return mongo.NewSource(
			ctx,
			c.ConnectionString,
			c.Database,
			c.Collection,
			mongo.WithLogger(logger),
			mongo.WithKeyStyle(style),
		)
	}

	return nil, fmt.Errorf("unknown source type: %s", c.Type)
}

// InitializeRepository builds the snapshot artifact sink, prefixed by
// the snapshot id.
func InitializeRepository(c Repository, sid string, logger *zap.Logger) (internal.Repository, error) {
	switch c.Type {
	case "local":
		return local.New(
			c.LocalConfig.Path,
			local.WithPrefix(sid),
			local.WithLogger(logger),
		), nil

	case "s3":
		return s3.New(
			s3.WithLogger(logger),
			s3.WithRegion(c.S3Config.Region),
			s3.WithBucket(c.S3Config.Bucket),
			s3.WithEndpoint(c.S3Config.Endpoint),
			s3.WithPrefix(
				path.Join(
					c.S3Config.Prefix,
					sid,
				),
			),
			s3.WithForcePathStyle(c.S3Config.ForcePathStyle),
		)
	}

	return nil, fmt.Errorf("unknown repository type: %s", c.Type)
}

// InitializePreserver builds the configured row encoder.
func InitializePreserver(c Preserver, repository internal.Repository, logger *zap.Logger) (internal.Preserver, error) {
	switch c.Type {
	case "parquet":
		opts := []parquet.Option{
			parquet.WithLogger(logger),
			parquet.WithSchema(ParquetFields(c.Parquet.Schema)),
			parquet.WithRepository(repository),
		}
		if c.BatchSizeNumRecords > 0 {
			opts = append(opts, parquet.WithBatchSizeNumRecords(c.BatchSizeNumRecords))
		}
		return parquet.New(opts...)

	case "stdout":
		return &preserver.Stdout{}, nil
	}

	return nil, fmt.Errorf("unknown preserver type: %s", c.Type)
}
