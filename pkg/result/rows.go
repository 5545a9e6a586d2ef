package result

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/pkg/row"
)

// Rows streams processed rows out of an executed query. Every row of one Rows
// shares a single Metadata, so key resolution, ambiguity and warnings agree
// across the whole set.
type Rows struct {
	id        uuid.UUID
	rows      *sql.Rows
	meta      *Metadata
	procs     []row.Processor
	typeProcs Processors
	style     row.KeyStyle
	legacy    bool
	loose     bool
	logger    *zap.Logger
}

type Option func(*Rows)

// WithLogger sets the logger; it is also the sink row deprecation warnings
// report through.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Rows) {
		r.logger = logger
	}
}

// WithKeyStyle overrides the key style rows are built with.
func WithKeyStyle(style row.KeyStyle) Option {
	return func(r *Rows) {
		r.style = style
	}
}

// WithLegacyRows builds rows whose Contains tests key presence, with the
// legacy default key style.
func WithLegacyRows() Option {
	return func(r *Rows) {
		r.legacy = true
		r.style = row.LegacyDefaultKeyStyle
	}
}

// WithProcessors sets the positional value processors applied to every row.
func WithProcessors(procs []row.Processor) Option {
	return func(r *Rows) {
		r.procs = procs
	}
}

// WithTypeProcessors derives positional processors from column type names
// once the result metadata is known.
func WithTypeProcessors(p Processors) Option {
	return func(r *Rows) {
		r.typeProcs = p
	}
}

// WithCaseInsensitiveNames enables case-folded fallback resolution on the
// result metadata.
func WithCaseInsensitiveNames() Option {
	return func(r *Rows) {
		r.loose = true
	}
}

// New wraps an executed *sql.Rows. The column list and types are read once to
// build the shared metadata; rows are produced by Next.
func New(rows *sql.Rows, opts ...Option) (*Rows, error) {
	r := &Rows{
		id:     uuid.Must(uuid.NewUUID()),
		rows:   rows,
		style:  row.DefaultKeyStyle,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading result column types: %w", err)
	}

	columns := make([]*Column, len(names))
	for i, name := range names {
		columns[i] = &Column{Name: name}
		if i < len(types) {
			columns[i].Type = types[i].DatabaseTypeName()
		}
	}

	mopts := []MetadataOption{MetadataWithLogger(r.logger)}
	if r.loose {
		mopts = append(mopts, MetadataWithCaseInsensitive())
	}
	r.meta = NewMetadata(columns, mopts...)

	if r.procs == nil && r.typeProcs != nil {
		r.procs = r.typeProcs.For(r.meta)
	}

	r.logger.Debug("result set opened",
		zap.String("id", r.id.String()),
		zap.Int("columns", len(columns)),
		zap.String("key.style", r.style.String()),
	)
	return r, nil
}

// Query executes the statement and wraps its result set.
func Query(ctx context.Context, db *sql.DB, query string, args []any, opts ...Option) (*Rows, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return New(rows, opts...)
}

// Next returns the next row, or io.EOF when the set is exhausted.
func (r *Rows) Next() (*row.Row, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, fmt.Errorf("advancing result set: %w", err)
		}
		return nil, io.EOF
	}

	values := make([]any, len(r.meta.Columns()))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	if r.legacy {
		return row.NewLegacy(r.meta, r.procs, r.meta.KeyIndex(), r.style, values), nil
	}
	return row.New(r.meta, r.procs, r.meta.KeyIndex(), r.style, values), nil
}

// All drains the result set and closes it.
func (r *Rows) All() ([]*row.Row, error) {
	defer r.rows.Close()

	var out []*row.Row
	for {
		rw, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
}

// Metadata returns the shared result metadata.
func (r *Rows) Metadata() *Metadata {
	return r.meta
}

// ID identifies the result set in logs.
func (r *Rows) ID() uuid.UUID {
	return r.id
}

// Close releases the underlying result set.
func (r *Rows) Close() error {
	return r.rows.Close()
}

// Err returns the error, if any, encountered while iterating.
func (r *Rows) Err() error {
	return r.rows.Err()
}
