package sql

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal"
	"github.com/turbolytics/rowset/pkg/result"
	"github.com/turbolytics/rowset/pkg/row"
)

type Source struct {
	db     *sql.DB
	logger *zap.Logger

	schema string
	table  string
	query  string

	resultOpts []result.Option
}

type SourceOption func(*Source)

func WithSchema(schema string) SourceOption {
	return func(s *Source) {
		s.schema = schema
	}
}

func WithTable(table string) SourceOption {
	return func(s *Source) {
		s.table = table
	}
}

func WithQuery(query string) SourceOption {
	return func(s *Source) {
		s.query = query
	}
}

func WithLogger(l *zap.Logger) SourceOption {
	return func(s *Source) {
		s.logger = l
	}
}

// WithResultOptions forwards options onto every result set this source
// opens, controlling key style, legacy rows and value processors.
func WithResultOptions(opts ...result.Option) SourceOption {
	return func(s *Source) {
		s.resultOpts = opts
	}
}

func NewSource(db *sql.DB, opts ...SourceOption) *Source {
	s := Source{
		db:     db,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	if s.query == "" {
		s.query = fmt.Sprintf("SELECT * FROM %s.%s", s.schema, s.table)
	}

	return &s
}

func (s *Source) Name() string {
	return fmt.Sprintf("%s.%s", s.schema, s.table)
}

// Count returns the expected count of records in the snapshot
// TODO this should be executed in the same transaction that the
// actual snapshot is executed in for correctness.
func (s *Source) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM (%s) AS snapshot`, s.query)
	var c int
	err := s.db.QueryRowContext(ctx, query).Scan(&c)
	return c, err
}

func (s *Source) Snapshot(ctx context.Context) (internal.Snapshot, error) {
	opts := append([]result.Option{
		result.WithLogger(s.logger),
		result.WithTypeProcessors(result.DefaultTypeProcessors),
	}, s.resultOpts...)
	rows, err := result.Query(ctx, s.db, s.query, nil, opts...)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		rows:  rows,
		query: s.query,
	}, nil
}

func (s *Source) Close(ctx context.Context) error {
	return s.db.Close()
}

// Snapshot streams the rows of a single snapshot query.
type Snapshot struct {
	rows  *result.Rows
	query string
}

func (s *Snapshot) Columns() []string {
	return s.rows.Metadata().Keys()
}

func (s *Snapshot) Query() string {
	return s.query
}

func (s *Snapshot) Next(ctx context.Context) (*row.Row, error) {
	return s.rows.Next()
}

func (s *Snapshot) Close(ctx context.Context) error {
	return s.rows.Close()
}
