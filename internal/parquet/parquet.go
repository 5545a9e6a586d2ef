package parquet

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal"
	"github.com/turbolytics/rowset/pkg/row"
)

const DefaultBatchSizeNumRecords = 10000

type Option func(*Preserver)

func WithLogger(l *zap.Logger) Option {
	return func(p *Preserver) {
		p.logger = l
	}
}

func WithSchema(s Schema) Option {
	return func(p *Preserver) {
		p.schema = s
	}
}

func WithRepository(r internal.Repository) Option {
	return func(p *Preserver) {
		p.repository = r
	}
}

func WithBatchSizeNumRecords(n int) Option {
	return func(p *Preserver) {
		p.batchSizeNumRecords = n
	}
}

// Preserver encodes rows into parquet part files. Rows buffer in memory
// until a batch fills, then the batch is encoded and written to the
// repository as a single part.
type Preserver struct {
	schema     Schema
	repository internal.Repository
	logger     *zap.Logger

	batchSizeNumRecords int

	batch [][]any
	part  int
}

func New(opts ...Option) (*Preserver, error) {
	p := &Preserver{
		logger:              zap.NewNop(),
		batchSizeNumRecords: DefaultBatchSizeNumRecords,
	}

	for _, opt := range opts {
		opt(p)
	}

	if len(p.schema) == 0 {
		return nil, fmt.Errorf("schema is required")
	}
	if p.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return p, nil
}

func (p *Preserver) Preserve(ctx context.Context, r *row.Row) error {
	values, err := p.schema.RowToParquetValues(r)
	if err != nil {
		return err
	}

	p.batch = append(p.batch, values)
	if len(p.batch) >= p.batchSizeNumRecords {
		return p.Flush(ctx)
	}
	return nil
}

// Flush encodes the buffered rows into a parquet part file and writes it
// to the repository. Flushing an empty buffer is a noop.
func (p *Preserver) Flush(ctx context.Context) error {
	if len(p.batch) == 0 {
		return nil
	}

	bf := buffer.NewBufferFile()
	pw, err := writer.NewCSVWriter(p.schema.ToGoParquetSchema(), bf, 1)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for _, values := range p.batch {
		if err := pw.Write(values); err != nil {
			return fmt.Errorf("failed to write parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	key := fmt.Sprintf("part-%05d.parquet", p.part)
	if err := p.repository.Write(ctx, key, bytes.NewReader(bf.Bytes())); err != nil {
		return err
	}

	p.logger.Debug("parquet part written",
		zap.String("key", key),
		zap.Int("num_records", len(p.batch)),
	)

	p.part++
	p.batch = p.batch[:0]
	return nil
}

// Close flushes any remaining buffered rows.
func (p *Preserver) Close(ctx context.Context) error {
	return p.Flush(ctx)
}
