package internal

import (
	"context"

	"github.com/turbolytics/rowset/pkg/row"
)

// Snapshot is a forward-only cursor over a consistent view of a source
// collection. Next returns io.EOF once the cursor is exhausted.
type Snapshot interface {
	Columns() []string
	Query() string
	Next(ctx context.Context) (*row.Row, error)
	Close(ctx context.Context) error
}

// Source produces snapshots of an external collection of records.
type Source interface {
	Name() string
	Count(ctx context.Context) (int, error)
	Snapshot(ctx context.Context) (Snapshot, error)
	Close(ctx context.Context) error
}
