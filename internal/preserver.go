package internal

import (
	"context"

	"github.com/turbolytics/rowset/pkg/row"
)

// Preserver encodes rows into a durable artifact. Preserve may buffer;
// Flush forces buffered rows out to the repository. Close flushes and
// releases any encoder state.
type Preserver interface {
	Preserve(ctx context.Context, r *row.Row) error
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}
