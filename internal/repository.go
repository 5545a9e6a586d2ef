package internal

import (
	"context"
	"io"
)

// Repository is a sink for snapshot artifacts. Implementations address
// artifacts by a slash separated key relative to their configured root.
type Repository interface {
	Write(ctx context.Context, key string, reader io.Reader) error
	Flush() error
}
