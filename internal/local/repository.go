package local

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type Option func(*Repository)

func WithPrefix(prefix string) Option {
	return func(r *Repository) {
		r.prefix = prefix
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// Repository stores snapshot artifacts on the local filesystem under
// basePath/prefix.
type Repository struct {
	basePath string
	prefix   string
	logger   *zap.Logger
}

func New(basePath string, opts ...Option) *Repository {
	r := &Repository{
		basePath: basePath,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Write(ctx context.Context, key string, reader io.Reader) error {
	fullPath := filepath.Join(
		r.basePath,
		r.prefix,
		key,
	)
	r.logger.Info("writing file", zap.String("path", fullPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return err
	}

	return file.Sync()
}

// Flush is a noop, Write persists each artifact synchronously.
func (r *Repository) Flush() error {
	return nil
}
