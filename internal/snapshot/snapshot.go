package snapshot

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal"
	"github.com/turbolytics/rowset/internal/catalog"
)

type Option func(*Snapshotter)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Snapshotter) {
		s.logger = logger
	}
}

func WithSource(source internal.Source) Option {
	return func(s *Snapshotter) {
		s.source = source
	}
}

func WithPreserver(preserver internal.Preserver) Option {
	return func(s *Snapshotter) {
		s.preserver = preserver
	}
}

func WithRepository(repository internal.Repository) Option {
	return func(s *Snapshotter) {
		s.repository = repository
	}
}

// Snapshotter copies every row of a source through a preserver into a
// repository and records the outcome in a catalog.
type Snapshotter struct {
	logger     *zap.Logger
	source     internal.Source
	preserver  internal.Preserver
	repository internal.Repository
}

func New(opts ...Option) *Snapshotter {
	s := &Snapshotter{
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Snapshotter) Close(ctx context.Context) error {
	return s.source.Close(ctx)
}

// Run executes one snapshot and writes its catalog. The catalog is
// written even when the copy fails part way, with Success false, so a
// partial snapshot is auditable.
func (s *Snapshotter) Run(ctx context.Context, id string) (*catalog.Catalog, error) {
	log := &catalog.Catalog{
		SnapshotID: id,
		StartTime:  time.Now().UTC(),
		Source:     s.source.Name(),
	}

	count, err := s.source.Count(ctx)
	if err != nil {
		return nil, err
	}
	log.NumSourceRecords = count

	s.logger.Info("snapshot starting",
		zap.String("snapshot_id", id),
		zap.String("source", log.Source),
		zap.Int("num_source_records", count),
	)

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer snapshot.Close(ctx)

	log.Query = snapshot.Query()

	copyErr := s.copy(ctx, snapshot, log)

	log.EndTime = time.Now().UTC()
	log.Success = copyErr == nil

	if err := log.Write(ctx, s.repository); err != nil {
		return nil, err
	}
	if copyErr != nil {
		return log, copyErr
	}

	if err := s.repository.Flush(); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot complete",
		zap.String("snapshot_id", id),
		zap.Int("num_records_processed", log.NumRecordsProcessed),
		zap.Duration("duration", log.EndTime.Sub(log.StartTime)),
	)

	return log, nil
}

func (s *Snapshotter) copy(ctx context.Context, snapshot internal.Snapshot, log *catalog.Catalog) error {
	for {
		r, err := snapshot.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if err := s.preserver.Preserve(ctx, r); err != nil {
			return err
		}
		log.NumRecordsProcessed++
	}

	return s.preserver.Close(ctx)
}
