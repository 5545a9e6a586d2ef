package cdc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ChangeSource is the stream a tailer drains.
type ChangeSource interface {
	Connect(ctx context.Context, checkpoint *Checkpoint) error
	Next(ctx context.Context) (Change, error)
	MarkPersisted(ctx context.Context, checkpoint *Checkpoint) error
	Disconnect(ctx context.Context) error
}

// Handler consumes one change. Returning an error stops the tailer.
type Handler func(ctx context.Context, change Change) error

type TailerOption func(*Tailer)

func WithLogger(l *zap.Logger) TailerOption {
	return func(t *Tailer) {
		t.logger = l
	}
}

func WithCheckpointer(c Checkpointer) TailerOption {
	return func(t *Tailer) {
		t.checkpointer = c
	}
}

// WithCheckpointEvery saves a checkpoint after every n handled changes.
func WithCheckpointEvery(n int) TailerOption {
	return func(t *Tailer) {
		t.checkpointEvery = n
	}
}

// Tailer drains a change source into a handler, checkpointing as it
// goes. Delivery is at-least-once: a crash between handling and
// checkpointing replays changes on the next run.
type Tailer struct {
	id           string
	source       ChangeSource
	handler      Handler
	checkpointer Checkpointer
	logger       *zap.Logger

	checkpointEvery int
	handled         int
}

func NewTailer(id string, source ChangeSource, handler Handler, opts ...TailerOption) *Tailer {
	t := &Tailer{
		id:              id,
		source:          source,
		handler:         handler,
		checkpointer:    &NoopCheckpointer{},
		logger:          zap.NewNop(),
		checkpointEvery: 100,
	}

	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tailer) Run(ctx context.Context) error {
	checkpoint, err := t.checkpointer.Load(ctx, t.id)
	if err != nil {
		return err
	}

	if err := t.source.Connect(ctx, checkpoint); err != nil {
		return err
	}
	defer t.source.Disconnect(context.Background())

	t.logger.Info("tailer running", zap.String("tailer_id", t.id))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		change, err := t.source.Next(ctx)
		if errors.Is(err, ErrNoChanges) {
			continue
		}
		if err != nil {
			return err
		}

		if err := t.handler(ctx, change); err != nil {
			return err
		}

		t.handled++
		if t.checkpointEvery > 0 && t.handled%t.checkpointEvery == 0 {
			if err := t.saveCheckpoint(ctx, change.Position); err != nil {
				return err
			}
		}
	}
}

func (t *Tailer) saveCheckpoint(ctx context.Context, position string) error {
	checkpoint := &Checkpoint{
		TailerID:  t.id,
		Position:  []byte(position),
		Timestamp: time.Now(),
	}

	if err := t.checkpointer.Save(ctx, checkpoint); err != nil {
		return err
	}

	return t.source.MarkPersisted(ctx, checkpoint)
}
