package cdc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource replays a fixed set of changes, then cancels the run.
type fakeSource struct {
	changes []Change
	cancel  context.CancelFunc

	connectedWith *Checkpoint
	persisted     []*Checkpoint
	disconnected  bool
}

func (f *fakeSource) Connect(ctx context.Context, checkpoint *Checkpoint) error {
	f.connectedWith = checkpoint
	return nil
}

func (f *fakeSource) Next(ctx context.Context) (Change, error) {
	if len(f.changes) == 0 {
		f.cancel()
		return Change{}, ErrNoChanges
	}
	change := f.changes[0]
	f.changes = f.changes[1:]
	return change, nil
}

func (f *fakeSource) MarkPersisted(ctx context.Context, checkpoint *Checkpoint) error {
	f.persisted = append(f.persisted, checkpoint)
	return nil
}

func (f *fakeSource) Disconnect(ctx context.Context) error {
	f.disconnected = true
	return nil
}

type memCheckpointer struct {
	saved []*Checkpoint
	last  *Checkpoint
}

func (m *memCheckpointer) Load(ctx context.Context, tailerID string) (*Checkpoint, error) {
	return m.last, nil
}

func (m *memCheckpointer) Save(ctx context.Context, checkpoint *Checkpoint) error {
	m.saved = append(m.saved, checkpoint)
	return nil
}

func (m *memCheckpointer) Delete(ctx context.Context, tailerID string) error {
	return nil
}

func TestTailer_HandlesAndCheckpoints(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{
		changes: []Change{
			{Op: OpInsert, Table: "orders", Position: "0/1"},
			{Op: OpUpdate, Table: "orders", Position: "0/2"},
			{Op: OpDelete, Table: "orders", Position: "0/3"},
		},
		cancel: cancel,
	}
	checkpointer := &memCheckpointer{}

	var handled []Change
	tailer := NewTailer("orders", source,
		func(ctx context.Context, change Change) error {
			handled = append(handled, change)
			return nil
		},
		WithCheckpointer(checkpointer),
		WithCheckpointEvery(2),
	)

	err := tailer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, handled, 3)
	assert.Equal(t, OpInsert, handled[0].Op)
	assert.Equal(t, OpDelete, handled[2].Op)

	// one checkpoint after the second change, mirrored to the source
	require.Len(t, checkpointer.saved, 1)
	assert.Equal(t, []byte("0/2"), checkpointer.saved[0].Position)
	assert.Equal(t, "orders", checkpointer.saved[0].TailerID)
	require.Len(t, source.persisted, 1)

	assert.True(t, source.disconnected)
}

func TestTailer_ResumesFromCheckpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	last := &Checkpoint{TailerID: "orders", Position: []byte("0/AA")}
	source := &fakeSource{cancel: cancel}
	tailer := NewTailer("orders", source,
		func(ctx context.Context, change Change) error { return nil },
		WithCheckpointer(&memCheckpointer{last: last}),
	)

	err := tailer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, last, source.connectedWith)
}

func TestTailer_HandlerErrorStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{
		changes: []Change{{Op: OpInsert, Position: "0/1"}},
		cancel:  cancel,
	}

	boom := errors.New("boom")
	tailer := NewTailer("orders", source,
		func(ctx context.Context, change Change) error { return boom },
	)

	err := tailer.Run(ctx)
	assert.ErrorIs(t, err, boom)
	assert.True(t, source.disconnected)
}
