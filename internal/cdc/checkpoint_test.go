package cdc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFilesystemCheckpointer_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cp := NewFilesystemCheckpointer(dir, zap.NewNop())
	ctx := context.Background()

	saved := &Checkpoint{
		TailerID:  "orders",
		Position:  []byte("0/16B3748"),
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, cp.Save(ctx, saved))

	loaded, err := cp.Load(ctx, "orders")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, saved.TailerID, loaded.TailerID)
	assert.Equal(t, saved.Position, loaded.Position)
	assert.True(t, saved.Timestamp.Equal(loaded.Timestamp))

	// no stray temp file left behind
	_, err = os.Stat(filepath.Join(dir, "orders.checkpoint.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFilesystemCheckpointer_LoadMissing(t *testing.T) {
	cp := NewFilesystemCheckpointer(t.TempDir(), zap.NewNop())

	loaded, err := cp.Load(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFilesystemCheckpointer_Delete(t *testing.T) {
	dir := t.TempDir()
	cp := NewFilesystemCheckpointer(dir, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, cp.Save(ctx, &Checkpoint{TailerID: "orders", Position: []byte("0/1")}))
	require.NoError(t, cp.Delete(ctx, "orders"))

	loaded, err := cp.Load(ctx, "orders")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// deleting a missing checkpoint is not an error
	assert.NoError(t, cp.Delete(ctx, "orders"))
}
