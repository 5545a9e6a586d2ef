package cdc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Checkpoint records the last source position a tailer durably handled.
type Checkpoint struct {
	TailerID  string    `json:"tailer_id"`
	Position  []byte    `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

type Checkpointer interface {
	// Load the last checkpoint for a tailer. A nil checkpoint means the
	// tailer has never saved one.
	Load(ctx context.Context, tailerID string) (*Checkpoint, error)

	// Save a checkpoint.
	Save(ctx context.Context, checkpoint *Checkpoint) error

	// Delete checkpoint data for a tailer.
	Delete(ctx context.Context, tailerID string) error
}

type NoopCheckpointer struct{}

func (n *NoopCheckpointer) Load(ctx context.Context, tailerID string) (*Checkpoint, error) {
	return nil, nil
}
func (n *NoopCheckpointer) Save(ctx context.Context, checkpoint *Checkpoint) error {
	return nil
}
func (n *NoopCheckpointer) Delete(ctx context.Context, tailerID string) error {
	return nil
}

// FilesystemCheckpointer persists checkpoints as json files, one per
// tailer, written atomically.
type FilesystemCheckpointer struct {
	baseDir string
	logger  *zap.Logger
	mu      sync.Mutex
}

func NewFilesystemCheckpointer(baseDir string, logger *zap.Logger) *FilesystemCheckpointer {
	return &FilesystemCheckpointer{
		baseDir: baseDir,
		logger:  logger,
	}
}

func (f *FilesystemCheckpointer) Load(ctx context.Context, tailerID string) (*Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	checkpointPath := filepath.Join(f.baseDir, tailerID+".checkpoint")

	data, err := os.ReadFile(checkpointPath)
	if os.IsNotExist(err) {
		f.logger.Info("no checkpoint found", zap.String("tailer_id", tailerID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var checkpoint Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, err
	}

	f.logger.Info("checkpoint loaded",
		zap.String("tailer_id", tailerID),
		zap.Time("timestamp", checkpoint.Timestamp),
	)

	return &checkpoint, nil
}

func (f *FilesystemCheckpointer) Save(ctx context.Context, checkpoint *Checkpoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.baseDir, 0755); err != nil {
		return err
	}

	checkpointPath := filepath.Join(f.baseDir, checkpoint.TailerID+".checkpoint")
	tempPath := checkpointPath + ".tmp"

	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file, sync, then atomically rename into place so a
	// crash never leaves a torn checkpoint.
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}

	if file, err := os.OpenFile(tempPath, os.O_RDWR, 0644); err == nil {
		file.Sync()
		file.Close()
	}

	if err := os.Rename(tempPath, checkpointPath); err != nil {
		os.Remove(tempPath)
		return err
	}

	f.logger.Debug("checkpoint saved",
		zap.String("tailer_id", checkpoint.TailerID),
		zap.Time("timestamp", checkpoint.Timestamp),
	)

	return nil
}

func (f *FilesystemCheckpointer) Delete(ctx context.Context, tailerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	checkpointPath := filepath.Join(f.baseDir, tailerID+".checkpoint")

	if err := os.Remove(checkpointPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	f.logger.Info("checkpoint deleted", zap.String("tailer_id", tailerID))
	return nil
}
