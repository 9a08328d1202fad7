// Package jsonfile provides JSON-file backed persistence.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/scout/internal/core/checkpoint"
)

// CheckpointStore implements checkpoint.Store using a single JSON file.
type CheckpointStore struct {
	path string
	mu   sync.RWMutex
}

// NewCheckpointStore creates a checkpoint store at the given path.
func NewCheckpointStore(path string) *CheckpointStore {
	return &CheckpointStore{path: path}
}

// Path returns the file path backing the store.
func (s *CheckpointStore) Path() string {
	return s.path
}

// Load reads the checkpoint from disk. A missing or empty file yields the
// zero checkpoint (first run). A file that exists but is not valid JSON
// yields an error wrapping checkpoint.ErrCorrupt.
func (s *CheckpointStore) Load(ctx context.Context) (checkpoint.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return checkpoint.Checkpoint{}, nil
		}
		return checkpoint.Checkpoint{}, fmt.Errorf("read checkpoint %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return checkpoint.Checkpoint{}, nil
	}

	var cp checkpoint.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("parse checkpoint %s: %w: %w", s.path, checkpoint.ErrCorrupt, err)
	}

	return cp, nil
}

// Save writes the checkpoint to disk atomically: marshal, write to a temp
// file next to the target, then rename over it. A crash mid-write leaves
// either the old or the new complete content behind.
func (s *CheckpointStore) Save(ctx context.Context, cp checkpoint.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}

	return nil
}

// Reset removes the stored checkpoint. Missing files are not an error.
func (s *CheckpointStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}
