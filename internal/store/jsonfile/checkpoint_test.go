package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scout/internal/core/checkpoint"
)

func TestCheckpointStore_missing_file_is_first_run(t *testing.T) {
	store := NewCheckpointStore(filepath.Join(t.TempDir(), "checkpoint.json"))

	cp, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Nil(t, cp.LastRun)
	assert.Empty(t, cp.Seen)
}

func TestCheckpointStore_empty_file_is_first_run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store := NewCheckpointStore(path)
	cp, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cp.LastRun)
}

func TestCheckpointStore_corrupt_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewCheckpointStore(path)
	_, err := store.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, checkpoint.ErrCorrupt)
}

func TestCheckpointStore_round_trip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewCheckpointStore(filepath.Join(t.TempDir(), "checkpoint.json"))

	want := checkpoint.Checkpoint{
		LastRun: &ts,
		Seen: map[string]map[string]time.Time{
			"tasks": {"a": ts},
		},
	}
	require.NoError(t, store.Save(context.Background(), want))

	got, err := store.Load(context.Background())
	require.NoError(t, err)

	require.NotNil(t, got.LastRun)
	assert.True(t, got.LastRun.Equal(ts))
	assert.True(t, got.WasSeen("tasks", "a"))
}

func TestCheckpointStore_save_creates_parent_dirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "checkpoint.json")
	store := NewCheckpointStore(path)

	require.NoError(t, store.Save(context.Background(), checkpoint.Checkpoint{}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestCheckpointStore_save_leaves_no_temp_file(t *testing.T) {
	dir := t.TempDir()
	store := NewCheckpointStore(filepath.Join(dir, "checkpoint.json"))

	require.NoError(t, store.Save(context.Background(), checkpoint.Checkpoint{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "checkpoint.json", entries[0].Name())
}

func TestCheckpointStore_reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path)

	require.NoError(t, store.Save(context.Background(), checkpoint.Checkpoint{}))
	require.NoError(t, store.Reset())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Resetting a missing checkpoint is fine.
	assert.NoError(t, store.Reset())
}
