package checkpoint

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpoint_WasSeen(t *testing.T) {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cp := Checkpoint{
		Seen: map[string]map[string]time.Time{
			"tasks": {"a": ts},
		},
	}

	assert.True(t, cp.WasSeen("tasks", "a"))
	assert.False(t, cp.WasSeen("tasks", "b"))
	assert.False(t, cp.WasSeen("events", "a"))

	var zero Checkpoint
	assert.False(t, zero.WasSeen("tasks", "a"))
}

func TestCheckpoint_json_round_trip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	cp := Checkpoint{
		LastRun: &ts,
		Seen: map[string]map[string]time.Time{
			"tasks": {"a": ts, "b": ts.Add(-time.Hour)},
		},
	}

	data, err := json.Marshal(cp)
	require.NoError(t, err)

	var got Checkpoint
	require.NoError(t, json.Unmarshal(data, &got))

	require.NotNil(t, got.LastRun)
	assert.True(t, got.LastRun.Equal(ts))
	assert.True(t, got.WasSeen("tasks", "a"))
	assert.True(t, got.WasSeen("tasks", "b"))
}

func TestCheckpoint_preserves_unknown_fields(t *testing.T) {
	raw := []byte(`{
		"last_run": "2026-03-01T12:00:00Z",
		"seen_ids": {"tasks": {"a": "2026-03-01T11:00:00Z"}},
		"schema": "v2",
		"operator_note": {"who": "oncall"}
	}`)

	var cp Checkpoint
	require.NoError(t, json.Unmarshal(raw, &cp))

	data, err := json.Marshal(cp)
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &out))

	assert.JSONEq(t, `"v2"`, string(out["schema"]))
	assert.JSONEq(t, `{"who": "oncall"}`, string(out["operator_note"]))
	assert.Contains(t, out, "last_run")
	assert.Contains(t, out, "seen_ids")
}

func TestCheckpoint_null_last_run(t *testing.T) {
	var cp Checkpoint

	data, err := json.Marshal(cp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"last_run":null`)

	var got Checkpoint
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got.LastRun)
}
