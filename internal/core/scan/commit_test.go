package scan

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scout/internal/core/checkpoint"
)

func TestNextCheckpoint_records_all_groups(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	edited := created.Add(time.Hour)
	ranAt := created.Add(2 * time.Hour)

	report := BuildReport(ranAt, nil, []ClassifiedSurface{
		classifiedSurface("tasks",
			ClassifiedItem{Item: Item{ID: "a", LastEditedAt: edited}, Group: GroupNew},
			ClassifiedItem{Item: Item{ID: "b", LastEditedAt: edited}, Group: GroupUpdated},
			ClassifiedItem{Item: Item{ID: "c", LastEditedAt: edited}, Group: GroupCommented},
			ClassifiedItem{Item: Item{ID: "d", LastEditedAt: edited}, Group: GroupUnchanged},
		),
	})

	next := NextCheckpoint(report, checkpoint.Checkpoint{}, 0)

	require.NotNil(t, next.LastRun)
	assert.Equal(t, ranAt, *next.LastRun)

	for _, id := range []string{"a", "b", "c", "d"} {
		assert.True(t, next.WasSeen("tasks", id), "id %s", id)
		assert.Equal(t, edited, next.Seen["tasks"][id])
	}
}

func TestNextCheckpoint_zero_edit_time_falls_back_to_run_time(t *testing.T) {
	ranAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	report := BuildReport(ranAt, nil, []ClassifiedSurface{
		classifiedSurface("tasks",
			ClassifiedItem{Item: Item{ID: "a"}, Group: GroupNew},
		),
	})

	next := NextCheckpoint(report, checkpoint.Checkpoint{}, 0)

	assert.Equal(t, ranAt, next.Seen["tasks"]["a"])
}

func TestNextCheckpoint_preserves_prior_seen_and_extra(t *testing.T) {
	old := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	ranAt := old.AddDate(0, 1, 0)

	prev := checkpoint.Checkpoint{
		Seen: map[string]map[string]time.Time{
			"tasks":  {"old-item": old},
			"events": {"ev-1": old},
		},
		Extra: map[string]json.RawMessage{"schema": json.RawMessage(`"v2"`)},
	}

	report := BuildReport(ranAt, &old, []ClassifiedSurface{
		classifiedSurface("tasks",
			ClassifiedItem{Item: Item{ID: "fresh", LastEditedAt: ranAt}, Group: GroupNew},
		),
	})

	next := NextCheckpoint(report, prev, 0)

	// Items from earlier runs and unscanned surfaces stay recorded.
	assert.True(t, next.WasSeen("tasks", "old-item"))
	assert.True(t, next.WasSeen("tasks", "fresh"))
	assert.True(t, next.WasSeen("events", "ev-1"))
	assert.Equal(t, prev.Extra, next.Extra)

	// The previous checkpoint is never mutated.
	assert.Len(t, prev.Seen["tasks"], 1)
	assert.Nil(t, prev.LastRun)
}

func TestNextCheckpoint_retention_cap_drops_oldest(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ranAt := base.AddDate(0, 3, 0)

	prev := checkpoint.Checkpoint{
		Seen: map[string]map[string]time.Time{"tasks": {}},
	}
	for i := range 2500 {
		id := fmt.Sprintf("item-%04d", i)
		prev.Seen["tasks"][id] = base.Add(time.Duration(i) * time.Minute)
	}

	report := BuildReport(ranAt, nil, []ClassifiedSurface{classifiedSurface("tasks")})

	next := NextCheckpoint(report, prev, 2000)

	require.Len(t, next.Seen["tasks"], 2000)

	// The 500 oldest-timestamped entries are the ones removed.
	assert.False(t, next.WasSeen("tasks", "item-0000"))
	assert.False(t, next.WasSeen("tasks", "item-0499"))
	assert.True(t, next.WasSeen("tasks", "item-0500"))
	assert.True(t, next.WasSeen("tasks", "item-2499"))
}

func TestNextCheckpoint_retention_ties_break_by_id_descending(t *testing.T) {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ranAt := ts.Add(time.Hour)

	prev := checkpoint.Checkpoint{
		Seen: map[string]map[string]time.Time{
			"tasks": {"a": ts, "b": ts, "c": ts},
		},
	}

	report := BuildReport(ranAt, nil, []ClassifiedSurface{classifiedSurface("tasks")})

	next := NextCheckpoint(report, prev, 2)

	// Equal timestamps: the highest ids are dropped first.
	assert.True(t, next.WasSeen("tasks", "a"))
	assert.True(t, next.WasSeen("tasks", "b"))
	assert.False(t, next.WasSeen("tasks", "c"))
}
