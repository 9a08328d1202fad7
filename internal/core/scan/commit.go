package scan

import (
	"sort"
	"time"

	"github.com/colonyops/scout/internal/core/checkpoint"
)

// DefaultRetention is the default per-surface seen-id cap.
const DefaultRetention = 2000

// NextCheckpoint derives the checkpoint to persist after a fully successful
// run. The watermark becomes the report's run time; every classified item
// across all four groups is recorded as seen at its last edit time (falling
// back to the run time when the item carries no edit timestamp); then each
// surface's seen set is truncated to the retention cap, dropping the
// oldest-timestamped entries first, ties broken by id descending.
//
// Callers must only invoke this after every surface scan completed without
// error. On any failure the previous checkpoint stays untouched so the next
// run retries the same window from the same watermark.
func NextCheckpoint(report Report, prev checkpoint.Checkpoint, retention int) checkpoint.Checkpoint {
	if retention <= 0 {
		retention = DefaultRetention
	}

	ranAt := report.RanAt
	next := checkpoint.Checkpoint{
		LastRun: &ranAt,
		Seen:    make(map[string]map[string]time.Time, len(prev.Seen)),
		Extra:   prev.Extra,
	}

	for key, ids := range prev.Seen {
		copied := make(map[string]time.Time, len(ids))
		for id, ts := range ids {
			copied[id] = ts
		}
		next.Seen[key] = copied
	}

	for _, sr := range report.Surfaces {
		ids := next.Seen[sr.Key]
		if ids == nil {
			ids = make(map[string]time.Time)
			next.Seen[sr.Key] = ids
		}

		for _, group := range [][]ReportItem{sr.New, sr.Updated, sr.Commented, sr.Unchanged} {
			for _, item := range group {
				ts := item.LastEditedAt
				if ts.IsZero() {
					ts = report.RanAt
				}
				ids[item.ID] = ts
			}
		}

		truncateSeen(ids, retention)
	}

	return next
}

// truncateSeen drops entries until the map is within the cap, oldest
// timestamps first, ties by id descending.
func truncateSeen(ids map[string]time.Time, cap int) {
	if len(ids) <= cap {
		return
	}

	type entry struct {
		id string
		ts time.Time
	}
	entries := make([]entry, 0, len(ids))
	for id, ts := range ids {
		entries = append(entries, entry{id: id, ts: ts})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ts.Equal(entries[j].ts) {
			return entries[i].ts.Before(entries[j].ts)
		}
		return entries[i].id > entries[j].id
	})

	for _, e := range entries[:len(entries)-cap] {
		delete(ids, e.id)
	}
}
