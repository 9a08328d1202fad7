// Package checkpoint defines the durable scan watermark and seen-id record.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrCorrupt is returned when a checkpoint exists on disk but cannot be
// parsed as valid JSON.
var ErrCorrupt = errors.New("checkpoint file is corrupt")

// Checkpoint is the persisted state between scan runs: the watermark used as
// the lower bound for "what changed since", and a per-surface record of every
// item id previously observed with the edit time it was last observed at.
//
// Unknown top-level JSON fields are preserved across a load/save round trip
// so that newer versions of the file survive being rewritten by an older
// binary.
type Checkpoint struct {
	// LastRun is the watermark for the next run's since filter.
	// Nil means first run: no lower bound, all seen sets empty.
	LastRun *time.Time

	// Seen maps surface key -> item id -> last observed edit time.
	Seen map[string]map[string]time.Time

	// Extra holds top-level fields this version does not understand.
	Extra map[string]json.RawMessage
}

// Store persists checkpoints between runs.
type Store interface {
	// Load returns the stored checkpoint. A missing store yields the zero
	// Checkpoint (first run). A present-but-unparsable store yields an
	// error wrapping ErrCorrupt.
	Load(ctx context.Context) (Checkpoint, error)

	// Save durably replaces the stored checkpoint. The write must leave
	// either the old or the new complete content behind, never a partial
	// file.
	Save(ctx context.Context, cp Checkpoint) error
}

// WasSeen reports whether the item id was observed on the surface in a
// previous run.
func (c Checkpoint) WasSeen(surfaceKey, itemID string) bool {
	ids, ok := c.Seen[surfaceKey]
	if !ok {
		return false
	}
	_, ok = ids[itemID]
	return ok
}

// SeenCount returns the number of recorded ids for a surface.
func (c Checkpoint) SeenCount(surfaceKey string) int {
	return len(c.Seen[surfaceKey])
}

// MarshalJSON writes the known fields alongside any preserved unknown ones.
func (c Checkpoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Extra)+2)
	for k, v := range c.Extra {
		out[k] = v
	}

	lastRun, err := json.Marshal(c.LastRun)
	if err != nil {
		return nil, err
	}
	out["last_run"] = lastRun

	seen := c.Seen
	if seen == nil {
		seen = map[string]map[string]time.Time{}
	}
	seenRaw, err := json.Marshal(seen)
	if err != nil {
		return nil, err
	}
	out["seen_ids"] = seenRaw

	return json.Marshal(out)
}

// UnmarshalJSON reads the known fields and stashes everything else in Extra.
func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["last_run"]; ok {
		if err := json.Unmarshal(v, &c.LastRun); err != nil {
			return err
		}
		delete(raw, "last_run")
	}

	if v, ok := raw["seen_ids"]; ok {
		if err := json.Unmarshal(v, &c.Seen); err != nil {
			return err
		}
		delete(raw, "seen_ids")
	}

	if len(raw) > 0 {
		c.Extra = raw
	}

	return nil
}
