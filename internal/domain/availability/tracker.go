package availability

import (
	"sort"

	"github.com/google/go-cmp/cmp"
)

// ChangeTracker keeps a working copy of a ruleset's editable state next to the
// persisted baseline. Dirtiness compares window sets as order-independent
// multisets of (start, end, buffer) tuples; window ids carry no semantic
// weight.
type ChangeTracker struct {
	working  *RuleSet
	baseline Snapshot
}

func NewChangeTracker(persisted *RuleSet) (*ChangeTracker, error) {
	baseline, err := persisted.Snapshot().Clone()
	if err != nil {
		return nil, err
	}
	return &ChangeTracker{
		working:  persisted,
		baseline: baseline,
	}, nil
}

func (t *ChangeTracker) Working() *RuleSet {
	return t.working
}

func (t *ChangeTracker) Baseline() Snapshot {
	return t.baseline
}

func (t *ChangeTracker) Dirty() bool {
	return !cmp.Equal(normalize(t.baseline), normalize(t.working.Snapshot()))
}

// Diff renders a human-readable delta for logging; empty when clean.
func (t *ChangeTracker) Diff() string {
	return cmp.Diff(normalize(t.baseline), normalize(t.working.Snapshot()))
}

// Reset discards local edits, restoring the working copy to the baseline. No
// persistence call is made.
func (t *ChangeTracker) Reset() error {
	snap, err := t.baseline.Clone()
	if err != nil {
		return err
	}
	days, err := DaysFromSnapshot(snap)
	if err != nil {
		return err
	}
	return t.working.ReplaceDays(days, snap.Timezone)
}

// MarkSaved promotes the working copy to the new baseline after a successful
// full-replace persistence call. On failure callers skip this so the working
// copy survives for retry.
func (t *ChangeTracker) MarkSaved() error {
	baseline, err := t.working.Snapshot().Clone()
	if err != nil {
		return err
	}
	t.baseline = baseline
	return nil
}

type normalizedDay struct {
	Enabled bool
	Windows []WindowKey
}

type normalizedState struct {
	Timezone string
	Days     [7]normalizedDay
}

func normalize(snap Snapshot) normalizedState {
	var out normalizedState
	out.Timezone = snap.Timezone
	for i, d := range snap.Days {
		keys := make([]WindowKey, len(d.Windows))
		for j, w := range d.Windows {
			keys[j] = WindowKey{Start: w.Start, End: w.End, Buffer: w.BufferMinutes}
		}
		sort.Slice(keys, func(a, b int) bool {
			if keys[a].Start != keys[b].Start {
				return keys[a].Start < keys[b].Start
			}
			if keys[a].End != keys[b].End {
				return keys[a].End < keys[b].End
			}
			return keys[a].Buffer < keys[b].Buffer
		})
		out.Days[i] = normalizedDay{Enabled: d.Enabled, Windows: keys}
	}
	return out
}
