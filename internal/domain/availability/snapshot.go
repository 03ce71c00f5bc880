package availability

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Snapshots are the exported-field projection of the editable state
// (days + timezone). Infra persists them as JSON; the change tracker diffs them.

type WindowSnapshot struct {
	ID            uuid.UUID `json:"id"`
	Start         WallTime  `json:"start"`
	End           WallTime  `json:"end"`
	BufferMinutes int       `json:"buffer_minutes"`
}

type DaySnapshot struct {
	Weekday time.Weekday     `json:"weekday"`
	Enabled bool             `json:"enabled"`
	Windows []WindowSnapshot `json:"windows"`
}

type Snapshot struct {
	Timezone string         `json:"timezone"`
	Days     [7]DaySnapshot `json:"days"`
}

func (r *RuleSet) Snapshot() Snapshot {
	var snap Snapshot
	snap.Timezone = r.timezone
	for wd, d := range r.days {
		windows := make([]WindowSnapshot, len(d.windows))
		for i, w := range d.windows {
			windows[i] = WindowSnapshot{
				ID:            w.id,
				Start:         w.start,
				End:           w.end,
				BufferMinutes: w.bufferMinutes,
			}
		}
		snap.Days[wd] = DaySnapshot{
			Weekday: d.weekday,
			Enabled: d.enabled,
			Windows: windows,
		}
	}
	return snap
}

// Clone deep-copies the snapshot so edits to the working copy never leak into
// the baseline.
func (s Snapshot) Clone() (Snapshot, error) {
	var out Snapshot
	if err := copier.CopyWithOption(&out, &s, copier.Option{DeepCopy: true}); err != nil {
		return Snapshot{}, err
	}
	return out, nil
}

// DaysFromSnapshot rebuilds validated day rules from a snapshot.
func DaysFromSnapshot(snap Snapshot) ([7]DayRule, error) {
	var days [7]DayRule
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		ds := snap.Days[wd]
		windows := make([]TimeWindow, 0, len(ds.Windows))
		for _, ws := range ds.Windows {
			w, err := NewTimeWindow(ws.ID, ws.Start, ws.End, ws.BufferMinutes)
			if err != nil {
				return days, err
			}
			windows = append(windows, w)
		}
		day, err := NewDayRule(wd, ds.Enabled, windows)
		if err != nil {
			return days, err
		}
		days[wd] = day
	}
	return days, nil
}
