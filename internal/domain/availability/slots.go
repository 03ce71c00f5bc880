package availability

import (
	"errors"
	"sort"
	"time"

	"timegrid/internal/pkg/timezone"
)

var ErrInvalidSlotParams = errors.New("duration and increment must be positive")

// Slot is a concrete bookable interval in absolute time. Slots are derived
// data: never persisted, always recomputed from a ruleset snapshot.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotParams struct {
	DurationMinutes  int
	IncrementMinutes int
	MinNoticeMinutes int
	MaxDaysAhead     int
}

// SlotGenerator turns a weekly template into bookable slots for one calendar
// date. It is pure: identical inputs, including now, yield an identical
// ordered list. Safe for concurrent use.
type SlotGenerator struct {
	tz *timezone.Converter
}

func NewSlotGenerator(tz *timezone.Converter) *SlotGenerator {
	return &SlotGenerator{tz: tz}
}

// Generate enumerates bookable slots for the requested date.
//
// The weekday and the booking horizon are resolved in the ruleset's authoring
// timezone: availability is declared relative to the owner's clock, not the
// viewer's. The trailing buffer shortens each window's effective end, and
// candidates closer than the minimum notice are dropped.
func (g *SlotGenerator) Generate(rs *RuleSet, date timezone.Date, p SlotParams, now time.Time) ([]Slot, error) {
	if p.DurationMinutes <= 0 || p.IncrementMinutes <= 0 {
		return nil, ErrInvalidSlotParams
	}

	today, err := g.tz.DateAt(now, rs.Timezone())
	if err != nil {
		return nil, err
	}
	if p.MaxDaysAhead >= 0 && date.After(today.AddDays(p.MaxDaysAhead)) {
		return []Slot{}, nil
	}

	day, err := rs.Day(date.Weekday())
	if err != nil {
		return nil, err
	}
	if !day.Enabled() || len(day.windows) == 0 {
		return []Slot{}, nil
	}

	earliest := now.Add(time.Duration(p.MinNoticeMinutes) * time.Minute)
	duration := time.Duration(p.DurationMinutes) * time.Minute

	var slots []Slot
	for _, w := range day.windows {
		effectiveEnd := w.EffectiveEnd().Minutes()
		for cand := w.Start().Minutes(); cand+p.DurationMinutes <= effectiveEnd; cand += p.IncrementMinutes {
			start, err := g.tz.Instant(date, cand, rs.Timezone())
			if err != nil {
				return nil, err
			}
			if start.Before(earliest) {
				continue
			}
			slots = append(slots, Slot{Start: start, End: start.Add(duration)})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	// Windows never overlap by invariant; dedup only guards against data that
	// bypassed write-time validation.
	deduped := slots[:0]
	for i, s := range slots {
		if i > 0 && s.Start.Equal(slots[i-1].Start) {
			continue
		}
		deduped = append(deduped, s)
	}
	if deduped == nil {
		return []Slot{}, nil
	}
	return deduped, nil
}

// ContainsStart reports whether the generated list has a slot starting at the
// given instant. Used to re-validate a visitor's pick at commit time.
func ContainsStart(slots []Slot, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}
