package availability

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWeekday = errors.New("weekday must be between 0 and 6")
	ErrEmptyName      = errors.New("ruleset name must not be empty")
)

// DayRule is one weekday's enabled flag plus its ordered window list. A
// disabled day retains its windows so re-enabling restores the prior
// configuration.
type DayRule struct {
	weekday time.Weekday
	enabled bool
	windows []TimeWindow
}

func NewDayRule(weekday time.Weekday, enabled bool, windows []TimeWindow) (DayRule, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return DayRule{}, ErrInvalidWeekday
	}
	if err := validateNoOverlap(windows); err != nil {
		return DayRule{}, err
	}
	return DayRule{
		weekday: weekday,
		enabled: enabled,
		windows: append([]TimeWindow(nil), windows...),
	}, nil
}

func (d DayRule) Weekday() time.Weekday { return d.weekday }
func (d DayRule) Enabled() bool         { return d.enabled }

func (d DayRule) Windows() []TimeWindow {
	return append([]TimeWindow(nil), d.windows...)
}

func validateNoOverlap(windows []TimeWindow) error {
	for i := range windows {
		for j := i + 1; j < len(windows); j++ {
			if windows[i].Overlaps(windows[j]) {
				return ErrWindowOverlap
			}
		}
	}
	return nil
}

// RuleSet is a named, owner-scoped weekly availability template. Windows are
// authored as wall-clock times in the ruleset's timezone.
type RuleSet struct {
	id             uuid.UUID
	ownerID        uuid.UUID
	organizationID uuid.UUID
	name           string
	timezone       string
	isActive       bool
	days           [7]DayRule
}

// NewRuleSet creates the skeleton: all seven days disabled with empty window lists.
func NewRuleSet(ownerID, organizationID uuid.UUID, name, tz string) (*RuleSet, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	rs := &RuleSet{
		id:             uuid.New(),
		ownerID:        ownerID,
		organizationID: organizationID,
		name:           name,
		timezone:       tz,
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rs.days[wd] = DayRule{weekday: wd}
	}
	return rs, nil
}

func ReconstructRuleSet(
	id, ownerID, organizationID uuid.UUID,
	name, tz string,
	isActive bool,
	days [7]DayRule,
) *RuleSet {
	return &RuleSet{
		id:             id,
		ownerID:        ownerID,
		organizationID: organizationID,
		name:           name,
		timezone:       tz,
		isActive:       isActive,
		days:           days,
	}
}

func (r *RuleSet) ID() uuid.UUID             { return r.id }
func (r *RuleSet) OwnerID() uuid.UUID        { return r.ownerID }
func (r *RuleSet) OrganizationID() uuid.UUID { return r.organizationID }
func (r *RuleSet) Name() string              { return r.name }
func (r *RuleSet) Timezone() string          { return r.timezone }
func (r *RuleSet) IsActive() bool            { return r.isActive }

func (r *RuleSet) Day(weekday time.Weekday) (DayRule, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return DayRule{}, ErrInvalidWeekday
	}
	return r.days[weekday], nil
}

func (r *RuleSet) Days() [7]DayRule {
	var out [7]DayRule
	for i, d := range r.days {
		out[i] = DayRule{weekday: d.weekday, enabled: d.enabled, windows: append([]TimeWindow(nil), d.windows...)}
	}
	return out
}

func (r *RuleSet) SetActive(active bool) {
	r.isActive = active
}

// ToggleDay flips a day's enabled flag. Enabling a day with no windows seeds
// the default 09:00-17:00 window; disabling keeps the windows in place.
func (r *RuleSet) ToggleDay(weekday time.Weekday) error {
	if weekday < time.Sunday || weekday > time.Saturday {
		return ErrInvalidWeekday
	}
	day := &r.days[weekday]
	day.enabled = !day.enabled
	if day.enabled && len(day.windows) == 0 {
		day.windows = append(day.windows, DefaultWindow())
	}
	return nil
}

// AddWindow appends the default window to a day. The caller is expected to
// adjust it afterwards; overlap is checked on every subsequent edit.
func (r *RuleSet) AddWindow(weekday time.Weekday) (TimeWindow, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return TimeWindow{}, ErrInvalidWeekday
	}
	w := DefaultWindow()
	r.days[weekday].windows = append(r.days[weekday].windows, w)
	return w, nil
}

func (r *RuleSet) RemoveWindow(weekday time.Weekday, windowID uuid.UUID) error {
	if weekday < time.Sunday || weekday > time.Saturday {
		return ErrInvalidWeekday
	}
	day := &r.days[weekday]
	for i, w := range day.windows {
		if w.id == windowID {
			day.windows = append(day.windows[:i], day.windows[i+1:]...)
			return nil
		}
	}
	return ErrWindowNotFound
}

// UpdateWindow replaces a window's interval and buffer in place. The edit is
// rejected if it breaks the bounds/buffer invariants or overlaps a sibling.
func (r *RuleSet) UpdateWindow(weekday time.Weekday, windowID uuid.UUID, start, end WallTime, bufferMinutes int) error {
	if weekday < time.Sunday || weekday > time.Saturday {
		return ErrInvalidWeekday
	}
	day := &r.days[weekday]
	idx := -1
	for i, w := range day.windows {
		if w.id == windowID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrWindowNotFound
	}

	updated, err := NewTimeWindow(windowID, start, end, bufferMinutes)
	if err != nil {
		return err
	}
	for i, w := range day.windows {
		if i != idx && updated.Overlaps(w) {
			return ErrWindowOverlap
		}
	}

	day.windows[idx] = updated
	return nil
}

// ReplaceDays swaps in a full seven-day batch plus timezone, validating every
// day. Partial single-field patches are not supported by design of the store
// contract (full replace only).
func (r *RuleSet) ReplaceDays(days [7]DayRule, tz string) error {
	for _, d := range days {
		if err := validateNoOverlap(d.windows); err != nil {
			return err
		}
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		days[wd].weekday = wd
	}
	r.days = days
	r.timezone = tz
	return nil
}
