package queries

import (
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/domain/booking"
	"timegrid/internal/domain/event"

	"github.com/google/uuid"
)

type WindowView struct {
	ID            uuid.UUID `json:"id"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	BufferMinutes int       `json:"buffer_minutes"`
}

type DayView struct {
	Weekday int          `json:"weekday"`
	Enabled bool         `json:"enabled"`
	Windows []WindowView `json:"windows"`
}

type RulesetView struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Timezone string     `json:"timezone"`
	IsActive bool       `json:"is_active"`
	Days     [7]DayView `json:"days"`
}

func NewRulesetView(rs *availability.RuleSet) RulesetView {
	view := RulesetView{
		ID:       rs.ID(),
		Name:     rs.Name(),
		Timezone: rs.Timezone(),
		IsActive: rs.IsActive(),
	}
	for wd, day := range rs.Days() {
		windows := day.Windows()
		views := make([]WindowView, len(windows))
		for i, w := range windows {
			views[i] = WindowView{
				ID:            w.ID(),
				Start:         w.Start().String(),
				End:           w.End().String(),
				BufferMinutes: w.BufferMinutes(),
			}
		}
		view.Days[wd] = DayView{
			Weekday: wd,
			Enabled: day.Enabled(),
			Windows: views,
		}
	}
	return view
}

type QuestionView struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
}

type EventView struct {
	ID               uuid.UUID      `json:"id"`
	RulesetID        uuid.UUID      `json:"ruleset_id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	DurationMinutes  int            `json:"duration_minutes"`
	IncrementMinutes int            `json:"increment_minutes"`
	MinNoticeMinutes int            `json:"min_notice_minutes"`
	MaxDaysAhead     int            `json:"max_days_ahead"`
	IsActive         bool           `json:"is_active"`
	Questions        []QuestionView `json:"questions"`
}

func NewEventView(e *event.EventType) EventView {
	questions := e.Questions()
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = QuestionView{ID: q.ID(), Label: q.Label(), Required: q.Required()}
	}
	return EventView{
		ID:               e.ID(),
		RulesetID:        e.RulesetID(),
		Name:             e.Name(),
		Slug:             e.Slug(),
		DurationMinutes:  e.DurationMinutes(),
		IncrementMinutes: e.IncrementMinutes(),
		MinNoticeMinutes: e.MinNoticeMinutes(),
		MaxDaysAhead:     e.MaxDaysAhead(),
		IsActive:         e.IsActive(),
		Questions:        views,
	}
}

type SlotView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotListView struct {
	EventSlug string     `json:"event_slug"`
	Date      string     `json:"date"`
	Timezone  string     `json:"timezone"`
	Slots     []SlotView `json:"slots"`
}

type SessionView struct {
	ID           uuid.UUID         `json:"id"`
	EventSlug    string            `json:"event_slug"`
	EventName    string            `json:"event_name"`
	State        string            `json:"state"`
	InviteeName  string            `json:"invitee_name"`
	InviteeEmail string            `json:"invitee_email"`
	Answers      map[string]string `json:"answers"`
	SelectedDate string            `json:"selected_date,omitempty"`
	SelectedSlot *SlotView         `json:"selected_slot,omitempty"`
	Questions    []QuestionView    `json:"questions"`
}

func NewSessionView(s *booking.Session, e *event.EventType) SessionView {
	answers := make(map[string]string)
	for id, v := range s.Answers() {
		answers[id.String()] = v
	}

	questions := e.Questions()
	qViews := make([]QuestionView, len(questions))
	for i, q := range questions {
		qViews[i] = QuestionView{ID: q.ID(), Label: q.Label(), Required: q.Required()}
	}

	view := SessionView{
		ID:           s.ID(),
		EventSlug:    e.Slug(),
		EventName:    e.Name(),
		State:        string(s.State()),
		InviteeName:  s.Invitee().Name,
		InviteeEmail: s.Invitee().Email,
		Answers:      answers,
		Questions:    qViews,
	}
	if !s.SelectedDate().IsZero() {
		view.SelectedDate = s.SelectedDate().String()
	}
	if slot, ok := s.SelectedSlot(); ok {
		view.SelectedSlot = &SlotView{Start: slot.Start, End: slot.End}
	}
	return view
}
