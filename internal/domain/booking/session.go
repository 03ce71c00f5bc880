package booking

import (
	"errors"
	"strings"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/pkg/timezone"

	"github.com/google/uuid"
)

var (
	ErrTerminalState          = errors.New("session is in a terminal state")
	ErrInvalidTransition      = errors.New("transition not allowed from current state")
	ErrMissingRequiredAnswers = errors.New("required answers are missing")
	ErrDateNotSelected        = errors.New("a date must be selected before a time")
	ErrSlotNotOnSelectedDate  = errors.New("slot does not fall on the selected date")
	ErrSlotNotSelected        = errors.New("no slot selected")
)

// idempotencyNamespace seeds the deterministic commit key derivation. Changing
// it would break retry semantics for in-flight sessions.
var idempotencyNamespace = uuid.MustParse("7d44f4a2-29c5-4fbc-9b97-1f2d0c3f6a58")

// Invitee is the base visitor data captured before any dynamic questions.
type Invitee struct {
	Name  string
	Email string
}

func (i Invitee) complete() bool {
	return strings.TrimSpace(i.Name) != "" && strings.TrimSpace(i.Email) != ""
}

// Session sequences one visitor's booking attempt: answer capture, date and
// slot selection, then an idempotent commit. A session belongs to exactly one
// visitor flow and is never shared.
type Session struct {
	id           uuid.UUID
	eventID      uuid.UUID
	invitee      Invitee
	answers      map[uuid.UUID]string
	selectedDate timezone.Date
	selectedSlot *availability.Slot
	state        State
	createdAt    time.Time
}

func NewSession(eventID uuid.UUID, now time.Time) *Session {
	return &Session{
		id:        uuid.New(),
		eventID:   eventID,
		answers:   make(map[uuid.UUID]string),
		state:     StateCollecting,
		createdAt: now,
	}
}

func (s *Session) ID() uuid.UUID      { return s.id }
func (s *Session) EventID() uuid.UUID { return s.eventID }
func (s *Session) State() State       { return s.state }
func (s *Session) Invitee() Invitee   { return s.invitee }

func (s *Session) SelectedDate() timezone.Date { return s.selectedDate }
func (s *Session) CreatedAt() time.Time        { return s.createdAt }

func (s *Session) SelectedSlot() (availability.Slot, bool) {
	if s.selectedSlot == nil {
		return availability.Slot{}, false
	}
	return *s.selectedSlot, true
}

func (s *Session) Answers() map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// IdempotencyKey is derived deterministically from the session id so that
// every retry of the same session's commit carries the same key.
func (s *Session) IdempotencyKey() uuid.UUID {
	return uuid.NewSHA1(idempotencyNamespace, s.id[:])
}

// SetInvitee and SetAnswer are only valid while collecting; Modify returns the
// session to the collecting step if the visitor wants to edit.
func (s *Session) SetInvitee(inv Invitee) error {
	if s.state != StateCollecting {
		return ErrInvalidTransition
	}
	s.invitee = inv
	return nil
}

func (s *Session) SetAnswer(questionID uuid.UUID, value string) error {
	if s.state != StateCollecting {
		return ErrInvalidTransition
	}
	s.answers[questionID] = value
	return nil
}

// MissingAnswers returns the required question ids with empty or absent
// answers, plus whether the base invitee fields are incomplete.
func (s *Session) MissingAnswers(requiredQuestionIDs []uuid.UUID) (missing []uuid.UUID, inviteeIncomplete bool) {
	for _, id := range requiredQuestionIDs {
		if strings.TrimSpace(s.answers[id]) == "" {
			missing = append(missing, id)
		}
	}
	return missing, !s.invitee.complete()
}

// BeginSlotSelection moves Collecting → SlotSelecting once every base field
// and required question has a non-empty answer.
func (s *Session) BeginSlotSelection(requiredQuestionIDs []uuid.UUID) error {
	if s.state.IsTerminal() {
		return ErrTerminalState
	}
	if s.state != StateCollecting {
		return ErrInvalidTransition
	}
	missing, incomplete := s.MissingAnswers(requiredQuestionIDs)
	if len(missing) > 0 || incomplete {
		return ErrMissingRequiredAnswers
	}
	s.state = StateSlotSelecting
	return nil
}

// SelectDate picks the calendar date. Re-picking a date always clears a
// previously chosen time.
func (s *Session) SelectDate(d timezone.Date) error {
	if s.state.IsTerminal() {
		return ErrTerminalState
	}
	if s.state != StateSlotSelecting {
		return ErrInvalidTransition
	}
	s.selectedDate = d
	s.selectedSlot = nil
	return nil
}

// SelectSlot records the chosen slot and advances to Confirming. The slot
// must match the date already selected (compared in the given zone).
func (s *Session) SelectSlot(slot availability.Slot, tz *timezone.Converter, zone string) error {
	if s.state.IsTerminal() {
		return ErrTerminalState
	}
	if s.state != StateSlotSelecting {
		return ErrInvalidTransition
	}
	if s.selectedDate.IsZero() {
		return ErrDateNotSelected
	}
	slotDate, err := tz.DateAt(slot.Start, zone)
	if err != nil {
		return err
	}
	if slotDate != s.selectedDate {
		return ErrSlotNotOnSelectedDate
	}
	s.selectedSlot = &slot
	s.state = StateConfirming
	return nil
}

// Back steps Confirming → SlotSelecting or SlotSelecting → Collecting without
// discarding anything already captured.
func (s *Session) Back() error {
	switch s.state {
	case StateConfirming:
		s.state = StateSlotSelecting
	case StateSlotSelecting:
		s.state = StateCollecting
	default:
		return ErrInvalidTransition
	}
	return nil
}

// ReturnToSlotSelection handles a commit-time conflict: the picked slot is
// gone, so the time is cleared and the visitor chooses again from a fresh
// list. The date is kept.
func (s *Session) ReturnToSlotSelection() error {
	if s.state != StateConfirming {
		return ErrInvalidTransition
	}
	s.selectedSlot = nil
	s.state = StateSlotSelecting
	return nil
}

// Confirm finalizes the session after the commit call succeeded. Terminal.
func (s *Session) Confirm() error {
	if s.state != StateConfirming {
		return ErrInvalidTransition
	}
	if s.selectedSlot == nil {
		return ErrSlotNotSelected
	}
	s.state = StateConfirmed
	return nil
}

// Cancel abandons the session from any non-terminal state. It never reaches
// out to a commit that may already have been accepted remotely.
func (s *Session) Cancel() error {
	if s.state.IsTerminal() {
		return ErrTerminalState
	}
	s.state = StateCancelled
	return nil
}
