package booking

import (
	"errors"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/pkg/timezone"

	"github.com/google/uuid"
)

var ErrInvalidRecord = errors.New("invalid session record")

// Record is the serialized form a session store persists. Sessions are
// ephemeral, so the record carries the full state verbatim.
type Record struct {
	ID           uuid.UUID            `json:"id"`
	EventID      uuid.UUID            `json:"event_id"`
	InviteeName  string               `json:"invitee_name"`
	InviteeEmail string               `json:"invitee_email"`
	Answers      map[uuid.UUID]string `json:"answers"`
	SelectedDate string               `json:"selected_date,omitempty"`
	SlotStart    *time.Time           `json:"slot_start,omitempty"`
	SlotEnd      *time.Time           `json:"slot_end,omitempty"`
	State        State                `json:"state"`
	CreatedAt    time.Time            `json:"created_at"`
}

func (s *Session) ToRecord() Record {
	rec := Record{
		ID:           s.id,
		EventID:      s.eventID,
		InviteeName:  s.invitee.Name,
		InviteeEmail: s.invitee.Email,
		Answers:      s.Answers(),
		State:        s.state,
		CreatedAt:    s.createdAt,
	}
	if !s.selectedDate.IsZero() {
		rec.SelectedDate = s.selectedDate.String()
	}
	if s.selectedSlot != nil {
		start := s.selectedSlot.Start
		end := s.selectedSlot.End
		rec.SlotStart = &start
		rec.SlotEnd = &end
	}
	return rec
}

func FromRecord(rec Record) (*Session, error) {
	if rec.ID == uuid.Nil || rec.EventID == uuid.Nil || !rec.State.IsValid() {
		return nil, ErrInvalidRecord
	}

	s := &Session{
		id:      rec.ID,
		eventID: rec.EventID,
		invitee: Invitee{
			Name:  rec.InviteeName,
			Email: rec.InviteeEmail,
		},
		answers:   rec.Answers,
		state:     rec.State,
		createdAt: rec.CreatedAt,
	}
	if s.answers == nil {
		s.answers = make(map[uuid.UUID]string)
	}
	if rec.SelectedDate != "" {
		d, err := timezone.ParseDate(rec.SelectedDate)
		if err != nil {
			return nil, ErrInvalidRecord
		}
		s.selectedDate = d
	}
	if rec.SlotStart != nil && rec.SlotEnd != nil {
		s.selectedSlot = &availability.Slot{Start: *rec.SlotStart, End: *rec.SlotEnd}
	}
	return s, nil
}
