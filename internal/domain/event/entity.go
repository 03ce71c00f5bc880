package event

import (
	"errors"
	"strings"

	"timegrid/internal/domain/availability"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("event name must not be empty")
	ErrInvalidSlug      = errors.New("event slug must be non-empty and url-safe")
	ErrInvalidDuration  = errors.New("duration must be positive")
	ErrInvalidIncrement = errors.New("slot increment must be positive")
	ErrInvalidNotice    = errors.New("minimum notice must be non-negative")
	ErrInvalidHorizon   = errors.New("booking horizon must be positive")
	ErrEmptyQuestion    = errors.New("question label must not be empty")
)

// Question is one intake field a visitor answers before picking a slot.
type Question struct {
	id       uuid.UUID
	label    string
	required bool
}

func NewQuestion(id uuid.UUID, label string, required bool) (Question, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Question{}, ErrEmptyQuestion
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return Question{id: id, label: label, required: required}, nil
}

func (q Question) ID() uuid.UUID  { return q.id }
func (q Question) Label() string  { return q.label }
func (q Question) Required() bool { return q.required }

// EventType is the bookable event descriptor: how long a meeting lasts, how
// candidate starts are spaced, and how far ahead visitors may book. The slot
// engine reads it, never writes it.
type EventType struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	rulesetID        uuid.UUID
	name             string
	slug             string
	durationMinutes  int
	incrementMinutes int
	minNoticeMinutes int
	maxDaysAhead     int
	isActive         bool
	questions        []Question
}

func NewEventType(
	ownerID, rulesetID uuid.UUID,
	name, slug string,
	durationMinutes, incrementMinutes, minNoticeMinutes, maxDaysAhead int,
	questions []Question,
) (*EventType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug == "" || strings.ContainsAny(slug, " /?#") {
		return nil, ErrInvalidSlug
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if incrementMinutes <= 0 {
		return nil, ErrInvalidIncrement
	}
	if minNoticeMinutes < 0 {
		return nil, ErrInvalidNotice
	}
	if maxDaysAhead <= 0 {
		return nil, ErrInvalidHorizon
	}

	return &EventType{
		id:               uuid.New(),
		ownerID:          ownerID,
		rulesetID:        rulesetID,
		name:             name,
		slug:             slug,
		durationMinutes:  durationMinutes,
		incrementMinutes: incrementMinutes,
		minNoticeMinutes: minNoticeMinutes,
		maxDaysAhead:     maxDaysAhead,
		isActive:         true,
		questions:        append([]Question(nil), questions...),
	}, nil
}

func ReconstructEventType(
	id, ownerID, rulesetID uuid.UUID,
	name, slug string,
	durationMinutes, incrementMinutes, minNoticeMinutes, maxDaysAhead int,
	isActive bool,
	questions []Question,
) *EventType {
	return &EventType{
		id:               id,
		ownerID:          ownerID,
		rulesetID:        rulesetID,
		name:             name,
		slug:             slug,
		durationMinutes:  durationMinutes,
		incrementMinutes: incrementMinutes,
		minNoticeMinutes: minNoticeMinutes,
		maxDaysAhead:     maxDaysAhead,
		isActive:         isActive,
		questions:        questions,
	}
}

func (e *EventType) ID() uuid.UUID         { return e.id }
func (e *EventType) OwnerID() uuid.UUID    { return e.ownerID }
func (e *EventType) RulesetID() uuid.UUID  { return e.rulesetID }
func (e *EventType) Name() string          { return e.name }
func (e *EventType) Slug() string          { return e.slug }
func (e *EventType) DurationMinutes() int  { return e.durationMinutes }
func (e *EventType) IncrementMinutes() int { return e.incrementMinutes }
func (e *EventType) MinNoticeMinutes() int { return e.minNoticeMinutes }
func (e *EventType) MaxDaysAhead() int     { return e.maxDaysAhead }
func (e *EventType) IsActive() bool        { return e.isActive }

func (e *EventType) Questions() []Question {
	return append([]Question(nil), e.questions...)
}

// RequiredQuestionIDs lists the questions a session must answer before leaving
// the collecting step.
func (e *EventType) RequiredQuestionIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, q := range e.questions {
		if q.required {
			ids = append(ids, q.id)
		}
	}
	return ids
}

func (e *EventType) SlotParams() availability.SlotParams {
	return availability.SlotParams{
		DurationMinutes:  e.durationMinutes,
		IncrementMinutes: e.incrementMinutes,
		MinNoticeMinutes: e.minNoticeMinutes,
		MaxDaysAhead:     e.maxDaysAhead,
	}
}
