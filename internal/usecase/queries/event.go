package queries

import (
	"context"

	"timegrid/internal/pkg/errs"

	"github.com/google/uuid"
)

type EventQueries struct {
	events EventReader
}

func NewEventQueries(events EventReader) *EventQueries {
	return &EventQueries{events: events}
}

func (q *EventQueries) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]EventView, error) {
	events, err := q.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = NewEventView(e)
	}
	return views, nil
}

// GetPublic resolves an event by slug for the unauthenticated booking page.
// Inactive events are hidden.
func (q *EventQueries) GetPublic(ctx context.Context, slug string) (*EventView, error) {
	e, err := q.events.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !e.IsActive() {
		return nil, errs.ErrEventNotFound
	}
	view := NewEventView(e)
	return &view, nil
}

func (q *EventQueries) Get(ctx context.Context, ownerID, id uuid.UUID) (*EventView, error) {
	e, err := q.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.OwnerID() != ownerID {
		return nil, errs.ErrEventNotFound
	}
	view := NewEventView(e)
	return &view, nil
}
