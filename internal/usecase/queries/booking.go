package queries

import (
	"context"

	"github.com/google/uuid"
)

type SessionQueries struct {
	sessions SessionReader
	events   EventReader
}

func NewSessionQueries(sessions SessionReader, events EventReader) *SessionQueries {
	return &SessionQueries{sessions: sessions, events: events}
}

// Get resumes a session by id: state, captured answers, and selection all
// survive a page reload as long as the session has not expired.
func (q *SessionQueries) Get(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	s, err := q.sessions.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	e, err := q.events.FindByID(ctx, s.EventID())
	if err != nil {
		return nil, err
	}
	view := NewSessionView(s, e)
	return &view, nil
}
