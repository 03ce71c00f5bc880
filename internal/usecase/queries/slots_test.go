//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/domain/event"
	"timegrid/internal/pkg/clock"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/pkg/timezone"
	"timegrid/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubEventReader struct {
	events map[string]*event.EventType
}

func (r *stubEventReader) FindByID(_ context.Context, id uuid.UUID) (*event.EventType, error) {
	for _, e := range r.events {
		if e.ID() == id {
			return e, nil
		}
	}
	return nil, errs.ErrEventNotFound
}

func (r *stubEventReader) FindBySlug(_ context.Context, slug string) (*event.EventType, error) {
	e, ok := r.events[slug]
	if !ok {
		return nil, errs.ErrEventNotFound
	}
	return e, nil
}

func (r *stubEventReader) ListByOwner(_ context.Context, _ uuid.UUID) ([]*event.EventType, error) {
	return nil, nil
}

type stubRulesetReader struct {
	rulesets map[uuid.UUID]*availability.RuleSet
}

func (r *stubRulesetReader) FindByID(_ context.Context, id uuid.UUID) (*availability.RuleSet, error) {
	rs, ok := r.rulesets[id]
	if !ok {
		return nil, errs.ErrRulesetNotFound
	}
	return rs, nil
}

func (r *stubRulesetReader) ListByOwner(_ context.Context, _ uuid.UUID) ([]*availability.RuleSet, error) {
	return nil, nil
}

func newSlotQueries(t *testing.T, rulesetTZ string, now time.Time) (*queries.SlotQueries, string) {
	t.Helper()
	ownerID := uuid.New()

	rs, err := availability.NewRuleSet(ownerID, uuid.New(), "Weekdays", rulesetTZ)
	require.NoError(t, err)
	require.NoError(t, rs.ToggleDay(time.Wednesday))

	evt, err := event.NewEventType(ownerID, rs.ID(), "Intro Call", "intro-call", 60, 30, 60, 30, nil)
	require.NoError(t, err)

	q := queries.NewSlotQueries(
		&stubEventReader{events: map[string]*event.EventType{"intro-call": evt}},
		&stubRulesetReader{rulesets: map[uuid.UUID]*availability.RuleSet{rs.ID(): rs}},
		timezone.NewConverter(),
		clock.NewFixedClock(now),
	)
	return q, "intro-call"
}

func TestSlotQueries_List(t *testing.T) {
	now := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	wednesday := timezone.NewDate(2026, time.September, 2)

	t.Run("renders slots in the viewer's timezone", func(t *testing.T) {
		q, slug := newSlotQueries(t, "UTC", now)

		view, err := q.List(context.Background(), slug, wednesday, "America/New_York")
		require.NoError(t, err)
		require.Equal(t, "America/New_York", view.Timezone)
		// 09:00-17:00 UTC, 60-minute duration on a 30-minute grid.
		require.Len(t, view.Slots, 15)

		first := view.Slots[0]
		require.Equal(t, "America/New_York", first.Start.Location().String())
		require.True(t, first.Start.Equal(time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)),
			"conversion changes the rendering, not the instant")
	})

	t.Run("falls back to the authoring timezone", func(t *testing.T) {
		q, slug := newSlotQueries(t, "Europe/Berlin", now)

		view, err := q.List(context.Background(), slug, wednesday, "")
		require.NoError(t, err)
		require.Equal(t, "Europe/Berlin", view.Timezone)
		require.NotEmpty(t, view.Slots)
		require.Equal(t, "Europe/Berlin", view.Slots[0].Start.Location().String())
	})

	t.Run("rejects an unknown viewer timezone", func(t *testing.T) {
		q, slug := newSlotQueries(t, "UTC", now)

		_, err := q.List(context.Background(), slug, wednesday, "Not/A_Zone")
		require.ErrorIs(t, err, errs.ErrInvalidTimezone)
	})

	t.Run("unknown slug", func(t *testing.T) {
		q, _ := newSlotQueries(t, "UTC", now)

		_, err := q.List(context.Background(), "nope", wednesday, "")
		require.ErrorIs(t, err, errs.ErrEventNotFound)
	})
}
