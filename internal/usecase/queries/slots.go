package queries

import (
	"context"

	"timegrid/internal/domain/availability"
	"timegrid/internal/pkg/clock"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/pkg/timezone"

	"golang.org/x/sync/singleflight"
)

type SlotQueries struct {
	events    EventReader
	rulesets  RulesetReader
	generator *availability.SlotGenerator
	tz        *timezone.Converter
	clock     clock.Clock

	// Concurrent identical lookups share one generation pass; the public slot
	// page fans these out heavily around popular events.
	group singleflight.Group
}

func NewSlotQueries(events EventReader, rulesets RulesetReader, tz *timezone.Converter, clk clock.Clock) *SlotQueries {
	return &SlotQueries{
		events:    events,
		rulesets:  rulesets,
		generator: availability.NewSlotGenerator(tz),
		tz:        tz,
		clock:     clk,
	}
}

// List generates the bookable slots of an event for one date, rendered in the
// viewer's timezone. An empty viewerTZ falls back to the authoring timezone.
func (q *SlotQueries) List(ctx context.Context, eventSlug string, date timezone.Date, viewerTZ string) (*SlotListView, error) {
	e, err := q.events.FindBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if !e.IsActive() {
		return nil, errs.ErrEventNotFound
	}

	key := eventSlug + "|" + date.String()
	result, err, _ := q.group.Do(key, func() (any, error) {
		rs, err := q.rulesets.FindByID(ctx, e.RulesetID())
		if err != nil {
			return nil, err
		}
		return q.generator.Generate(rs, date, e.SlotParams(), q.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	slots := result.([]availability.Slot)

	if viewerTZ == "" {
		rs, err := q.rulesets.FindByID(ctx, e.RulesetID())
		if err != nil {
			return nil, err
		}
		viewerTZ = rs.Timezone()
	}
	loc, err := q.tz.Location(viewerTZ)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTimezone)
	}

	views := make([]SlotView, len(slots))
	for i, s := range slots {
		views[i] = SlotView{Start: s.Start.In(loc), End: s.End.In(loc)}
	}
	return &SlotListView{
		EventSlug: eventSlug,
		Date:      date.String(),
		Timezone:  viewerTZ,
		Slots:     views,
	}, nil
}
