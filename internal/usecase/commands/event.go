package commands

import (
	"context"

	"timegrid/internal/domain/event"
	"timegrid/internal/pkg/errs"

	"github.com/google/uuid"
)

type EventCommands struct {
	events   EventRepository
	rulesets RulesetRepository
}

func NewEventCommands(events EventRepository, rulesets RulesetRepository) *EventCommands {
	return &EventCommands{events: events, rulesets: rulesets}
}

type QuestionInput struct {
	Label    string
	Required bool
}

type CreateEventInput struct {
	RulesetID        uuid.UUID
	Name             string
	Slug             string
	DurationMinutes  int
	IncrementMinutes int
	MinNoticeMinutes int
	MaxDaysAhead     int
	Questions        []QuestionInput
}

func (c *EventCommands) Create(ctx context.Context, actor Actor, in CreateEventInput) (*event.EventType, error) {
	rs, err := c.rulesets.FindByID(ctx, in.RulesetID)
	if err != nil {
		return nil, err
	}
	if rs.OwnerID() != actor.UserID {
		return nil, errs.ErrRulesetNotFound
	}

	questions := make([]event.Question, 0, len(in.Questions))
	for _, q := range in.Questions {
		question, err := event.NewQuestion(uuid.Nil, q.Label, q.Required)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrRulesetValidation)
		}
		questions = append(questions, question)
	}

	evt, err := event.NewEventType(
		actor.UserID, in.RulesetID,
		in.Name, in.Slug,
		in.DurationMinutes, in.IncrementMinutes, in.MinNoticeMinutes, in.MaxDaysAhead,
		questions,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRulesetValidation)
	}

	if err := c.events.Create(ctx, evt); err != nil {
		return nil, err
	}
	return evt, nil
}
