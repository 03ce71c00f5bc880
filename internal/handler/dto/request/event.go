package request

import (
	"timegrid/internal/usecase/commands"

	"github.com/google/uuid"
)

type QuestionRequest struct {
	Label    string `json:"label" binding:"required"`
	Required bool   `json:"required"`
}

type CreateEventRequest struct {
	RulesetID        uuid.UUID         `json:"ruleset_id" binding:"required"`
	Name             string            `json:"name" binding:"required"`
	Slug             string            `json:"slug" binding:"required"`
	DurationMinutes  int               `json:"duration_minutes" binding:"required,min=1"`
	IncrementMinutes int               `json:"increment_minutes" binding:"required,min=1"`
	MinNoticeMinutes int               `json:"min_notice_minutes" binding:"min=0"`
	MaxDaysAhead     int               `json:"max_days_ahead" binding:"required,min=1"`
	Questions        []QuestionRequest `json:"questions"`
}

func (r CreateEventRequest) ToInput() commands.CreateEventInput {
	questions := make([]commands.QuestionInput, len(r.Questions))
	for i, q := range r.Questions {
		questions[i] = commands.QuestionInput{Label: q.Label, Required: q.Required}
	}
	return commands.CreateEventInput{
		RulesetID:        r.RulesetID,
		Name:             r.Name,
		Slug:             r.Slug,
		DurationMinutes:  r.DurationMinutes,
		IncrementMinutes: r.IncrementMinutes,
		MinNoticeMinutes: r.MinNoticeMinutes,
		MaxDaysAhead:     r.MaxDaysAhead,
		Questions:        questions,
	}
}
