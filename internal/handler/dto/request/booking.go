package request

import (
	"time"

	"timegrid/internal/usecase/commands"

	"github.com/google/uuid"
)

type SubmitDetailsRequest struct {
	Name    string            `json:"name" binding:"required"`
	Email   string            `json:"email" binding:"required,email"`
	Answers map[string]string `json:"answers"`
}

func (r SubmitDetailsRequest) ToInput() (commands.SubmitDetailsInput, error) {
	answers := make(map[uuid.UUID]string, len(r.Answers))
	for id, v := range r.Answers {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return commands.SubmitDetailsInput{}, err
		}
		answers[parsed] = v
	}
	return commands.SubmitDetailsInput{
		Name:    r.Name,
		Email:   r.Email,
		Answers: answers,
	}, nil
}

type SelectDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type SelectSlotRequest struct {
	Start time.Time `json:"start" binding:"required"`
}
