package response

import (
	"timegrid/internal/usecase/queries"

	"github.com/google/uuid"
)

type SessionResponse struct {
	queries.SessionView
	// MissingQuestionIDs flags the required questions still unanswered after a
	// rejected submit.
	MissingQuestionIDs []uuid.UUID `json:"missing_question_ids,omitempty"`
}

type ConfirmResponse struct {
	BookingID uuid.UUID           `json:"booking_id"`
	Session   queries.SessionView `json:"session"`
}
