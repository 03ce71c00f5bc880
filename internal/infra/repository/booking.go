package repository

import (
	"context"
	"encoding/json"

	"timegrid/internal/infra"
	"timegrid/internal/infra/db"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/usecase/commands"

	"github.com/google/uuid"
)

// BookingRepository writes confirmed bookings. The unique index on
// (event_id, start_at) is the single source of truth for double-booking.
type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Insert(ctx context.Context, tx db.DBTX, b commands.NewBooking) (uuid.UUID, error) {
	answers := make(map[string]string, len(b.Answers))
	for id, v := range b.Answers {
		answers[id.String()] = v
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to encode booking answers", err)
	}

	id := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, session_id, event_id, invitee_name, invitee_email, answers, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, b.SessionID, b.EventID, b.InviteeName, b.InviteeEmail, answersJSON, b.StartAt, b.EndAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, errs.Mark(
				infra.WrapRepoErr("slot already booked", err, infra.KindConflict),
				errs.ErrSlotConflict,
			)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to insert booking", err)
	}
	return id, nil
}
