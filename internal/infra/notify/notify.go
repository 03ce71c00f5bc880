package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"timegrid/internal/pkg/errs"
	"timegrid/internal/usecase/commands"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirmed = "booking:confirmed"

type bookingConfirmedPayload struct {
	BookingID    string    `json:"booking_id"`
	EventName    string    `json:"event_name"`
	InviteeName  string    `json:"invitee_name"`
	InviteeEmail string    `json:"invitee_email"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
}

// Enqueuer pushes confirmation notifications onto the task queue. Delivery is
// at-least-once; the handler must tolerate duplicates.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueBookingConfirmed(ctx context.Context, n commands.BookingConfirmedNotice) error {
	payload, err := json.Marshal(bookingConfirmedPayload{
		BookingID:    n.BookingID.String(),
		EventName:    n.EventName,
		InviteeName:  n.InviteeName,
		InviteeEmail: n.InviteeEmail,
		StartAt:      n.StartAt,
		EndAt:        n.EndAt,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode confirmation payload")
	}

	task := asynq.NewTask(TypeBookingConfirmed, payload)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	return errs.Wrap(err, "failed to enqueue confirmation task")
}

// ConfirmationHandler consumes booking:confirmed tasks. Mail delivery is left
// to the deployment; the handler logs what would be sent.
type ConfirmationHandler struct {
	logger *slog.Logger
}

func NewConfirmationHandler(logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{logger: logger}
}

func (h *ConfirmationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p bookingConfirmedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads never succeed on retry.
		return errs.Wrap(asynq.SkipRetry, "malformed confirmation payload")
	}

	h.logger.InfoContext(ctx, "booking confirmed",
		slog.String("booking_id", p.BookingID),
		slog.String("event", p.EventName),
		slog.String("invitee_email", p.InviteeEmail),
		slog.Time("start_at", p.StartAt),
	)
	return nil
}
