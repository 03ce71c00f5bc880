package commands

import (
	"context"
	"log/slog"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/domain/booking"
	"timegrid/internal/domain/event"
	"timegrid/internal/infra"
	"timegrid/internal/infra/db"
	"timegrid/internal/pkg/clock"
	"timegrid/internal/pkg/config"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/pkg/timezone"

	"github.com/google/uuid"
)

type BookingCommands struct {
	sessions    SessionStore
	events      EventRepository
	rulesets    RulesetRepository
	bookings    BookingRepository
	idempotency IdempotencyRepository
	transactor  Transactor
	notifier    ConfirmationEnqueuer
	generator   *availability.SlotGenerator
	tz          *timezone.Converter
	clock       clock.Clock
	cfg         config.BookingConfig
	logger      *slog.Logger
}

func NewBookingCommands(
	sessions SessionStore,
	events EventRepository,
	rulesets RulesetRepository,
	bookings BookingRepository,
	idempotency IdempotencyRepository,
	transactor Transactor,
	notifier ConfirmationEnqueuer,
	tz *timezone.Converter,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) *BookingCommands {
	return &BookingCommands{
		sessions:    sessions,
		events:      events,
		rulesets:    rulesets,
		bookings:    bookings,
		idempotency: idempotency,
		transactor:  transactor,
		notifier:    notifier,
		generator:   availability.NewSlotGenerator(tz),
		tz:          tz,
		clock:       clk,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start opens a session against an active event type.
func (c *BookingCommands) Start(ctx context.Context, eventSlug string) (*booking.Session, error) {
	evt, err := c.events.FindBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if !evt.IsActive() {
		return nil, errs.ErrEventNotFound
	}

	s := booking.NewSession(evt.ID(), c.clock.Now())
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

type SubmitDetailsInput struct {
	Name    string
	Email   string
	Answers map[uuid.UUID]string
}

// SubmitDetails records invitee fields and answers, then tries to advance to
// slot selection. On missing required answers the session stays collecting and
// the offending question ids are reported alongside the error.
func (c *BookingCommands) SubmitDetails(ctx context.Context, sessionID uuid.UUID, in SubmitDetailsInput) (*booking.Session, []uuid.UUID, error) {
	s, evt, err := c.loadSessionAndEvent(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.SetInvitee(booking.Invitee{Name: in.Name, Email: in.Email}); err != nil {
		return nil, nil, errs.Mark(err, errs.ErrInvalidTransition)
	}
	for id, value := range in.Answers {
		if err := s.SetAnswer(id, value); err != nil {
			return nil, nil, errs.Mark(err, errs.ErrInvalidTransition)
		}
	}

	required := evt.RequiredQuestionIDs()
	if err := s.BeginSlotSelection(required); err != nil {
		missing, _ := s.MissingAnswers(required)
		if saveErr := c.sessions.Save(ctx, s); saveErr != nil {
			return nil, nil, saveErr
		}
		return s, missing, err
	}

	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, nil, err
	}
	return s, nil, nil
}

func (c *BookingCommands) SelectDate(ctx context.Context, sessionID uuid.UUID, date timezone.Date) (*booking.Session, error) {
	return c.apply(ctx, sessionID, func(s *booking.Session, _ *event.EventType) error {
		return s.SelectDate(date)
	})
}

// SelectSlot re-generates the slot list for the session's date and accepts the
// pick only if the start instant is still in it.
func (c *BookingCommands) SelectSlot(ctx context.Context, sessionID uuid.UUID, start time.Time) (*booking.Session, error) {
	return c.apply(ctx, sessionID, func(s *booking.Session, evt *event.EventType) error {
		if s.SelectedDate().IsZero() {
			return booking.ErrDateNotSelected
		}
		rs, err := c.rulesets.FindByID(ctx, evt.RulesetID())
		if err != nil {
			return err
		}
		slots, err := c.generator.Generate(rs, s.SelectedDate(), evt.SlotParams(), c.clock.Now())
		if err != nil {
			return err
		}
		if !availability.ContainsStart(slots, start) {
			return errs.ErrSlotConflict
		}
		duration := time.Duration(evt.DurationMinutes()) * time.Minute
		slot := availability.Slot{Start: start, End: start.Add(duration)}
		return s.SelectSlot(slot, c.tz, rs.Timezone())
	})
}

func (c *BookingCommands) Back(ctx context.Context, sessionID uuid.UUID) (*booking.Session, error) {
	return c.apply(ctx, sessionID, func(s *booking.Session, _ *event.EventType) error {
		return s.Back()
	})
}

// Cancel abandons the session locally. An already-accepted remote commit is
// left untouched.
func (c *BookingCommands) Cancel(ctx context.Context, sessionID uuid.UUID) (*booking.Session, error) {
	return c.apply(ctx, sessionID, func(s *booking.Session, _ *event.EventType) error {
		return s.Cancel()
	})
}

type ConfirmResult struct {
	Session   *booking.Session
	BookingID uuid.UUID
}

// Confirm commits the session's slot as a booking row.
//
// The commit is idempotent: the key is derived from the session id, so every
// retry of the same session lands on the same key. The handshake claims the
// key, inserts the booking and completes the key in one transaction, and on a
// slot conflict pushes the session back to slot selection.
func (c *BookingCommands) Confirm(ctx context.Context, sessionID uuid.UUID) (*ConfirmResult, error) {
	s, evt, err := c.loadSessionAndEvent(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	key := s.IdempotencyKey()

	// A retry against an already-confirmed session returns the committed
	// result instead of failing.
	if s.State() == booking.StateConfirmed {
		rec, err := c.idempotency.Get(ctx, key)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrIdempotencyCheck)
		}
		if rec.Status != IdempotencyCompleted || rec.BookingID == nil {
			return nil, errs.ErrIdempotencyCheck
		}
		return &ConfirmResult{Session: s, BookingID: *rec.BookingID}, nil
	}
	if s.State() != booking.StateConfirming {
		return nil, errs.Mark(booking.ErrInvalidTransition, errs.ErrInvalidTransition)
	}
	slot, ok := s.SelectedSlot()
	if !ok {
		return nil, errs.Mark(booking.ErrSlotNotSelected, errs.ErrInvalidTransition)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CommitTimeout)
	defer cancel()
	claimed, err := c.idempotency.TryInsert(ctx, key)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheck)
	}
	if !claimed {
		rec, err := c.idempotency.Get(ctx, key)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrIdempotencyCheck)
		}
		switch rec.Status {
		case IdempotencyCompleted:
			// A prior attempt already succeeded; finish the session locally.
			if rec.BookingID == nil {
				return nil, errs.ErrIdempotencyCheck
			}
			return c.finishConfirmed(ctx, s, evt, slot, *rec.BookingID)
		case IdempotencyProcessing:
			return nil, errs.ErrIdempotencyInProgress
		default:
			return nil, errs.ErrIdempotencyCheck
		}
	}

	var bookingID uuid.UUID
	txErr := c.transactor.WithinTx(ctx, func(tx db.DBTX) error {
		id, err := c.bookings.Insert(ctx, tx, NewBooking{
			SessionID:    s.ID(),
			EventID:      evt.ID(),
			InviteeName:  s.Invitee().Name,
			InviteeEmail: s.Invitee().Email,
			Answers:      s.Answers(),
			StartAt:      slot.Start,
			EndAt:        slot.End,
		})
		if err != nil {
			return err
		}
		bookingID = id
		return c.idempotency.MarkCompleted(ctx, tx, key, id)
	})
	if txErr != nil {
		// Release the claim so a later retry can run the handshake again.
		if relErr := c.idempotency.Release(ctx, key); relErr != nil {
			c.logger.WarnContext(ctx, "failed to release idempotency key",
				slog.String("key", key.String()),
				slog.String("error", relErr.Error()),
			)
		}
		if infra.IsKind(txErr, infra.KindConflict) {
			return nil, c.pushBackOnConflict(ctx, s)
		}
		return nil, txErr
	}

	return c.finishConfirmed(ctx, s, evt, slot, bookingID)
}

func (c *BookingCommands) finishConfirmed(ctx context.Context, s *booking.Session, evt *event.EventType, slot availability.Slot, bookingID uuid.UUID) (*ConfirmResult, error) {
	if err := s.Confirm(); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	notice := BookingConfirmedNotice{
		BookingID:    bookingID,
		EventName:    evt.Name(),
		InviteeName:  s.Invitee().Name,
		InviteeEmail: s.Invitee().Email,
		StartAt:      slot.Start,
		EndAt:        slot.End,
	}
	if err := c.notifier.EnqueueBookingConfirmed(ctx, notice); err != nil {
		// The booking is committed; a lost notification is logged, not fatal.
		c.logger.ErrorContext(ctx, "failed to enqueue confirmation",
			slog.String("booking_id", bookingID.String()),
			slog.String("error", err.Error()),
		)
	}

	return &ConfirmResult{Session: s, BookingID: bookingID}, nil
}

func (c *BookingCommands) pushBackOnConflict(ctx context.Context, s *booking.Session) error {
	if err := s.ReturnToSlotSelection(); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
	if err := c.sessions.Save(ctx, s); err != nil {
		return err
	}
	return errs.ErrSlotConflict
}

// PurgeExpiredIdempotencyKeys removes keys older than the retention window.
// Scheduled from the cron runner.
func (c *BookingCommands) PurgeExpiredIdempotencyKeys(ctx context.Context) (int64, error) {
	cutoff := c.clock.Now().Add(-c.cfg.IdempotencyTTL)
	return c.idempotency.DeleteExpired(ctx, cutoff)
}

func (c *BookingCommands) apply(ctx context.Context, sessionID uuid.UUID, op func(*booking.Session, *event.EventType) error) (*booking.Session, error) {
	s, evt, err := c.loadSessionAndEvent(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := op(s, evt); err != nil {
		return nil, err
	}
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *BookingCommands) loadSessionAndEvent(ctx context.Context, sessionID uuid.UUID) (*booking.Session, *event.EventType, error) {
	s, err := c.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	evt, err := c.events.FindByID(ctx, s.EventID())
	if err != nil {
		return nil, nil, err
	}
	return s, evt, nil
}
