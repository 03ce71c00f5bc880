//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
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
	"timegrid/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes for the data-shaped ports ----

type memSessionStore struct {
	records map[uuid.UUID]booking.Record
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{records: make(map[uuid.UUID]booking.Record)}
}

func (s *memSessionStore) Save(_ context.Context, sess *booking.Session) error {
	s.records[sess.ID()] = sess.ToRecord()
	return nil
}

func (s *memSessionStore) Find(_ context.Context, id uuid.UUID) (*booking.Session, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	return booking.FromRecord(rec)
}

func (s *memSessionStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.records, id)
	return nil
}

type memEventRepo struct {
	events map[uuid.UUID]*event.EventType
}

func (r *memEventRepo) Create(_ context.Context, e *event.EventType) error {
	r.events[e.ID()] = e
	return nil
}

func (r *memEventRepo) FindByID(_ context.Context, id uuid.UUID) (*event.EventType, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, errs.ErrEventNotFound
	}
	return e, nil
}

func (r *memEventRepo) FindBySlug(_ context.Context, slug string) (*event.EventType, error) {
	for _, e := range r.events {
		if e.Slug() == slug {
			return e, nil
		}
	}
	return nil, errs.ErrEventNotFound
}

type memRulesetRepo struct {
	rulesets map[uuid.UUID]*availability.RuleSet
}

func (r *memRulesetRepo) Create(_ context.Context, rs *availability.RuleSet) error {
	r.rulesets[rs.ID()] = rs
	return nil
}

func (r *memRulesetRepo) FindByID(_ context.Context, id uuid.UUID) (*availability.RuleSet, error) {
	rs, ok := r.rulesets[id]
	if !ok {
		return nil, errs.ErrRulesetNotFound
	}
	return rs, nil
}

func (r *memRulesetRepo) Replace(_ context.Context, rs *availability.RuleSet) error {
	r.rulesets[rs.ID()] = rs
	return nil
}

// ---- interaction mocks ----

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Insert(ctx context.Context, tx db.DBTX, b commands.NewBooking) (uuid.UUID, error) {
	args := m.Called(ctx, tx, b)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type mockIdempotencyRepo struct{ mock.Mock }

func (m *mockIdempotencyRepo) TryInsert(ctx context.Context, key uuid.UUID) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyRepo) Get(ctx context.Context, key uuid.UUID) (*commands.IdempotencyRecord, error) {
	args := m.Called(ctx, key)
	if rec := args.Get(0); rec != nil {
		return rec.(*commands.IdempotencyRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdempotencyRepo) MarkCompleted(ctx context.Context, tx db.DBTX, key, bookingID uuid.UUID) error {
	return m.Called(ctx, tx, key, bookingID).Error(0)
}

func (m *mockIdempotencyRepo) Release(ctx context.Context, key uuid.UUID) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyRepo) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) EnqueueBookingConfirmed(ctx context.Context, n commands.BookingConfirmedNotice) error {
	return m.Called(ctx, n).Error(0)
}

// fakeTransactor runs the function directly; the repositories under it are mocks.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(_ context.Context, fn func(tx db.DBTX) error) error {
	return fn(nil)
}

// ---- environment ----

type bookingEnv struct {
	cmds        *commands.BookingCommands
	sessions    *memSessionStore
	bookings    *mockBookingRepo
	idempotency *mockIdempotencyRepo
	notifier    *mockNotifier
	event       *event.EventType
	questionID  uuid.UUID
	clock       *clock.FixedClock
}

var envNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func newBookingEnv(t *testing.T) *bookingEnv {
	t.Helper()

	ownerID := uuid.New()
	orgID := uuid.New()

	rs, err := availability.NewRuleSet(ownerID, orgID, "Weekdays", "UTC")
	require.NoError(t, err)
	// Enabling seeds the default 09:00-17:00 window.
	require.NoError(t, rs.ToggleDay(time.Wednesday))

	questionID := uuid.New()
	q, err := event.NewQuestion(questionID, "What should we discuss?", true)
	require.NoError(t, err)

	evt, err := event.NewEventType(ownerID, rs.ID(), "Intro Call", "intro-call", 60, 30, 60, 30, []event.Question{q})
	require.NoError(t, err)

	env := &bookingEnv{
		sessions:    newMemSessionStore(),
		bookings:    &mockBookingRepo{},
		idempotency: &mockIdempotencyRepo{},
		notifier:    &mockNotifier{},
		event:       evt,
		questionID:  questionID,
		clock:       clock.NewFixedClock(envNow),
	}

	env.cmds = commands.NewBookingCommands(
		env.sessions,
		&memEventRepo{events: map[uuid.UUID]*event.EventType{evt.ID(): evt}},
		&memRulesetRepo{rulesets: map[uuid.UUID]*availability.RuleSet{rs.ID(): rs}},
		env.bookings,
		env.idempotency,
		fakeTransactor{},
		env.notifier,
		timezone.NewConverter(),
		env.clock,
		config.NewTestConfig().Booking,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return env
}

var (
	wednesday = timezone.NewDate(2026, time.September, 2)
	slotStart = time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)
)

func (e *bookingEnv) sessionAtConfirming(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	s, err := e.cmds.Start(ctx, "intro-call")
	require.NoError(t, err)

	_, missing, err := e.cmds.SubmitDetails(ctx, s.ID(), commands.SubmitDetailsInput{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Answers: map[uuid.UUID]string{e.questionID: "engines"},
	})
	require.NoError(t, err)
	require.Empty(t, missing)

	_, err = e.cmds.SelectDate(ctx, s.ID(), wednesday)
	require.NoError(t, err)

	_, err = e.cmds.SelectSlot(ctx, s.ID(), slotStart)
	require.NoError(t, err)

	return s.ID()
}

// ---- tests ----

func TestBookingCommands_SubmitDetails(t *testing.T) {
	t.Run("missing required answer keeps the session collecting and flags the question", func(t *testing.T) {
		env := newBookingEnv(t)
		ctx := context.Background()

		s, err := env.cmds.Start(ctx, "intro-call")
		require.NoError(t, err)

		_, missing, err := env.cmds.SubmitDetails(ctx, s.ID(), commands.SubmitDetailsInput{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		})
		require.ErrorIs(t, err, booking.ErrMissingRequiredAnswers)
		require.Equal(t, []uuid.UUID{env.questionID}, missing)

		reloaded, err := env.sessions.Find(ctx, s.ID())
		require.NoError(t, err)
		require.Equal(t, booking.StateCollecting, reloaded.State())
	})

	t.Run("unknown event slug", func(t *testing.T) {
		env := newBookingEnv(t)
		_, err := env.cmds.Start(context.Background(), "no-such-event")
		require.ErrorIs(t, err, errs.ErrEventNotFound)
	})
}

func TestBookingCommands_SelectSlot(t *testing.T) {
	t.Run("start not in the generated list is rejected", func(t *testing.T) {
		env := newBookingEnv(t)
		ctx := context.Background()

		s, err := env.cmds.Start(ctx, "intro-call")
		require.NoError(t, err)
		_, _, err = env.cmds.SubmitDetails(ctx, s.ID(), commands.SubmitDetailsInput{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Answers: map[uuid.UUID]string{env.questionID: "engines"},
		})
		require.NoError(t, err)
		_, err = env.cmds.SelectDate(ctx, s.ID(), wednesday)
		require.NoError(t, err)

		// 09:15 is off the 30-minute increment grid.
		misaligned := time.Date(2026, time.September, 2, 9, 15, 0, 0, time.UTC)
		_, err = env.cmds.SelectSlot(ctx, s.ID(), misaligned)
		require.ErrorIs(t, err, errs.ErrSlotConflict)
	})
}

func TestBookingCommands_Confirm(t *testing.T) {
	t.Run("happy path commits, completes the key, and notifies", func(t *testing.T) {
		env := newBookingEnv(t)
		ctx := context.Background()
		sessionID := env.sessionAtConfirming(t)

		bookingID := uuid.New()
		env.idempotency.On("TryInsert", mock.Anything, mock.Anything).Return(true, nil).Once()
		env.bookings.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(b commands.NewBooking) bool {
			return b.EventID == env.event.ID() && b.StartAt.Equal(slotStart)
		})).Return(bookingID, nil).Once()
		env.idempotency.On("MarkCompleted", mock.Anything, mock.Anything, mock.Anything, bookingID).Return(nil).Once()
		env.notifier.On("EnqueueBookingConfirmed", mock.Anything, mock.MatchedBy(func(n commands.BookingConfirmedNotice) bool {
			return n.BookingID == bookingID && n.InviteeEmail == "ada@example.com"
		})).Return(nil).Once()

		result, err := env.cmds.Confirm(ctx, sessionID)
		require.NoError(t, err)
		require.Equal(t, bookingID, result.BookingID)
		require.Equal(t, booking.StateConfirmed, result.Session.State())

		reloaded, err := env.sessions.Find(ctx, sessionID)
		require.NoError(t, err)
		require.Equal(t, booking.StateConfirmed, reloaded.State())

		env.bookings.AssertExpectations(t)
		env.idempotency.AssertExpectations(t)
		env.notifier.AssertExpectations(t)
	})

	t.Run("slot conflict releases the key and pushes back to slot selection", func(t *testing.T) {
		env := newBookingEnv(t)
		ctx := context.Background()
		sessionID := env.sessionAtConfirming(t)

		conflict := errs.Mark(
			infra.WrapRepoErr("slot already booked", errs.New("duplicate key"), infra.KindConflict),
			errs.ErrSlotConflict,
		)
		env.idempotency.On("TryInsert", mock.Anything, mock.Anything).Return(true, nil).Once()
		env.bookings.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(uuid.Nil, conflict).Once()
		env.idempotency.On("Release", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := env.cmds.Confirm(ctx, sessionID)
		require.ErrorIs(t, err, errs.ErrSlotConflict)

		reloaded, err := env.sessions.Find(ctx, sessionID)
		require.NoError(t, err)
		require.Equal(t, booking.StateSlotSelecting, reloaded.State())
		require.Equal(t, wednesday, reloaded.SelectedDate(), "date selection is kept")
		_, picked := reloaded.SelectedSlot()
		require.False(t, picked, "time selection is cleared")

		env.idempotency.AssertExpectations(t)
	})

	t.Run("retry after a completed commit returns the original booking", func(t *testing.T) {
		env := newBookingEnv(t)
		ctx := context.Background()
		sessionID := env.sessionAtConfirming(t)

		bookingID := uuid.New()
		env.idempotency.On("TryInsert", mock.Anything, mock.Anything).Return(true, nil).Once()
		env.bookings.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(bookingID, nil).Once()
		env.idempotency.On("MarkCompleted", mock.Anything, mock.Anything, mock.Anything, bookingID).Return(nil).Once()
		env.notifier.On("EnqueueBookingConfirmed", mock.Anything, mock.Anything).Return(nil).Once()

		first, err := env.cmds.Confirm(ctx, sessionID)
		require.NoError(t, err)

		env.idempotency.On("Get", mock.Anything, mock.Anything).Return(&commands.IdempotencyRecord{
			Key:       first.Session.IdempotencyKey(),
			Status:    commands.IdempotencyCompleted,
			BookingID: &bookingID,
		}, nil).Once()

		second, err := env.cmds.Confirm(ctx, sessionID)
		require.NoError(t, err)
		require.Equal(t, first.BookingID, second.BookingID)
	})

	t.Run("concurrent attempt still processing is reported", func(t *testing.T) {
		env := newBookingEnv(t)
		ctx := context.Background()
		sessionID := env.sessionAtConfirming(t)

		env.idempotency.On("TryInsert", mock.Anything, mock.Anything).Return(false, nil).Once()
		env.idempotency.On("Get", mock.Anything, mock.Anything).Return(&commands.IdempotencyRecord{
			Status: commands.IdempotencyProcessing,
		}, nil).Once()

		_, err := env.cmds.Confirm(ctx, sessionID)
		require.ErrorIs(t, err, errs.ErrIdempotencyInProgress)
	})

	t.Run("confirm without a selection is rejected", func(t *testing.T) {
		env := newBookingEnv(t)
		ctx := context.Background()

		s, err := env.cmds.Start(ctx, "intro-call")
		require.NoError(t, err)

		_, err = env.cmds.Confirm(ctx, s.ID())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestBookingCommands_Cancel(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()
	sessionID := env.sessionAtConfirming(t)

	// No commit call is made: a cancel never reaches the write side.
	_, err := env.cmds.Cancel(ctx, sessionID)
	require.NoError(t, err)

	reloaded, err := env.sessions.Find(ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, booking.StateCancelled, reloaded.State())

	env.bookings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}
