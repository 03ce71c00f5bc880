//go:build unit

package booking_test

import (
	"testing"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/domain/booking"
	"timegrid/internal/pkg/timezone"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow  = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	testSlot = availability.Slot{
		Start: time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC),
	}
	testDate = timezone.NewDate(2026, time.September, 2)
)

func completeInvitee() booking.Invitee {
	return booking.Invitee{Name: "Ada Lovelace", Email: "ada@example.com"}
}

func sessionAtSlotSelecting(t *testing.T, required []uuid.UUID) *booking.Session {
	t.Helper()
	s := booking.NewSession(uuid.New(), testNow)
	require.NoError(t, s.SetInvitee(completeInvitee()))
	for _, id := range required {
		require.NoError(t, s.SetAnswer(id, "answered"))
	}
	require.NoError(t, s.BeginSlotSelection(required))
	return s
}

func sessionAtConfirming(t *testing.T) *booking.Session {
	t.Helper()
	s := sessionAtSlotSelecting(t, nil)
	require.NoError(t, s.SelectDate(testDate))
	require.NoError(t, s.SelectSlot(testSlot, timezone.NewConverter(), "UTC"))
	return s
}

func TestSession_Collecting(t *testing.T) {
	t.Run("starts collecting", func(t *testing.T) {
		s := booking.NewSession(uuid.New(), testNow)
		assert.Equal(t, booking.StateCollecting, s.State())
	})

	t.Run("unanswered required question blocks the transition and is flagged", func(t *testing.T) {
		answered := uuid.New()
		unanswered := uuid.New()

		s := booking.NewSession(uuid.New(), testNow)
		require.NoError(t, s.SetInvitee(completeInvitee()))
		require.NoError(t, s.SetAnswer(answered, "yes"))
		require.NoError(t, s.SetAnswer(unanswered, "   "))

		err := s.BeginSlotSelection([]uuid.UUID{answered, unanswered})
		assert.ErrorIs(t, err, booking.ErrMissingRequiredAnswers)
		assert.Equal(t, booking.StateCollecting, s.State())

		missing, inviteeIncomplete := s.MissingAnswers([]uuid.UUID{answered, unanswered})
		assert.Equal(t, []uuid.UUID{unanswered}, missing, "only the unanswered question is flagged")
		assert.False(t, inviteeIncomplete)
	})

	t.Run("incomplete invitee blocks the transition", func(t *testing.T) {
		s := booking.NewSession(uuid.New(), testNow)
		require.NoError(t, s.SetInvitee(booking.Invitee{Name: "Ada"}))

		err := s.BeginSlotSelection(nil)
		assert.ErrorIs(t, err, booking.ErrMissingRequiredAnswers)
	})

	t.Run("complete answers advance to slot selection", func(t *testing.T) {
		required := []uuid.UUID{uuid.New()}
		s := sessionAtSlotSelecting(t, required)
		assert.Equal(t, booking.StateSlotSelecting, s.State())
	})
}

func TestSession_SlotSelecting(t *testing.T) {
	t.Run("time requires a date first", func(t *testing.T) {
		s := sessionAtSlotSelecting(t, nil)
		err := s.SelectSlot(testSlot, timezone.NewConverter(), "UTC")
		assert.ErrorIs(t, err, booking.ErrDateNotSelected)
	})

	t.Run("re-picking a date clears the chosen time", func(t *testing.T) {
		s := sessionAtSlotSelecting(t, nil)
		require.NoError(t, s.SelectDate(testDate))
		require.NoError(t, s.SelectSlot(testSlot, timezone.NewConverter(), "UTC"))
		require.Equal(t, booking.StateConfirming, s.State())

		require.NoError(t, s.Back())
		require.NoError(t, s.SelectDate(testDate.AddDays(1)))

		_, ok := s.SelectedSlot()
		assert.False(t, ok)
	})

	t.Run("slot on a different date is rejected", func(t *testing.T) {
		s := sessionAtSlotSelecting(t, nil)
		require.NoError(t, s.SelectDate(testDate.AddDays(3)))
		err := s.SelectSlot(testSlot, timezone.NewConverter(), "UTC")
		assert.ErrorIs(t, err, booking.ErrSlotNotOnSelectedDate)
	})

	t.Run("answers are editable only while collecting", func(t *testing.T) {
		s := sessionAtSlotSelecting(t, nil)
		assert.ErrorIs(t, s.SetAnswer(uuid.New(), "late"), booking.ErrInvalidTransition)
	})
}

func TestSession_BackAndModify(t *testing.T) {
	questionID := uuid.New()
	s := booking.NewSession(uuid.New(), testNow)
	require.NoError(t, s.SetInvitee(completeInvitee()))
	require.NoError(t, s.SetAnswer(questionID, "keep me"))
	require.NoError(t, s.BeginSlotSelection([]uuid.UUID{questionID}))
	require.NoError(t, s.SelectDate(testDate))
	require.NoError(t, s.SelectSlot(testSlot, timezone.NewConverter(), "UTC"))

	require.NoError(t, s.Back())
	assert.Equal(t, booking.StateSlotSelecting, s.State())

	require.NoError(t, s.Back())
	assert.Equal(t, booking.StateCollecting, s.State())
	assert.Equal(t, "keep me", s.Answers()[questionID], "captured answers survive Modify")

	t.Run("back from collecting is invalid", func(t *testing.T) {
		assert.ErrorIs(t, s.Back(), booking.ErrInvalidTransition)
	})
}

func TestSession_ConfirmAndCancel(t *testing.T) {
	t.Run("confirm is terminal and freezes the session", func(t *testing.T) {
		s := sessionAtConfirming(t)
		require.NoError(t, s.Confirm())
		assert.Equal(t, booking.StateConfirmed, s.State())

		assert.ErrorIs(t, s.Cancel(), booking.ErrTerminalState)
		assert.ErrorIs(t, s.SelectDate(testDate), booking.ErrTerminalState)
		assert.ErrorIs(t, s.BeginSlotSelection(nil), booking.ErrTerminalState)
	})

	t.Run("cancel reachable from every non-terminal state", func(t *testing.T) {
		collecting := booking.NewSession(uuid.New(), testNow)
		require.NoError(t, collecting.Cancel())

		selecting := sessionAtSlotSelecting(t, nil)
		require.NoError(t, selecting.Cancel())

		confirming := sessionAtConfirming(t)
		require.NoError(t, confirming.Cancel())

		assert.Equal(t, booking.StateCancelled, confirming.State())
	})

	t.Run("conflict pushes back to slot selection with the time cleared", func(t *testing.T) {
		s := sessionAtConfirming(t)
		require.NoError(t, s.ReturnToSlotSelection())

		assert.Equal(t, booking.StateSlotSelecting, s.State())
		_, ok := s.SelectedSlot()
		assert.False(t, ok)
		assert.Equal(t, testDate, s.SelectedDate(), "date selection is kept")
	})
}

func TestSession_IdempotencyKey(t *testing.T) {
	s := sessionAtConfirming(t)

	first := s.IdempotencyKey()
	second := s.IdempotencyKey()
	assert.Equal(t, first, second, "key must be stable across retries")
	assert.NotEqual(t, uuid.Nil, first)

	other := booking.NewSession(uuid.New(), testNow)
	assert.NotEqual(t, first, other.IdempotencyKey(), "different sessions derive different keys")
}

func TestSession_RecordRoundTrip(t *testing.T) {
	questionID := uuid.New()
	s := booking.NewSession(uuid.New(), testNow)
	require.NoError(t, s.SetInvitee(completeInvitee()))
	require.NoError(t, s.SetAnswer(questionID, "round trip"))
	require.NoError(t, s.BeginSlotSelection([]uuid.UUID{questionID}))
	require.NoError(t, s.SelectDate(testDate))
	require.NoError(t, s.SelectSlot(testSlot, timezone.NewConverter(), "UTC"))

	restored, err := booking.FromRecord(s.ToRecord())
	require.NoError(t, err)

	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, s.State(), restored.State())
	assert.Equal(t, s.SelectedDate(), restored.SelectedDate())
	assert.Equal(t, s.Answers(), restored.Answers())
	assert.Equal(t, s.IdempotencyKey(), restored.IdempotencyKey())

	slot, ok := restored.SelectedSlot()
	require.True(t, ok)
	assert.True(t, slot.Start.Equal(testSlot.Start))

	t.Run("invalid record rejected", func(t *testing.T) {
		_, err := booking.FromRecord(booking.Record{})
		assert.ErrorIs(t, err, booking.ErrInvalidRecord)
	})
}
