//go:build unit

package availability_test

import (
	"testing"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/pkg/timezone"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rulesetWithWindow(t *testing.T, tz string, weekday time.Weekday, start, end availability.WallTime, buffer int) *availability.RuleSet {
	t.Helper()
	rs, err := availability.NewRuleSet(uuid.New(), uuid.New(), "Schedule", tz)
	require.NoError(t, err)

	w, err := availability.NewTimeWindow(uuid.Nil, start, end, buffer)
	require.NoError(t, err)
	day, err := availability.NewDayRule(weekday, true, []availability.TimeWindow{w})
	require.NoError(t, err)

	days := rs.Days()
	days[weekday] = day
	require.NoError(t, rs.ReplaceDays(days, tz))
	return rs
}

func TestSlotGenerator_ReferenceExample(t *testing.T) {
	// window 09:00-17:00, buffer 15, duration 60, increment 30, notice 0,
	// now = same-day 08:00: effective end 16:45, candidates every 30 min
	// from 09:00 while start+60 fits, giving exactly 14 slots.
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "UTC", time.Wednesday, 540, 1020, 15)

	date := timezone.NewDate(2026, time.September, 2) // a Wednesday
	now := time.Date(2026, time.September, 2, 8, 0, 0, 0, time.UTC)
	params := availability.SlotParams{
		DurationMinutes:  60,
		IncrementMinutes: 30,
		MinNoticeMinutes: 0,
		MaxDaysAhead:     30,
	}

	slots, err := gen.Generate(rs, date, params, now)
	require.NoError(t, err)

	require.Len(t, slots, 14)
	assert.Equal(t, time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, time.September, 2, 15, 30, 0, 0, time.UTC), slots[13].Start)

	for _, s := range slots {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
		assert.False(t, s.Start.Before(time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)))
		assert.False(t, s.End.After(time.Date(2026, time.September, 2, 16, 45, 0, 0, time.UTC)),
			"slot must finish at or before window end minus buffer")
	}
}

func TestSlotGenerator_DisabledDayYieldsNothing(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "UTC", time.Wednesday, 540, 1020, 0)

	// disable the day but keep its window configured
	require.NoError(t, rs.ToggleDay(time.Wednesday))

	slots, err := gen.Generate(rs,
		timezone.NewDate(2026, time.September, 2),
		availability.SlotParams{DurationMinutes: 30, IncrementMinutes: 30, MaxDaysAhead: 30},
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotGenerator_EnabledDayWithoutWindows(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "UTC", time.Wednesday, 540, 1020, 0)

	day, err := rs.Day(time.Wednesday)
	require.NoError(t, err)
	require.NoError(t, rs.RemoveWindow(time.Wednesday, day.Windows()[0].ID()))

	slots, err := gen.Generate(rs,
		timezone.NewDate(2026, time.September, 2),
		availability.SlotParams{DurationMinutes: 30, IncrementMinutes: 30, MaxDaysAhead: 30},
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotGenerator_HorizonLimit(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "UTC", time.Wednesday, 540, 1020, 0)

	now := time.Date(2026, time.September, 2, 8, 0, 0, 0, time.UTC)
	params := availability.SlotParams{DurationMinutes: 30, IncrementMinutes: 30, MaxDaysAhead: 7}

	t.Run("date beyond horizon is empty regardless of windows", func(t *testing.T) {
		slots, err := gen.Generate(rs, timezone.NewDate(2026, time.September, 2).AddDays(8), params, now)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("date on the horizon edge still generates", func(t *testing.T) {
		// +7 days from Wednesday lands on the next Wednesday
		slots, err := gen.Generate(rs, timezone.NewDate(2026, time.September, 9), params, now)
		require.NoError(t, err)
		assert.NotEmpty(t, slots)
	})
}

func TestSlotGenerator_MinNotice(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "UTC", time.Wednesday, 540, 720, 0) // 09:00-12:00

	now := time.Date(2026, time.September, 2, 9, 10, 0, 0, time.UTC)
	params := availability.SlotParams{
		DurationMinutes:  30,
		IncrementMinutes: 30,
		MinNoticeMinutes: 60,
		MaxDaysAhead:     30,
	}

	slots, err := gen.Generate(rs, timezone.NewDate(2026, time.September, 2), params, now)
	require.NoError(t, err)

	// candidates before 10:10 are dropped; 10:30, 11:00, 11:30 remain
	require.Len(t, slots, 3)
	assert.Equal(t, time.Date(2026, time.September, 2, 10, 30, 0, 0, time.UTC), slots[0].Start)
}

func TestSlotGenerator_Deterministic(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "Europe/Berlin", time.Wednesday, 480, 1080, 10)

	date := timezone.NewDate(2026, time.September, 2)
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	params := availability.SlotParams{DurationMinutes: 45, IncrementMinutes: 15, MinNoticeMinutes: 120, MaxDaysAhead: 60}

	first, err := gen.Generate(rs, date, params, now)
	require.NoError(t, err)
	second, err := gen.Generate(rs, date, params, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Start.Before(first[i].Start), "slots must be strictly ascending")
	}
}

func TestSlotGenerator_NoOverlapWhenIncrementCoversDuration(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "UTC", time.Monday, 540, 1020, 0)

	slots, err := gen.Generate(rs,
		timezone.NewDate(2026, time.September, 7),
		availability.SlotParams{DurationMinutes: 30, IncrementMinutes: 45, MaxDaysAhead: 30},
		time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i := 1; i < len(slots); i++ {
		assert.False(t, slots[i].Start.Before(slots[i-1].End))
	}
}

func TestSlotGenerator_AuthoringTimezone(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())

	t.Run("wall clock resolved with DST rules of the date", func(t *testing.T) {
		rs := rulesetWithWindow(t, "America/New_York", time.Sunday, 540, 720, 0)
		params := availability.SlotParams{DurationMinutes: 60, IncrementMinutes: 60, MaxDaysAhead: 30}
		now := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)

		// 2026-03-08 is the spring-forward Sunday: 09:00 EDT = 13:00 UTC
		slots, err := gen.Generate(rs, timezone.NewDate(2026, time.March, 8), params, now)
		require.NoError(t, err)
		require.NotEmpty(t, slots)
		assert.Equal(t, time.Date(2026, time.March, 8, 13, 0, 0, 0, time.UTC), slots[0].Start.UTC())

		// one week earlier the same wall clock is still EST: 09:00 = 14:00 UTC
		slots, err = gen.Generate(rs, timezone.NewDate(2026, time.March, 1), params, now)
		require.NoError(t, err)
		require.NotEmpty(t, slots)
		assert.Equal(t, time.Date(2026, time.March, 1, 14, 0, 0, 0, time.UTC), slots[0].Start.UTC())
	})

	t.Run("unknown ruleset timezone is a configuration error", func(t *testing.T) {
		rs, err := availability.NewRuleSet(uuid.New(), uuid.New(), "Broken", "Invalid/Zone")
		require.NoError(t, err)
		_, err = gen.Generate(rs, timezone.NewDate(2026, time.September, 2),
			availability.SlotParams{DurationMinutes: 30, IncrementMinutes: 30, MaxDaysAhead: 30},
			time.Now())
		assert.ErrorIs(t, err, timezone.ErrUnknownTimezone)
	})
}

func TestSlotGenerator_MultipleWindowsMergedSorted(t *testing.T) {
	rs, err := availability.NewRuleSet(uuid.New(), uuid.New(), "Split day", "UTC")
	require.NoError(t, err)

	morning, err := availability.NewTimeWindow(uuid.Nil, 540, 720, 0)  // 09:00-12:00
	require.NoError(t, err)
	evening, err := availability.NewTimeWindow(uuid.Nil, 840, 1020, 0) // 14:00-17:00
	require.NoError(t, err)
	day, err := availability.NewDayRule(time.Thursday, true, []availability.TimeWindow{evening, morning})
	require.NoError(t, err)
	days := rs.Days()
	days[time.Thursday] = day
	require.NoError(t, rs.ReplaceDays(days, "UTC"))

	gen := availability.NewSlotGenerator(timezone.NewConverter())
	slots, err := gen.Generate(rs,
		timezone.NewDate(2026, time.September, 3),
		availability.SlotParams{DurationMinutes: 60, IncrementMinutes: 60, MaxDaysAhead: 30},
		time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// 09,10,11 from the morning window and 14,15,16 from the evening one
	require.Len(t, slots, 6)
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 16, slots[5].Start.Hour())
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Start.Before(slots[i].Start))
	}
}

func TestSlotGenerator_InvalidParams(t *testing.T) {
	gen := availability.NewSlotGenerator(timezone.NewConverter())
	rs := rulesetWithWindow(t, "UTC", time.Monday, 540, 1020, 0)

	_, err := gen.Generate(rs, timezone.NewDate(2026, time.September, 7),
		availability.SlotParams{DurationMinutes: 0, IncrementMinutes: 30}, time.Now())
	assert.ErrorIs(t, err, availability.ErrInvalidSlotParams)

	_, err = gen.Generate(rs, timezone.NewDate(2026, time.September, 7),
		availability.SlotParams{DurationMinutes: 30, IncrementMinutes: 0}, time.Now())
	assert.ErrorIs(t, err, availability.ErrInvalidSlotParams)
}
