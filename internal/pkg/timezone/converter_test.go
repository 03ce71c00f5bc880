//go:build unit

package timezone_test

import (
	"testing"
	"time"

	"timegrid/internal/pkg/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Location(t *testing.T) {
	conv := timezone.NewConverter()

	t.Run("valid IANA id", func(t *testing.T) {
		loc, err := conv.Location("America/New_York")
		require.NoError(t, err)
		assert.Equal(t, "America/New_York", loc.String())
	})

	t.Run("cached lookup returns same location", func(t *testing.T) {
		first, err := conv.Location("Europe/Berlin")
		require.NoError(t, err)
		second, err := conv.Location("Europe/Berlin")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("unknown id fails instead of defaulting", func(t *testing.T) {
		_, err := conv.Location("Mars/Olympus_Mons")
		assert.ErrorIs(t, err, timezone.ErrUnknownTimezone)
	})

	t.Run("empty id fails", func(t *testing.T) {
		_, err := conv.Location("")
		assert.ErrorIs(t, err, timezone.ErrUnknownTimezone)
	})
}

func TestConverter_Instant_DST(t *testing.T) {
	conv := timezone.NewConverter()

	t.Run("standard time before spring forward", func(t *testing.T) {
		// 2026-03-07 is EST (UTC-5)
		got, err := conv.Instant(timezone.NewDate(2026, time.March, 7), 9*60, "America/New_York")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("daylight time after spring forward", func(t *testing.T) {
		// 2026-03-08 02:00 EST jumps to 03:00 EDT; 09:00 that day is UTC-4
		got, err := conv.Instant(timezone.NewDate(2026, time.March, 8), 9*60, "America/New_York")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 8, 13, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("fall back day", func(t *testing.T) {
		// 2026-11-01 02:00 EDT falls back to 01:00 EST; 09:00 that day is UTC-5
		got, err := conv.Instant(timezone.NewDate(2026, time.November, 1), 9*60, "America/New_York")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.November, 1, 14, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("unknown zone surfaces configuration error", func(t *testing.T) {
		_, err := conv.Instant(timezone.NewDate(2026, time.March, 8), 9*60, "Not/AZone")
		assert.ErrorIs(t, err, timezone.ErrUnknownTimezone)
	})
}

func TestConverter_RoundTrip(t *testing.T) {
	conv := timezone.NewConverter()

	date := timezone.NewDate(2026, time.June, 15)
	instant, err := conv.Instant(date, 13*60+30, "Asia/Tokyo")
	require.NoError(t, err)

	gotDate, err := conv.DateAt(instant, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, date, gotDate)

	minute, err := conv.MinuteOfDayAt(instant, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, 13*60+30, minute)
}

func TestDate(t *testing.T) {
	t.Run("parse and format", func(t *testing.T) {
		d, err := timezone.ParseDate("2026-08-29")
		require.NoError(t, err)
		assert.Equal(t, "2026-08-29", d.String())
		assert.Equal(t, time.Saturday, d.Weekday())
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := timezone.ParseDate("29/08/2026")
		assert.ErrorIs(t, err, timezone.ErrInvalidDate)
	})

	t.Run("add days crosses month boundary", func(t *testing.T) {
		d := timezone.NewDate(2026, time.January, 30).AddDays(3)
		assert.Equal(t, timezone.NewDate(2026, time.February, 2), d)
	})

	t.Run("ordering", func(t *testing.T) {
		a := timezone.NewDate(2026, time.May, 1)
		b := timezone.NewDate(2026, time.April, 30)
		assert.True(t, a.After(b))
		assert.False(t, b.After(a))
		assert.False(t, a.After(a))
	})
}
