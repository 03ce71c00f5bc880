package availability

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidWallTime     = errors.New("invalid wall clock time")
	ErrInvalidWindowBounds = errors.New("window start must be before end")
	ErrInvalidBuffer       = errors.New("buffer must be non-negative and shorter than the window")
	ErrWindowOverlap       = errors.New("windows overlap within the same day")
	ErrWindowNotFound      = errors.New("window not found")
)

const minutesPerDay = 24 * 60

// WallTime is a wall-clock time of day in minutes since midnight, minute precision.
type WallTime int

func NewWallTime(hour, minute int) (WallTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ErrInvalidWallTime
	}
	return WallTime(hour*60 + minute), nil
}

func ParseWallTime(s string) (WallTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, ErrInvalidWallTime
	}
	return NewWallTime(hour, minute)
}

func (w WallTime) Minutes() int {
	return int(w)
}

func (w WallTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(w)/60, int(w)%60)
}

func (w WallTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *WallTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidWallTime
	}
	parsed, err := ParseWallTime(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// TimeWindow is a contiguous wall-clock interval with a trailing no-booking buffer.
type TimeWindow struct {
	id            uuid.UUID
	start         WallTime
	end           WallTime
	bufferMinutes int
}

func NewTimeWindow(id uuid.UUID, start, end WallTime, bufferMinutes int) (TimeWindow, error) {
	if start < 0 || int(end) > minutesPerDay {
		return TimeWindow{}, ErrInvalidWallTime
	}
	if start >= end {
		return TimeWindow{}, ErrInvalidWindowBounds
	}
	if bufferMinutes < 0 || bufferMinutes >= int(end-start) {
		return TimeWindow{}, ErrInvalidBuffer
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return TimeWindow{
		id:            id,
		start:         start,
		end:           end,
		bufferMinutes: bufferMinutes,
	}, nil
}

// DefaultWindow is seeded when a day is enabled with no prior configuration.
func DefaultWindow() TimeWindow {
	return TimeWindow{
		id:    uuid.New(),
		start: WallTime(9 * 60),
		end:   WallTime(17 * 60),
	}
}

func (w TimeWindow) ID() uuid.UUID      { return w.id }
func (w TimeWindow) Start() WallTime    { return w.start }
func (w TimeWindow) End() WallTime      { return w.end }
func (w TimeWindow) BufferMinutes() int { return w.bufferMinutes }

// EffectiveEnd is the latest wall-clock minute a booking may finish at.
func (w TimeWindow) EffectiveEnd() WallTime {
	return w.end - WallTime(w.bufferMinutes)
}

func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start < other.end && other.start < w.end
}

// WindowKey is the semantic identity of a window: equality ignores the window id.
type WindowKey struct {
	Start  WallTime
	End    WallTime
	Buffer int
}

func (w TimeWindow) Key() WindowKey {
	return WindowKey{Start: w.start, End: w.end, Buffer: w.bufferMinutes}
}
