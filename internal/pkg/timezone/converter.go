package timezone

import (
	"errors"
	"sync"
	"time"
)

// ErrUnknownTimezone is a configuration error: an unresolvable IANA id must
// never degrade to a fixed-offset guess.
var ErrUnknownTimezone = errors.New("unknown timezone identifier")

// Converter resolves IANA timezone ids and converts between wall-clock values
// and absolute instants, applying the DST rules in force on the given date.
type Converter struct {
	mu    sync.RWMutex
	cache map[string]*time.Location
}

func NewConverter() *Converter {
	return &Converter{
		cache: make(map[string]*time.Location),
	}
}

func (c *Converter) Location(id string) (*time.Location, error) {
	if id == "" {
		return nil, ErrUnknownTimezone
	}

	c.mu.RLock()
	loc, ok := c.cache[id]
	c.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, ErrUnknownTimezone
	}

	c.mu.Lock()
	c.cache[id] = loc
	c.mu.Unlock()

	return loc, nil
}

// Instant converts a wall-clock minute of day on a calendar date in the given
// zone to an absolute instant.
func (c *Converter) Instant(d Date, minuteOfDay int, id string) (time.Time, error) {
	loc, err := c.Location(id)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year, d.Month, d.Day, minuteOfDay/60, minuteOfDay%60, 0, 0, loc), nil
}

// DateAt returns the calendar date the instant falls on in the given zone.
func (c *Converter) DateAt(t time.Time, id string) (Date, error) {
	loc, err := c.Location(id)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t.In(loc)), nil
}

// MinuteOfDayAt returns the wall-clock minute of day of the instant in the given zone.
func (c *Converter) MinuteOfDayAt(t time.Time, id string) (int, error) {
	loc, err := c.Location(id)
	if err != nil {
		return 0, err
	}
	local := t.In(loc)
	return local.Hour()*60 + local.Minute(), nil
}
