package request

import (
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateRulesetRequest struct {
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone" binding:"required"`
}

func (r CreateRulesetRequest) ToInput() commands.CreateRulesetInput {
	return commands.CreateRulesetInput{Name: r.Name, Timezone: r.Timezone}
}

type WindowRequest struct {
	ID            string `json:"id"`
	Start         string `json:"start" binding:"required"`
	End           string `json:"end" binding:"required"`
	BufferMinutes int    `json:"buffer_minutes"`
}

type DayRuleRequest struct {
	Weekday int             `json:"weekday" binding:"min=0,max=6"`
	Enabled bool            `json:"enabled"`
	Windows []WindowRequest `json:"windows"`
}

// SaveRulesetRequest carries the full editable state; the server replaces,
// never merges.
type SaveRulesetRequest struct {
	Timezone string           `json:"timezone" binding:"required"`
	Days     []DayRuleRequest `json:"days" binding:"required,len=7"`
}

func (r SaveRulesetRequest) ToSnapshot() (availability.Snapshot, error) {
	snap := availability.Snapshot{Timezone: r.Timezone}
	for _, d := range r.Days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return availability.Snapshot{}, availability.ErrInvalidWeekday
		}
		windows := make([]availability.WindowSnapshot, 0, len(d.Windows))
		for _, w := range d.Windows {
			ws, err := w.toSnapshot()
			if err != nil {
				return availability.Snapshot{}, err
			}
			windows = append(windows, ws)
		}
		snap.Days[d.Weekday] = availability.DaySnapshot{
			Weekday: time.Weekday(d.Weekday),
			Enabled: d.Enabled,
			Windows: windows,
		}
	}
	return snap, nil
}

func (w WindowRequest) toSnapshot() (availability.WindowSnapshot, error) {
	start, err := availability.ParseWallTime(w.Start)
	if err != nil {
		return availability.WindowSnapshot{}, err
	}
	end, err := availability.ParseWallTime(w.End)
	if err != nil {
		return availability.WindowSnapshot{}, err
	}

	// A missing id is a window created client-side; the server assigns one.
	id := uuid.Nil
	if w.ID != "" {
		id, err = uuid.Parse(w.ID)
		if err != nil {
			return availability.WindowSnapshot{}, err
		}
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return availability.WindowSnapshot{
		ID:            id,
		Start:         start,
		End:           end,
		BufferMinutes: w.BufferMinutes,
	}, nil
}

type UpdateWindowRequest struct {
	Start         string `json:"start" binding:"required"`
	End           string `json:"end" binding:"required"`
	BufferMinutes int    `json:"buffer_minutes"`
}

func (r UpdateWindowRequest) ToInput() (commands.UpdateWindowInput, error) {
	start, err := availability.ParseWallTime(r.Start)
	if err != nil {
		return commands.UpdateWindowInput{}, err
	}
	end, err := availability.ParseWallTime(r.End)
	if err != nil {
		return commands.UpdateWindowInput{}, err
	}
	return commands.UpdateWindowInput{
		Start:         start,
		End:           end,
		BufferMinutes: r.BufferMinutes,
	}, nil
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
