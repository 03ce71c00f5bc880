package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/domain/user"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/pkg/timezone"

	"github.com/google/uuid"
)

// saveGuard admits at most one in-flight save per ruleset id. A second save
// while one is running is rejected, not queued; the caller retries once the
// first settles.
type saveGuard struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func newSaveGuard() *saveGuard {
	return &saveGuard{inFlight: make(map[uuid.UUID]struct{})}
}

func (g *saveGuard) acquire(id uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[id]; busy {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

func (g *saveGuard) release(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, id)
}

type RulesetCommands struct {
	repo   RulesetRepository
	tz     *timezone.Converter
	guard  *saveGuard
	logger *slog.Logger
}

func NewRulesetCommands(repo RulesetRepository, tz *timezone.Converter, logger *slog.Logger) *RulesetCommands {
	return &RulesetCommands{
		repo:   repo,
		tz:     tz,
		guard:  newSaveGuard(),
		logger: logger,
	}
}

func markValidation(err error) error {
	if err == nil {
		return nil
	}
	return errs.Mark(err, errs.ErrRulesetValidation)
}

type CreateRulesetInput struct {
	Name     string
	Timezone string
}

func (c *RulesetCommands) Create(ctx context.Context, actor Actor, in CreateRulesetInput) (*availability.RuleSet, error) {
	if _, err := c.tz.Location(in.Timezone); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTimezone)
	}
	rs, err := availability.NewRuleSet(actor.UserID, actor.OrgID, in.Name, in.Timezone)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRulesetValidation)
	}
	if err := c.repo.Create(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// Save replaces a ruleset's full editable state (timezone plus all seven day
// rules) from a client-submitted snapshot. Clean submissions return without a
// store round trip.
func (c *RulesetCommands) Save(ctx context.Context, actor Actor, id uuid.UUID, snap availability.Snapshot) (*availability.RuleSet, error) {
	if _, err := c.tz.Location(snap.Timezone); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTimezone)
	}
	return c.mutate(ctx, actor, id, func(rs *availability.RuleSet) error {
		days, err := availability.DaysFromSnapshot(snap)
		if err != nil {
			return errs.Mark(err, errs.ErrRulesetValidation)
		}
		if err := rs.ReplaceDays(days, snap.Timezone); err != nil {
			return errs.Mark(err, errs.ErrRulesetValidation)
		}
		return nil
	})
}

func (c *RulesetCommands) SetActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) (*availability.RuleSet, error) {
	rs, err := c.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rs.IsActive() == active {
		return rs, nil
	}
	rs.SetActive(active)
	if err := c.replaceGuarded(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (c *RulesetCommands) ToggleDay(ctx context.Context, actor Actor, id uuid.UUID, weekday time.Weekday) (*availability.RuleSet, error) {
	return c.mutate(ctx, actor, id, func(rs *availability.RuleSet) error {
		return markValidation(rs.ToggleDay(weekday))
	})
}

func (c *RulesetCommands) AddWindow(ctx context.Context, actor Actor, id uuid.UUID, weekday time.Weekday) (*availability.RuleSet, error) {
	return c.mutate(ctx, actor, id, func(rs *availability.RuleSet) error {
		_, err := rs.AddWindow(weekday)
		return markValidation(err)
	})
}

func (c *RulesetCommands) RemoveWindow(ctx context.Context, actor Actor, id uuid.UUID, weekday time.Weekday, windowID uuid.UUID) (*availability.RuleSet, error) {
	return c.mutate(ctx, actor, id, func(rs *availability.RuleSet) error {
		return markValidation(rs.RemoveWindow(weekday, windowID))
	})
}

type UpdateWindowInput struct {
	Start         availability.WallTime
	End           availability.WallTime
	BufferMinutes int
}

func (c *RulesetCommands) UpdateWindow(ctx context.Context, actor Actor, id uuid.UUID, weekday time.Weekday, windowID uuid.UUID, in UpdateWindowInput) (*availability.RuleSet, error) {
	return c.mutate(ctx, actor, id, func(rs *availability.RuleSet) error {
		return markValidation(rs.UpdateWindow(weekday, windowID, in.Start, in.End, in.BufferMinutes))
	})
}

// mutate loads the persisted state, applies the edit, and persists only when
// the tracker reports a real change.
func (c *RulesetCommands) mutate(ctx context.Context, actor Actor, id uuid.UUID, edit func(*availability.RuleSet) error) (*availability.RuleSet, error) {
	rs, err := c.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	tracker, err := availability.NewChangeTracker(rs)
	if err != nil {
		return nil, errs.Wrap(err, "failed to snapshot ruleset baseline")
	}
	if err := edit(rs); err != nil {
		return nil, err
	}
	if !tracker.Dirty() {
		return rs, nil
	}

	c.logger.DebugContext(ctx, "persisting ruleset change",
		slog.String("ruleset_id", id.String()),
		slog.String("diff", tracker.Diff()),
	)
	if err := c.replaceGuarded(ctx, rs); err != nil {
		return nil, err
	}
	if err := tracker.MarkSaved(); err != nil {
		return nil, errs.Wrap(err, "failed to promote ruleset baseline")
	}
	return rs, nil
}

func (c *RulesetCommands) load(ctx context.Context, actor Actor, id uuid.UUID) (*availability.RuleSet, error) {
	rs, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Not-found and not-yours are indistinguishable to the caller.
	if rs.OwnerID() != actor.UserID && actor.Role != user.RoleAdmin {
		return nil, errs.ErrRulesetNotFound
	}
	return rs, nil
}

func (c *RulesetCommands) replaceGuarded(ctx context.Context, rs *availability.RuleSet) error {
	if !c.guard.acquire(rs.ID()) {
		return errs.ErrSaveInFlight
	}
	defer c.guard.release(rs.ID())
	return c.repo.Replace(ctx, rs)
}
