package queries

import (
	"context"

	"timegrid/internal/domain/availability"
	"timegrid/internal/domain/booking"
	"timegrid/internal/domain/event"
	"timegrid/internal/domain/user"

	"github.com/google/uuid"
)

type RulesetReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*availability.RuleSet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*availability.RuleSet, error)
}

type EventReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*event.EventType, error)
	FindBySlug(ctx context.Context, slug string) (*event.EventType, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*event.EventType, error)
}

type SessionReader interface {
	Find(ctx context.Context, id uuid.UUID) (*booking.Session, error)
}

type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}
