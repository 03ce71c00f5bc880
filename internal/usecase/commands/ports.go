package commands

import (
	"context"
	"time"

	"timegrid/internal/domain/availability"
	"timegrid/internal/domain/booking"
	"timegrid/internal/domain/event"
	"timegrid/internal/domain/user"
	"timegrid/internal/infra/db"

	"github.com/google/uuid"
)

// Actor identifies the authenticated caller of a command.
type Actor struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   user.Role
}

type RulesetRepository interface {
	Create(ctx context.Context, rs *availability.RuleSet) error
	FindByID(ctx context.Context, id uuid.UUID) (*availability.RuleSet, error)
	// Replace overwrites the whole editable state in one statement. Partial
	// field patches are intentionally unsupported.
	Replace(ctx context.Context, rs *availability.RuleSet) error
}

type EventRepository interface {
	Create(ctx context.Context, e *event.EventType) error
	FindByID(ctx context.Context, id uuid.UUID) (*event.EventType, error)
	FindBySlug(ctx context.Context, slug string) (*event.EventType, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// SessionStore holds in-flight booking sessions. Entries expire on their own;
// Delete only exists for explicit cancellation.
type SessionStore interface {
	Save(ctx context.Context, s *booking.Session) error
	Find(ctx context.Context, id uuid.UUID) (*booking.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx db.DBTX) error) error
}

// NewBooking is the write-side payload for a confirmed booking row.
type NewBooking struct {
	SessionID    uuid.UUID
	EventID      uuid.UUID
	InviteeName  string
	InviteeEmail string
	Answers      map[uuid.UUID]string
	StartAt      time.Time
	EndAt        time.Time
}

type BookingRepository interface {
	// Insert persists a confirmed booking. A duplicate (event, start) pair
	// surfaces as a CONFLICT repository error.
	Insert(ctx context.Context, tx db.DBTX, b NewBooking) (uuid.UUID, error)
}

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyRecord struct {
	Key       uuid.UUID
	Status    IdempotencyStatus
	BookingID *uuid.UUID
	CreatedAt time.Time
}

type IdempotencyRepository interface {
	// TryInsert claims the key in processing state; false means another
	// attempt already holds it.
	TryInsert(ctx context.Context, key uuid.UUID) (bool, error)
	Get(ctx context.Context, key uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, tx db.DBTX, key, bookingID uuid.UUID) error
	Release(ctx context.Context, key uuid.UUID) error
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// BookingConfirmedNotice is handed to the async notifier after a commit.
type BookingConfirmedNotice struct {
	BookingID    uuid.UUID
	EventName    string
	InviteeName  string
	InviteeEmail string
	StartAt      time.Time
	EndAt        time.Time
}

type ConfirmationEnqueuer interface {
	EnqueueBookingConfirmed(ctx context.Context, n BookingConfirmedNotice) error
}
