package repository

import (
	"context"
	"errors"
	"time"

	"timegrid/internal/infra"
	"timegrid/internal/infra/db"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyRepository backs the commit handshake. Keys move
// processing -> completed; a failed attempt releases its claim instead.
type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, status)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING`,
		key, commands.IdempotencyProcessing,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID) (*commands.IdempotencyRecord, error) {
	var (
		status    string
		bookingID *uuid.UUID
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT status, booking_id, created_at
		FROM idempotency_keys
		WHERE key = $1`,
		key,
	).Scan(&status, &bookingID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Mark(
				infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound),
				errs.ErrIdempotencyCheck,
			)
		}
		return nil, infra.WrapRepoErr("failed to fetch idempotency key", err)
	}
	return &commands.IdempotencyRecord{
		Key:       key,
		Status:    commands.IdempotencyStatus(status),
		BookingID: bookingID,
		CreatedAt: createdAt,
	}, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, tx db.DBTX, key, bookingID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = $2, booking_id = $3
		WHERE key = $1 AND status = $4`,
		key, commands.IdempotencyCompleted, bookingID, commands.IdempotencyProcessing,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not in processing state", nil, infra.KindConflict)
	}
	return nil
}

// Release drops a processing claim after a failed attempt so the next retry
// can run the handshake again. Completed keys are never released.
func (r *IdempotencyRepository) Release(ctx context.Context, key uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND status = $2`,
		key, commands.IdempotencyProcessing,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE created_at < $1`,
		olderThan,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
