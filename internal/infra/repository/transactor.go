package repository

import (
	"context"

	"timegrid/internal/infra"
	"timegrid/internal/infra/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactor wraps a function in one pgx transaction with rollback on error.
type Transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(tx db.DBTX) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit transaction", err)
	}
	return nil
}
