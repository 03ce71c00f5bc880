package repository

import (
	"context"
	"errors"
	"strings"

	"timegrid/internal/domain/user"
	"timegrid/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, organization_id, email, password_hash, role, is_active`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row, "user not found by email")
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id,
	)
	return scanUser(row, "user not found by id")
}

func scanUser(row pgx.Row, notFoundMsg string) (*user.User, error) {
	var (
		id, orgID                 uuid.UUID
		email, passwordHash, role string
		isActive                  bool
	)
	if err := row.Scan(&id, &orgID, &email, &passwordHash, &role, &isActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to fetch user", err)
	}
	return user.ReconstructUser(id, orgID, email, passwordHash, user.Role(role), isActive), nil
}
