package repository

import (
	"context"
	"encoding/json"
	"errors"

	"timegrid/internal/domain/availability"
	"timegrid/internal/infra"
	"timegrid/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RulesetRepository stores weekly availability templates. The seven day rules
// live in one JSONB column and are always written as a whole; there is no
// partial day update by contract.
type RulesetRepository struct {
	pool *pgxpool.Pool
}

func NewRulesetRepository(pool *pgxpool.Pool) *RulesetRepository {
	return &RulesetRepository{pool: pool}
}

const rulesetColumns = `id, owner_id, organization_id, name, timezone, is_active, days`

func (r *RulesetRepository) Create(ctx context.Context, rs *availability.RuleSet) error {
	days, err := marshalDays(rs)
	if err != nil {
		return infra.WrapRepoErr("failed to encode ruleset days", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO rulesets (id, owner_id, organization_id, name, timezone, is_active, days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rs.ID(), rs.OwnerID(), rs.OrganizationID(), rs.Name(), rs.Timezone(), rs.IsActive(), days,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("ruleset already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert ruleset", err)
	}
	return nil
}

func (r *RulesetRepository) FindByID(ctx context.Context, id uuid.UUID) (*availability.RuleSet, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+rulesetColumns+`
		FROM rulesets
		WHERE id = $1`,
		id,
	)
	rs, err := scanRuleset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Mark(
				infra.WrapRepoErr("ruleset not found", err, infra.KindNotFound),
				errs.ErrRulesetNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to fetch ruleset", err)
	}
	return rs, nil
}

func (r *RulesetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*availability.RuleSet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+rulesetColumns+`
		FROM rulesets
		WHERE owner_id = $1
		ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rulesets", err)
	}
	defer rows.Close()

	var out []*availability.RuleSet
	for rows.Next() {
		rs, err := scanRuleset(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan ruleset", err)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate rulesets", err)
	}
	return out, nil
}

func (r *RulesetRepository) Replace(ctx context.Context, rs *availability.RuleSet) error {
	days, err := marshalDays(rs)
	if err != nil {
		return infra.WrapRepoErr("failed to encode ruleset days", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE rulesets
		SET name = $2, timezone = $3, is_active = $4, days = $5, updated_at = now()
		WHERE id = $1`,
		rs.ID(), rs.Name(), rs.Timezone(), rs.IsActive(), days,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to replace ruleset", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Mark(
			infra.WrapRepoErr("ruleset not found", nil, infra.KindNotFound),
			errs.ErrRulesetNotFound,
		)
	}
	return nil
}

func marshalDays(rs *availability.RuleSet) ([]byte, error) {
	return json.Marshal(rs.Snapshot().Days)
}

func scanRuleset(row pgx.Row) (*availability.RuleSet, error) {
	var (
		id, ownerID, orgID uuid.UUID
		name, tz           string
		isActive           bool
		daysJSON           []byte
	)
	if err := row.Scan(&id, &ownerID, &orgID, &name, &tz, &isActive, &daysJSON); err != nil {
		return nil, err
	}

	var snap availability.Snapshot
	snap.Timezone = tz
	if err := json.Unmarshal(daysJSON, &snap.Days); err != nil {
		return nil, err
	}
	days, err := availability.DaysFromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return availability.ReconstructRuleSet(id, ownerID, orgID, name, tz, isActive, days), nil
}
