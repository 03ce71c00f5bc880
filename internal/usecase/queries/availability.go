package queries

import (
	"context"

	"timegrid/internal/domain/user"
	"timegrid/internal/pkg/errs"

	"github.com/google/uuid"
)

type RulesetQueries struct {
	rulesets RulesetReader
}

func NewRulesetQueries(rulesets RulesetReader) *RulesetQueries {
	return &RulesetQueries{rulesets: rulesets}
}

func (q *RulesetQueries) Get(ctx context.Context, userID uuid.UUID, role user.Role, id uuid.UUID) (*RulesetView, error) {
	rs, err := q.rulesets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rs.OwnerID() != userID && role != user.RoleAdmin {
		return nil, errs.ErrRulesetNotFound
	}
	view := NewRulesetView(rs)
	return &view, nil
}

func (q *RulesetQueries) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]RulesetView, error) {
	rulesets, err := q.rulesets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]RulesetView, len(rulesets))
	for i, rs := range rulesets {
		views[i] = NewRulesetView(rs)
	}
	return views, nil
}
