package repository

import (
	"context"
	"encoding/json"
	"errors"

	"timegrid/internal/domain/event"
	"timegrid/internal/infra"
	"timegrid/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// questionRow is the JSONB shape of one intake question.
type questionRow struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
}

const eventColumns = `id, owner_id, ruleset_id, name, slug, duration_minutes, increment_minutes, min_notice_minutes, max_days_ahead, is_active, questions`

func (r *EventRepository) Create(ctx context.Context, e *event.EventType) error {
	questions, err := marshalQuestions(e)
	if err != nil {
		return infra.WrapRepoErr("failed to encode event questions", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO event_types (id, owner_id, ruleset_id, name, slug, duration_minutes, increment_minutes, min_notice_minutes, max_days_ahead, is_active, questions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID(), e.OwnerID(), e.RulesetID(), e.Name(), e.Slug(),
		e.DurationMinutes(), e.IncrementMinutes(), e.MinNoticeMinutes(), e.MaxDaysAhead(),
		e.IsActive(), questions,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("event slug already taken", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert event type", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.EventType, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM event_types
		WHERE id = $1`,
		id,
	)
	return r.scanOne(row, "event not found by id")
}

func (r *EventRepository) FindBySlug(ctx context.Context, slug string) (*event.EventType, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM event_types
		WHERE slug = $1`,
		slug,
	)
	return r.scanOne(row, "event not found by slug")
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*event.EventType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM event_types
		WHERE owner_id = $1
		ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list event types", err)
	}
	defer rows.Close()

	var out []*event.EventType
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan event type", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate event types", err)
	}
	return out, nil
}

func (r *EventRepository) scanOne(row pgx.Row, notFoundMsg string) (*event.EventType, error) {
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Mark(
				infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound),
				errs.ErrEventNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to fetch event type", err)
	}
	return e, nil
}

func marshalQuestions(e *event.EventType) ([]byte, error) {
	questions := e.Questions()
	rows := make([]questionRow, len(questions))
	for i, q := range questions {
		rows[i] = questionRow{ID: q.ID(), Label: q.Label(), Required: q.Required()}
	}
	return json.Marshal(rows)
}

func scanEvent(row pgx.Row) (*event.EventType, error) {
	var (
		id, ownerID, rulesetID                                            uuid.UUID
		name, slug                                                        string
		durationMinutes, incrementMinutes, minNoticeMinutes, maxDaysAhead int
		isActive                                                          bool
		questionsJSON                                                     []byte
	)
	if err := row.Scan(
		&id, &ownerID, &rulesetID, &name, &slug,
		&durationMinutes, &incrementMinutes, &minNoticeMinutes, &maxDaysAhead,
		&isActive, &questionsJSON,
	); err != nil {
		return nil, err
	}

	var qRows []questionRow
	if err := json.Unmarshal(questionsJSON, &qRows); err != nil {
		return nil, err
	}
	questions := make([]event.Question, 0, len(qRows))
	for _, qr := range qRows {
		q, err := event.NewQuestion(qr.ID, qr.Label, qr.Required)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return event.ReconstructEventType(
		id, ownerID, rulesetID,
		name, slug,
		durationMinutes, incrementMinutes, minNoticeMinutes, maxDaysAhead,
		isActive, questions,
	), nil
}
