package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"timegrid/internal/domain/booking"
	"timegrid/internal/infra"
	"timegrid/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "booking:session:"

// Store keeps in-flight booking sessions in Redis as JSON records with a
// sliding TTL: every save renews the window, so an active visitor never
// expires mid-flow.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (s *Store) Save(ctx context.Context, sess *booking.Session) error {
	payload, err := json.Marshal(sess.ToRecord())
	if err != nil {
		return infra.WrapRepoErr("failed to encode session", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID()), payload, s.ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to store session", err)
	}
	return nil
}

func (s *Store) Find(ctx context.Context, id uuid.UUID) (*booking.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.Mark(
				infra.WrapRepoErr("session not found", err, infra.KindNotFound),
				errs.ErrSessionNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to fetch session", err)
	}

	var rec booking.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, infra.WrapRepoErr("failed to decode session", err)
	}
	sess, err := booking.FromRecord(rec)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt session record", err)
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return infra.WrapRepoErr("failed to delete session", err)
	}
	return nil
}
