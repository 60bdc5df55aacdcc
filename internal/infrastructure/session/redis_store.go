package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/checkout"
)

const keyPrefix = "checkout:session:"

// record is the persisted envelope of a checkout session. The auth token is
// excluded from the session's own JSON so it never reaches API responses;
// the store carries it explicitly.
type record struct {
	Session   *checkout.CheckoutSession `json:"session"`
	AuthToken string                    `json:"auth_token,omitempty"`
}

// RedisStore implements checkout.SessionRepository on Redis. Every write
// refreshes the TTL, so a session expires only after going idle.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// FindByID loads a session, restoring the auth token from the envelope
func (s *RedisStore) FindByID(ctx context.Context, id uuid.UUID) (*checkout.CheckoutSession, error) {
	data, err := s.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, checkout.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if rec.Session == nil {
		return nil, checkout.ErrSessionNotFound
	}

	restoreToken(rec.Session, rec.AuthToken)
	return rec.Session, nil
}

// Save persists the session and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, session *checkout.CheckoutSession) error {
	data, err := json.Marshal(record{Session: session, AuthToken: session.AuthToken})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+session.ID.String(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, keyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// restoreToken puts the envelope's token back onto the session and, when a
// merge decision is pending, onto the decision as well
func restoreToken(session *checkout.CheckoutSession, token string) {
	session.AuthToken = token
	if session.MergeDecision != nil {
		session.MergeDecision.AuthToken = token
	}
}

// Ensure RedisStore implements SessionRepository
var _ checkout.SessionRepository = (*RedisStore)(nil)
