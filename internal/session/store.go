// Package session persists dialogue state between turns. State lives
// in Redis under a per-session key with a sliding TTL; a finished or
// abandoned session simply ages out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/carebridge/complaint-intake/internal/dialogue"
)

// DefaultTTL is how long an idle session survives before expiring.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned when no state exists for a session ID.
var ErrNotFound = errors.New("session: not found")

// Store reads and writes dialogue state keyed by session ID.
type Store struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewStore creates a Redis-backed session store. Panics if client is
// nil. A non-positive ttl falls back to DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		redis:  client,
		tracer: otel.Tracer("session"),
		ttl:    ttl,
	}
}

// Save persists the full state and refreshes the TTL.
func (s *Store) Save(ctx context.Context, st *dialogue.State) error {
	ctx, span := s.tracer.Start(ctx, "session.save")
	defer span.End()

	data, err := json.Marshal(st)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal state: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(st.SessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist state: %w", err)
	}
	return nil
}

// Load returns the state for a session, or ErrNotFound when none
// exists or the session has expired.
func (s *Store) Load(ctx context.Context, sessionID string) (*dialogue.State, error) {
	ctx, span := s.tracer.Start(ctx, "session.load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load state: %w", err)
	}

	var st dialogue.State
	if err := json.Unmarshal(data, &st); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode state: %w", err)
	}
	return &st, nil
}

// Delete removes a session's state. Deleting an absent session is not
// an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to delete state: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("intake:session:%s", id)
}
