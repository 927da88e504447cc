package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// Sessions expire with the access token lifetime; an expired session simply
// re-anchors on the next request.
const sessionTTL = 24 * time.Hour

// SessionStore holds impersonation sessions in Redis, one per anchor.
// Key format: session:<anchor_id>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, anchorID string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(anchorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	return s.client.Set(ctx, s.key(session.AnchorID), raw, sessionTTL).Err()
}

func (s *SessionStore) Delete(ctx context.Context, anchorID string) error {
	return s.client.Del(ctx, s.key(anchorID)).Err()
}

func (s *SessionStore) key(anchorID string) string {
	return "session:" + anchorID
}
