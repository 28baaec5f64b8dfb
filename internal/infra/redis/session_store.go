package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"feedback-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps respondent drafts in Redis so a reload or another instance
// can resume the session. Keys:
//   - quiz:session:{sessionID}    draft JSON, refreshed TTL on every save
//   - quiz:submitted:{sessionID}  submission marker (SETNX)
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) SaveDraft(ctx context.Context, draft domain.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(draft.SessionID), data, s.ttl).Err()
}

func (s *SessionStore) LoadDraft(ctx context.Context, sessionID string) (domain.Draft, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Draft{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Draft{}, err
	}
	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return domain.Draft{}, err
	}
	return draft, nil
}

func (s *SessionStore) ClearDraft(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// Acquire marks the session as submitted; the marker outlives the draft.
func (s *SessionStore) Acquire(ctx context.Context, sessionID string) (bool, error) {
	return s.client.SetNX(ctx, s.submittedKey(sessionID), "1", s.markerTTL()).Result()
}

func (s *SessionStore) Release(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.submittedKey(sessionID)).Err()
}

func (s *SessionStore) markerTTL() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	return 2 * s.ttl
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}

func (s *SessionStore) submittedKey(sessionID string) string {
	return "quiz:submitted:" + sessionID
}
