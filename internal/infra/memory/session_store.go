package memory

import (
	"context"
	"sync"
	"time"

	"feedback-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.DraftStore and app.SubmissionGuard.
// Drafts and submission markers expire ttl after their last write; expired
// entries are swept on writes. A ttl <= 0 keeps entries until cleared.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu        sync.RWMutex
	drafts    map[string]draftEntry
	submitted map[string]time.Time
	lastSweep time.Time
}

type draftEntry struct {
	draft     domain.Draft
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:       ttl,
		clock:     time.Now,
		drafts:    make(map[string]draftEntry),
		submitted: make(map[string]time.Time),
	}
}

func (s *SessionStore) SaveDraft(_ context.Context, draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweepLocked(now)
	draft.Answers = cloneAnswers(draft.Answers)
	s.drafts[draft.SessionID] = draftEntry{draft: draft, expiresAt: s.expiry(now)}
	return nil
}

func (s *SessionStore) LoadDraft(_ context.Context, sessionID string) (domain.Draft, error) {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.drafts[sessionID]
	if !ok || expired(entry.expiresAt, now) {
		return domain.Draft{}, domain.ErrSessionNotFound
	}
	draft := entry.draft
	draft.Answers = cloneAnswers(draft.Answers)
	return draft, nil
}

func (s *SessionStore) ClearDraft(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}

func (s *SessionStore) Acquire(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweepLocked(now)
	if expiresAt, done := s.submitted[sessionID]; done && !expired(expiresAt, now) {
		return false, nil
	}
	s.submitted[sessionID] = s.expiry(now)
	return true, nil
}

func (s *SessionStore) Release(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.submitted, sessionID)
	return nil
}

// Len reports how many drafts and submission markers are held, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts) + len(s.submitted)
}

func (s *SessionStore) expiry(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

// sweepLocked drops expired entries at most once per ttl; s.mu must be held.
func (s *SessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, entry := range s.drafts {
		if expired(entry.expiresAt, now) {
			delete(s.drafts, id)
		}
	}
	for id, expiresAt := range s.submitted {
		if expired(expiresAt, now) {
			delete(s.submitted, id)
		}
	}
}

func expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && !expiresAt.After(now)
}
