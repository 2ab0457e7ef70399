package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps sessions in process memory. Expired sessions are invisible to readers
// and removed by Cleaner.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStorage creates an in-memory Storage used when Redis is not configured.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &MemoryStorage{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetState returns a copy of the session or ErrStateNotFound.
func (s *MemoryStorage) GetState(ctx context.Context, chatID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok || s.expired(session) {
		return nil, ErrStateNotFound
	}

	copied := *session
	return &copied, nil
}

// SetState stores a copy of session.
func (s *MemoryStorage) SetState(ctx context.Context, chatID int64, session *Session) error {
	session.UpdatedAt = s.now().UTC()
	copied := *session

	s.mu.Lock()
	s.sessions[chatID] = &copied
	s.mu.Unlock()

	return nil
}

// ClearState removes the session for chatID.
func (s *MemoryStorage) ClearState(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	delete(s.sessions, chatID)
	s.mu.Unlock()

	return nil
}

// GetAllStates returns copies of every live session.
func (s *MemoryStorage) GetAllStates(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if s.expired(session) {
			continue
		}
		copied := *session
		result = append(result, &copied)
	}

	return result, nil
}

// TTL reports how long an untouched session stays live.
func (s *MemoryStorage) TTL() time.Duration {
	return s.ttl
}

func (s *MemoryStorage) expired(session *Session) bool {
	return s.now().Sub(session.UpdatedAt) > s.ttl
}

// purgeExpired drops expired sessions and returns how many were removed.
func (s *MemoryStorage) purgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, chatID)
			removed++
		}
	}

	return removed
}
