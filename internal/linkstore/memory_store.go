package linkstore

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	url       string
	expiresAt time.Time
}

// MemoryStore is a process-local Store with lazy expiry.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory link store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, url string) (string, error) {
	key := Key(url)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.entries[key] = entry{url: url, expiresAt: s.now().Add(s.ttl)}

	return key, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", ErrNotFound
	}

	return e.url, nil
}

// evictExpired must be called with mu held.
func (s *MemoryStore) evictExpired() {
	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}
