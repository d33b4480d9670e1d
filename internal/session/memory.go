package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data     Data
	lastSeen time.Time
}

// MemoryStore is a process-local Store used in development and tests.
type MemoryStore struct {
	TTL time.Duration
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{TTL: ttl, entries: map[string]memoryEntry{}}
}

func (s *MemoryStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MemoryStore) Save(_ context.Context, token string, data Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = map[string]memoryEntry{}
	}
	now := s.now()
	s.pruneLocked(now)
	s.entries[token] = memoryEntry{data: data, lastSeen: now}
	return nil
}

// pruneLocked drops idle entries nobody asked for again. Caller holds mu.
func (s *MemoryStore) pruneLocked(now time.Time) {
	if s.TTL <= 0 {
		return
	}
	for token, e := range s.entries {
		if now.Sub(e.lastSeen) > s.TTL {
			delete(s.entries, token)
		}
	}
}

// Get refreshes the idle timer on every hit.
func (s *MemoryStore) Get(_ context.Context, token string) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return Data{}, ErrNotFound
	}
	now := s.now()
	if s.TTL > 0 && now.Sub(e.lastSeen) > s.TTL {
		delete(s.entries, token)
		return Data{}, ErrNotFound
	}
	e.lastSeen = now
	s.entries[token] = e
	return e.data, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}
