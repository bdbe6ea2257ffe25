package session

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-process Store for tests and
// single-instance development runs. It does not expire sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Session)}
}

// Get loads a session, returning (nil, nil) when absent.
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

// Set stores a session, replacing any previous value.
func (s *MemoryStore) Set(_ context.Context, id string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.items[id] = &copied
	return nil
}

// Clear removes a session.
func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
