package oauth

import (
	"context"
	"sync"
	"time"
)

// MemoryTransactionStore is a mutex-guarded in-process TransactionStore for
// tests and single-instance development runs. Expired entries are reaped
// lazily on access.
type MemoryTransactionStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

type memoryEntry struct {
	txn       Transaction
	expiresAt time.Time
}

// NewMemoryTransactionStore creates an empty in-memory store.
func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{items: make(map[string]memoryEntry)}
}

// Put stores a transaction under id for at most ttl. A ttl of 0 means no expiry.
func (s *MemoryTransactionStore) Put(_ context.Context, id string, txn Transaction, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reapLocked()

	entry := memoryEntry{txn: txn}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.items[id] = entry
	return nil
}

// TakeOnce removes and returns the transaction while holding the lock, so
// exactly one of any number of concurrent callers wins.
func (s *MemoryTransactionStore) TakeOnce(_ context.Context, id string) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reapLocked()

	entry, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	delete(s.items, id)
	txn := entry.txn
	return &txn, nil
}

func (s *MemoryTransactionStore) reapLocked() {
	if len(s.items) == 0 {
		return
	}
	now := time.Now()
	for id, entry := range s.items {
		if !entry.expiresAt.IsZero() && entry.expiresAt.Before(now) {
			delete(s.items, id)
		}
	}
}

// compile-time interface check
var _ TransactionStore = (*MemoryTransactionStore)(nil)
