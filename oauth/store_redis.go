package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/simbank/redis"
)

// RedisTransactionStore persists transactions in Redis with a TTL.
// TakeOnce maps to GETDEL, Redis's single-command read-and-delete, so two
// concurrent callbacks for the same state can never both observe the record.
type RedisTransactionStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTransactionStore creates a store on the given Redis client.
// All keys are prefixed with keyPrefix followed by a colon separator.
func NewRedisTransactionStore(client *redis.Client, keyPrefix string) *RedisTransactionStore {
	if keyPrefix == "" {
		keyPrefix = "oauthtxn"
	}
	return &RedisTransactionStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisTransactionStore) fullKey(id string) string {
	return s.keyPrefix + ":" + id
}

// Put serializes the transaction to JSON and stores it with the TTL.
func (s *RedisTransactionStore) Put(ctx context.Context, id string, txn Transaction, ttl time.Duration) error {
	data, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("transaction store marshal %q: %w", id, err)
	}
	if err := s.client.Set(ctx, s.fullKey(id), string(data), ttl); err != nil {
		return fmt.Errorf("transaction store put %q: %w", id, err)
	}
	return nil
}

// TakeOnce atomically consumes the transaction. Returns (nil, nil) when the
// id is unknown, expired, or already consumed.
func (s *RedisTransactionStore) TakeOnce(ctx context.Context, id string) (*Transaction, error) {
	raw, err := s.client.GetDel(ctx, s.fullKey(id))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("transaction store take %q: %w", id, err)
	}

	var txn Transaction
	if err := json.Unmarshal([]byte(raw), &txn); err != nil {
		return nil, fmt.Errorf("transaction store unmarshal %q: %w", id, err)
	}
	return &txn, nil
}

// compile-time interface check
var _ TransactionStore = (*RedisTransactionStore)(nil)
