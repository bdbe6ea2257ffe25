package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/simbank/redis"
)

// RedisStore persists sessions in Redis as JSON with a sliding TTL.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a session store on the given Redis client.
func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "session"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisStore) fullKey(id string) string {
	return s.keyPrefix + ":" + id
}

// Get loads a session. Returns (nil, nil) when absent or expired.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.fullKey(id))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("session store get %q: %w", id, err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("session store unmarshal %q: %w", id, err)
	}
	return &sess, nil
}

// Set stores a session and refreshes its TTL.
func (s *RedisStore) Set(ctx context.Context, id string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session store marshal %q: %w", id, err)
	}
	if err := s.client.Set(ctx, s.fullKey(id), string(data), s.ttl); err != nil {
		return fmt.Errorf("session store set %q: %w", id, err)
	}
	return nil
}

// Clear removes a session. Clearing an absent session is not an error.
func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.fullKey(id)); err != nil {
		return fmt.Errorf("session store clear %q: %w", id, err)
	}
	return nil
}

// compile-time interface check
var _ Store = (*RedisStore)(nil)
