package oauth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/redis"
)

func newRedisStore(t *testing.T) (*RedisTransactionStore, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mini.Close() })

	client, err := redis.New(redis.Config{Addr: mini.Addr()}, logger.NewDefault("oauth-test"))
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewRedisTransactionStore(client, "oauthtxn"), mini
}

// stores under test, by name
func storesUnderTest(t *testing.T) map[string]TransactionStore {
	redisStore, _ := newRedisStore(t)
	return map[string]TransactionStore{
		"memory": NewMemoryTransactionStore(),
		"redis":  redisStore,
	}
}

func TestTakeOnceConsumes(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			txn := Transaction{CodeVerifier: "verifier-1", CreatedAt: time.Now().UTC()}

			if err := store.Put(ctx, "id-1", txn, time.Minute); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			got, err := store.TakeOnce(ctx, "id-1")
			if err != nil {
				t.Fatalf("TakeOnce failed: %v", err)
			}
			if got == nil || got.CodeVerifier != "verifier-1" {
				t.Fatalf("expected stored transaction, got %+v", got)
			}

			// second take always observes absence
			got, err = store.TakeOnce(ctx, "id-1")
			if err != nil {
				t.Fatalf("second TakeOnce failed: %v", err)
			}
			if got != nil {
				t.Fatal("transaction must be consumed at most once")
			}
		})
	}
}

func TestTakeOnceUnknownID(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.TakeOnce(context.Background(), "never-issued")
			if err != nil {
				t.Fatalf("TakeOnce failed: %v", err)
			}
			if got != nil {
				t.Fatalf("expected nil for unknown id, got %+v", got)
			}
		})
	}
}

func TestTakeOnceConcurrentSingleWinner(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			txn := Transaction{CodeVerifier: "verifier-1", CreatedAt: time.Now().UTC()}
			if err := store.Put(ctx, "contested", txn, time.Minute); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			const callers = 16
			var wins int64
			var wg sync.WaitGroup
			start := make(chan struct{})

			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					got, err := store.TakeOnce(ctx, "contested")
					if err != nil {
						t.Errorf("TakeOnce failed: %v", err)
						return
					}
					if got != nil {
						atomic.AddInt64(&wins, 1)
					}
				}()
			}
			close(start)
			wg.Wait()

			if wins != 1 {
				t.Fatalf("expected exactly one winner, got %d", wins)
			}
		})
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryTransactionStore()
	ctx := context.Background()

	txn := Transaction{CodeVerifier: "v", CreatedAt: time.Now().UTC()}
	if err := store.Put(ctx, "short", txn, time.Millisecond); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	got, err := store.TakeOnce(ctx, "short")
	if err != nil {
		t.Fatalf("TakeOnce failed: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired transaction to be absent")
	}
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mini := newRedisStore(t)
	ctx := context.Background()

	txn := Transaction{CodeVerifier: "v", CreatedAt: time.Now().UTC()}
	if err := store.Put(ctx, "short", txn, 10*time.Second); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mini.FastForward(11 * time.Second)

	got, err := store.TakeOnce(ctx, "short")
	if err != nil {
		t.Fatalf("TakeOnce failed: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired transaction to be absent")
	}
}
