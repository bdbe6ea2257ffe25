package oauth

import (
	"context"
	"time"
)

// Transaction captures the per-attempt secrets of one in-flight login.
// It is written by BeginLogin and consumed exactly once by HandleCallback;
// between those events the store owns it exclusively.
type Transaction struct {
	// CodeVerifier is the PKCE secret sent during the token exchange.
	CodeVerifier string `json:"code_verifier"`

	// CreatedAt is the UTC creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// TransactionStore is the durable, TTL-bounded mapping from transaction id
// to per-attempt secrets.
type TransactionStore interface {
	// Put stores a transaction under id for at most ttl.
	Put(ctx context.Context, id string, txn Transaction, ttl time.Duration) error

	// TakeOnce retrieves and deletes the transaction atomically, returning
	// (nil, nil) when absent. Concurrent calls with the same id must not
	// both succeed; at-most-once consumption is what prevents replay.
	TakeOnce(ctx context.Context, id string) (*Transaction, error)
}
