// Package redis provides the Redis client used by simbank for OAuth
// transaction and session storage.
//
// It wraps go-redis with simbank logging and configuration conventions.
// GetDel is the operation the login flow depends on: it is Redis's atomic
// read-and-delete, which gives OAuth transactions their one-time-use
// guarantee under concurrent callback delivery.
package redis
