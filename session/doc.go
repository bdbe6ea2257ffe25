// Package session provides the server-side session layer for simbank.
//
// A session is keyed by a client-held cookie identifier and holds the
// authenticated user claims plus the OAuth token response. It is created on
// a successful callback, replaced wholesale on each login, and cleared on
// logout. Expiry is the store's concern: the Redis implementation relies on
// key TTLs, refreshed on every save.
package session
