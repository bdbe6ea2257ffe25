package session

import (
	"context"

	"github.com/kbukum/simbank/oauth"
)

// Session holds everything the server remembers about one logged-in browser.
type Session struct {
	// User is the decoded identity claims, or a sentinel fallback.
	User map[string]any `json:"user,omitempty"`

	// Token is the provider's token-exchange result.
	Token *oauth.TokenResponse `json:"token,omitempty"`
}

// Authenticated reports whether a user is logged in.
func (s *Session) Authenticated() bool {
	return s != nil && len(s.User) > 0
}

// AccessToken returns the current access token. It is a pure accessor with
// no side effects on the session; the bank module reads it to call the
// SIM-swap API.
func (s *Session) AccessToken() (string, bool) {
	if s == nil || s.Token == nil || s.Token.AccessToken == "" {
		return "", false
	}
	return s.Token.AccessToken, true
}

// Store is the external session store: opaque get/set/clear keyed by a
// request-scoped identifier.
type Store interface {
	// Get loads a session, returning (nil, nil) when absent.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous value.
	Set(ctx context.Context, id string, s *Session) error

	// Clear removes a session. Clearing an absent session is not an error.
	Clear(ctx context.Context, id string) error
}
