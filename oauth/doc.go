// Package oauth implements the OAuth 2.0 Authorization Code flow with PKCE
// against an external identity provider.
//
// The flow is transactional across the redirect round-trip: BeginLogin
// generates a random transaction id (doubling as the OAuth state parameter)
// and a PKCE code verifier, persists them in a TTL-bounded TransactionStore,
// and returns the provider authorization URL. HandleCallback validates the
// returning state, consumes the transaction exactly once, exchanges the
// authorization code for tokens, and materializes the session user from the
// identity token.
//
// One-time consumption of the unguessable transaction id is the sole
// replay/CSRF defense: TakeOnce is atomic, so a replayed or concurrently
// duplicated callback always fails with an invalid-state protocol error.
//
// Identity tokens are decoded without signature verification. This is a
// deliberate simplification for a demo client; a production deployment must
// verify signature, issuer, audience, and expiry against the provider's
// published keys before trusting any claim.
package oauth
