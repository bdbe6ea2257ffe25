package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
)

// ChallengeMethod is the only PKCE method this client supports.
const ChallengeMethod = "S256"

// GenerateVerifier creates a PKCE code verifier: 64 random bytes,
// base64url-encoded without padding (86 characters, 512 bits of entropy).
func GenerateVerifier() (string, error) {
	b := make([]byte, 64)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DeriveChallenge computes the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) with padding stripped. Deterministic and
// byte-identical to the provider-side verification algorithm.
func DeriveChallenge(verifier string) string {
	h := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// NewTransactionID creates a cryptographically random, URL-safe transaction
// identifier. It doubles as the OAuth state parameter, so its unguessability
// is a security property, not just a uniqueness one.
func NewTransactionID() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
