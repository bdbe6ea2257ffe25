package oauth

import (
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/simbank/logger"
)

// Sentinel subjects distinguishing the two degraded login outcomes in logs
// and telemetry. Neither aborts the flow.
const (
	// SubjectDecodeError marks a session whose identity token was present
	// but could not be decoded.
	SubjectDecodeError = "id_token_decode_error"

	// SubjectNoIDToken marks a session established without an identity token.
	SubjectNoIDToken = "unknown_user_no_id_token"
)

// MaterializeUser turns a token-endpoint response into the session user.
//
// When an identity token is present its claims are decoded WITHOUT
// cryptographic verification — acceptable only because this demo treats the
// provider connection as trusted transport; production hardening must verify
// signature, issuer, audience, and expiry. Decode failure degrades to the
// SubjectDecodeError sentinel instead of failing the login.
func MaterializeUser(tok *TokenResponse, log *logger.Logger) map[string]any {
	if tok.IDToken == "" {
		log.Warn("No identity token in token response, using fallback user")
		return map[string]any{"sub": SubjectNoIDToken}
	}

	claims := gojwt.MapClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(tok.IDToken, claims); err != nil {
		log.Warn("Failed to decode identity token, using fallback user", logger.ErrorFields("id_token decode", err))
		return map[string]any{"sub": SubjectDecodeError}
	}
	return map[string]any(claims)
}
