package oauth

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/simbank/logger"
)

func signedIDToken(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return tok
}

func TestMaterializeUserDecodesClaims(t *testing.T) {
	log := logger.NewDefault("oauth-test")
	idToken := signedIDToken(t, gojwt.MapClaims{
		"sub":   "u1",
		"email": "u1@example.com",
		"name":  "User One",
	})

	user := MaterializeUser(&TokenResponse{AccessToken: "abc", IDToken: idToken}, log)

	if user["sub"] != "u1" {
		t.Errorf("expected sub u1, got %v", user["sub"])
	}
	if user["email"] != "u1@example.com" {
		t.Errorf("expected email claim, got %v", user["email"])
	}
	if user["name"] != "User One" {
		t.Errorf("expected name claim, got %v", user["name"])
	}
}

func TestMaterializeUserNoIDToken(t *testing.T) {
	log := logger.NewDefault("oauth-test")

	user := MaterializeUser(&TokenResponse{AccessToken: "abc"}, log)

	if user["sub"] != SubjectNoIDToken {
		t.Errorf("expected %s sentinel, got %v", SubjectNoIDToken, user["sub"])
	}
}

func TestMaterializeUserDecodeFailure(t *testing.T) {
	log := logger.NewDefault("oauth-test")

	user := MaterializeUser(&TokenResponse{AccessToken: "abc", IDToken: "not-a-jwt"}, log)

	if user["sub"] != SubjectDecodeError {
		t.Errorf("expected %s sentinel, got %v", SubjectDecodeError, user["sub"])
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if SubjectDecodeError == SubjectNoIDToken {
		t.Error("fallback sentinels must be distinguishable")
	}
}
