package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/simbank/errors"
	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/observability"
)

// maxErrorBodyBytes caps how much of an upstream failure body is kept for
// diagnostics.
const maxErrorBodyBytes = 2048

// exchangeCode trades an authorization code plus the stored PKCE verifier
// for tokens. The request is form-encoded and authenticated with HTTP Basic
// client credentials. redirect_uri must be byte-identical to the value sent
// in the authorization request; the provider validates this.
//
// A failed exchange is terminal for the login attempt. No retries: the user
// restarts at /login.
func (f *Flow) exchangeCode(ctx context.Context, code, verifier string) (*TokenResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTokenExchange)
	defer span.End()

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {f.cfg.RedirectURI},
		"client_id":     {f.cfg.ClientID},
		"code_verifier": {verifier},
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.ExchangeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Upstream("token exchange", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(f.cfg.ClientID, f.cfg.ClientSecret)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Upstream("token exchange", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		f.log.Error("Token endpoint returned non-success status", logger.Fields(
			"status", resp.StatusCode,
			"body", string(body),
		))
		return nil, errors.Upstream("token exchange",
			fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, string(body))).
			WithDetail("upstream_status", resp.StatusCode)
	}

	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		f.log.Error("Failed to parse token endpoint response", logger.ErrorFields("token exchange", err))
		return nil, errors.Upstream("token exchange", err).
			WithDetail("reason", "invalid response from token endpoint")
	}
	return &tok, nil
}
