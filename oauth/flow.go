package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/simbank/errors"
	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/observability"
)

// Flow drives the authorization code grant end to end: it begins login
// attempts, validates callbacks, exchanges codes for tokens, and builds
// logout URLs. One Flow serves all requests; it holds no per-attempt state
// (that lives in the TransactionStore).
type Flow struct {
	cfg        Config
	store      TransactionStore
	httpClient *http.Client
	log        *logger.Logger
}

// NewFlow creates a Flow. The configuration is validated eagerly so that a
// misconfigured deployment fails at startup rather than on the first login.
func NewFlow(cfg Config, store TransactionStore, log *logger.Logger) (*Flow, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("oauth flow requires a transaction store")
	}

	return &Flow{
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{Timeout: cfg.ExchangeTimeout},
		log:        log.WithComponent("oauth"),
	}, nil
}

// Config returns the flow configuration.
func (f *Flow) Config() Config {
	return f.cfg
}

// BeginLogin starts a login attempt: it generates the transaction id (used
// as the OAuth state) and PKCE verifier, persists them with the configured
// TTL, and returns the provider authorization URL to redirect the browser to.
// hint, when non-empty, is passed through as login_hint.
func (f *Flow) BeginLogin(ctx context.Context, hint string) (string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanBeginLogin)
	defer span.End()

	transactionID, err := NewTransactionID()
	if err != nil {
		return "", errors.Internal(fmt.Errorf("generating transaction id: %w", err))
	}
	verifier, err := GenerateVerifier()
	if err != nil {
		return "", errors.Internal(fmt.Errorf("generating code verifier: %w", err))
	}

	txn := Transaction{CodeVerifier: verifier, CreatedAt: time.Now().UTC()}
	if err := f.store.Put(ctx, transactionID, txn, f.cfg.TransactionTTL); err != nil {
		observability.SetSpanError(ctx, err)
		return "", errors.ServiceUnavailable("transaction store").WithCause(err)
	}

	params := url.Values{
		"response_type":         {"code"},
		"client_id":             {f.cfg.ClientID},
		"redirect_uri":          {f.cfg.RedirectURI},
		"scope":                 {f.cfg.Scopes},
		"state":                 {transactionID},
		"code_challenge":        {DeriveChallenge(verifier)},
		"code_challenge_method": {ChallengeMethod},
	}
	if hint != "" {
		params.Set("login_hint", hint)
	}

	f.log.Info("Login transaction stored, redirecting to provider", logger.Fields(
		logger.FieldTransactionID, transactionID,
		"ttl", f.cfg.TransactionTTL.String(),
	))
	return f.cfg.AuthorizationEndpoint + "?" + params.Encode(), nil
}

// Callback carries the query parameters of an authorization callback. All
// values are untrusted input.
type Callback struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// HandleCallback validates a provider callback, consumes its transaction,
// and exchanges the code for tokens. Terminal failures return an AppError
// with the proper HTTP status; the consumed transaction never survives, so
// replaying the same state always fails with an invalid-state error.
func (f *Flow) HandleCallback(ctx context.Context, cb Callback) (*LoginResult, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanHandleCallback)
	defer span.End()

	if cb.Error != "" {
		desc := cb.ErrorDescription
		if desc == "" {
			desc = "no description"
		}
		f.log.Error("Provider returned an error on callback", logger.Fields(
			"provider_error", cb.Error,
			"description", desc,
		))
		return nil, errors.Protocol("OAuth authorization failed.").
			WithDetail("provider_error", cb.Error).
			WithDetail("description", desc)
	}

	if cb.Code == "" || cb.State == "" {
		return nil, errors.Protocol("Authorization code or state missing.")
	}

	txn, err := f.store.TakeOnce(ctx, cb.State)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, errors.ServiceUnavailable("transaction store").WithCause(err)
	}
	if txn == nil {
		// Unknown, expired, or already consumed: forged state and replay
		// both land here.
		f.log.Warn("Callback with invalid or expired state", logger.Fields(
			logger.FieldTransactionID, cb.State,
		))
		return nil, errors.Protocol("Invalid or expired state.")
	}

	f.log.Info("Transaction consumed, exchanging code", logger.Fields(
		logger.FieldTransactionID, cb.State,
		"age", time.Since(txn.CreatedAt).String(),
	))

	tok, err := f.exchangeCode(ctx, cb.Code, txn.CodeVerifier)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	user := MaterializeUser(tok, f.log)
	observability.SetSpanAttribute(ctx, "login.subject_fallback",
		user["sub"] == SubjectDecodeError || user["sub"] == SubjectNoIDToken)

	return &LoginResult{Token: tok, User: user}, nil
}

// LogoutURL builds the redirect target for logout. With a provider logout
// endpoint configured it carries id_token_hint (when available, captured
// before the session was cleared) and post_logout_redirect_uri; otherwise
// logout stays local and the landing page is returned.
func (f *Flow) LogoutURL(idTokenHint string) string {
	if f.cfg.LogoutEndpoint == "" {
		return "/"
	}

	params := url.Values{}
	if idTokenHint != "" {
		params.Set("id_token_hint", idTokenHint)
	}
	if f.cfg.AppBaseURL != "" {
		params.Set("post_logout_redirect_uri", f.cfg.AppBaseURL+"/")
	}

	if len(params) == 0 {
		return f.cfg.LogoutEndpoint
	}
	return f.cfg.LogoutEndpoint + "?" + params.Encode()
}
