package oauth

import (
	"fmt"
	"time"
)

// Config configures the authorization code flow.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// ClientID is the OAuth2 client identifier registered with the provider.
	ClientID string `mapstructure:"client_id"`

	// ClientSecret authenticates the token exchange (client_secret_basic).
	ClientSecret string `mapstructure:"client_secret"`

	// AuthorizationEndpoint is the provider's authorization URL.
	AuthorizationEndpoint string `mapstructure:"authorization_endpoint"`

	// TokenEndpoint is the provider's token URL.
	TokenEndpoint string `mapstructure:"token_endpoint"`

	// RedirectURI is this app's registered callback URL. The provider
	// compares it byte-for-byte between the authorize and token requests,
	// so the same configured value is sent in both.
	RedirectURI string `mapstructure:"redirect_uri"`

	// Scopes is the space-delimited scope string sent to the provider.
	Scopes string `mapstructure:"scopes"`

	// LogoutEndpoint is the provider's logout URL (optional). When empty,
	// logout is local-only.
	LogoutEndpoint string `mapstructure:"logout_endpoint"`

	// AppBaseURL is this app's externally visible base URL, used for
	// post_logout_redirect_uri.
	AppBaseURL string `mapstructure:"app_base_url"`

	// TransactionTTL bounds how long an in-flight login attempt stays valid
	// in the transaction store (default: "10m").
	TransactionTTL time.Duration `mapstructure:"transaction_ttl"`

	// ExchangeTimeout is the timeout for the token endpoint call (default: "10s").
	ExchangeTimeout time.Duration `mapstructure:"exchange_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Scopes == "" {
		c.Scopes = "sim-swap openid profile email"
	}
	if c.AppBaseURL == "" {
		c.AppBaseURL = "http://localhost:8080"
	}
	if c.TransactionTTL == 0 {
		c.TransactionTTL = 10 * time.Minute
	}
	if c.ExchangeTimeout == 0 {
		c.ExchangeTimeout = 10 * time.Second
	}
}

// Validate checks required fields. Missing settings are a startup failure,
// not a per-request discovery.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("oauth.client_id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("oauth.client_secret is required")
	}
	if c.AuthorizationEndpoint == "" {
		return fmt.Errorf("oauth.authorization_endpoint is required")
	}
	if c.TokenEndpoint == "" {
		return fmt.Errorf("oauth.token_endpoint is required")
	}
	if c.RedirectURI == "" {
		return fmt.Errorf("oauth.redirect_uri is required")
	}
	return nil
}
