package session

import (
	"fmt"
	"time"
)

// Config holds session cookie and storage configuration.
type Config struct {
	// CookieName is the name of the session identifier cookie.
	CookieName string `mapstructure:"cookie_name"`

	// TTL bounds how long an idle session survives in the store. It is
	// refreshed on every save.
	TTL time.Duration `mapstructure:"ttl"`

	// Secure marks the cookie Secure; enable whenever the app is served
	// over HTTPS.
	Secure bool `mapstructure:"secure"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.CookieName == "" {
		c.CookieName = "sid"
	}
	if c.TTL == 0 {
		c.TTL = time.Hour
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.TTL < 0 {
		return fmt.Errorf("session.ttl must be non-negative (got: %s)", c.TTL)
	}
	return nil
}
