package simswap

import (
	"fmt"
	"time"
)

// Config configures the SIM Swap API client.
type Config struct {
	// BaseURL is the API base, e.g. "https://api.example.com/sim-swap/v0".
	BaseURL string `mapstructure:"base_url"`

	// Timeout is the per-request timeout (default: "10s").
	Timeout time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("simswap.base_url is required")
	}
	return nil
}
