package bank

import (
	"fmt"
	"time"
)

// Config configures the demo bank.
type Config struct {
	// InitialBalance is the account's starting balance.
	InitialBalance float64 `mapstructure:"initial_balance"`

	// RiskThreshold is the transfer amount above which a SIM-swap check runs.
	RiskThreshold float64 `mapstructure:"risk_threshold"`

	// SwapWindow is how recent a SIM swap has to be to block a transfer
	// (default: "48h").
	SwapWindow time.Duration `mapstructure:"swap_window"`

	// DefaultMSISDN seeds the stored customer phone number.
	DefaultMSISDN string `mapstructure:"default_msisdn"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.InitialBalance == 0 {
		c.InitialBalance = 10000
	}
	if c.RiskThreshold == 0 {
		c.RiskThreshold = 200
	}
	if c.SwapWindow == 0 {
		c.SwapWindow = 48 * time.Hour
	}
	if c.DefaultMSISDN == "" {
		c.DefaultMSISDN = "tel:+5511123456789"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.InitialBalance < 0 {
		return fmt.Errorf("bank.initial_balance must be non-negative (got: %v)", c.InitialBalance)
	}
	if c.RiskThreshold < 0 {
		return fmt.Errorf("bank.risk_threshold must be non-negative (got: %v)", c.RiskThreshold)
	}
	return nil
}
