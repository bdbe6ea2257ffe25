package config

import (
	"fmt"
	"time"

	"github.com/kbukum/simbank/bank"
	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/oauth"
	"github.com/kbukum/simbank/redis"
	"github.com/kbukum/simbank/server"
	"github.com/kbukum/simbank/session"
	"github.com/kbukum/simbank/simswap"
)

// ServiceName is the canonical service identifier used for logging,
// telemetry, and config file discovery.
const ServiceName = "simbank"

// Config is the root configuration for the service.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging   logger.Config   `yaml:"logging" mapstructure:"logging"`
	Server    server.Config   `yaml:"server" mapstructure:"server"`
	Redis     redis.Config    `yaml:"redis" mapstructure:"redis"`
	OAuth     oauth.Config    `yaml:"oauth" mapstructure:"oauth"`
	Session   session.Config  `yaml:"session" mapstructure:"session"`
	Bank      bank.Config     `yaml:"bank" mapstructure:"bank"`
	SimSwap   simswap.Config  `yaml:"simswap" mapstructure:"simswap"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig configures the optional OpenTelemetry exporters.
type TelemetryConfig struct {
	// Enabled turns tracing and metrics export on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Insecure allows plain HTTP export (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`

	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}

	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.OAuth.ApplyDefaults()
	c.Session.ApplyDefaults()
	c.Bank.ApplyDefaults()
	c.SimSwap.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.OAuth.Validate(); err != nil {
		return fmt.Errorf("oauth: %w", err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Bank.Validate(); err != nil {
		return fmt.Errorf("bank: %w", err)
	}
	if err := c.SimSwap.Validate(); err != nil {
		return fmt.Errorf("simswap: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// ApplyDefaults sets telemetry defaults.
func (c *TelemetryConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks telemetry bounds.
func (c *TelemetryConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1 (got: %g)", c.SampleRate)
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}
	return nil
}
