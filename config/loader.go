package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/simbank/logger"
)

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads the service configuration. It searches for config.yml and a
// .env file in the standard locations, binds environment variables on top,
// applies defaults, and validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.ConfigFile == "" {
		lc.ConfigFile = findFirst(configSearchPaths())
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findFirst(envSearchPaths())
	}

	cfg := &Config{}

	v := viper.New()

	// YAML file first: it is the base layer.
	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", lc.ConfigFile, err)
		}
	}

	// .env before env binding so its variables participate.
	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			logger.Warn("Failed to load .env file", logger.Fields(
				"path", lc.EnvFile,
				"error", err.Error(),
			))
		}
	}

	v.AutomaticEnv()
	bindEnvOverrides(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// configSearchPaths lists the locations probed for config.yml, most
// specific first.
func configSearchPaths() []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", ServiceName),
		fmt.Sprintf("../cmd/%s/config.yml", ServiceName),
		"./config/config.yml",
		"./config.yml",
	}
}

// envSearchPaths lists the locations probed for a .env file.
func envSearchPaths() []string {
	return []string{
		fmt.Sprintf(".env.%s", ServiceName),
		fmt.Sprintf("./cmd/%s/.env", ServiceName),
		".env",
	}
}

func findFirst(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// bindEnvOverrides maps UPPER_CASE_WITH_UNDERSCORES environment variables
// onto nested config keys. OAUTH_CLIENT_SECRET becomes oauth.client_secret;
// single-word variables map onto top-level keys.
func bindEnvOverrides(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || pair[1] == "" {
			continue
		}
		for _, key := range envKeyVariants(pair[0]) {
			v.Set(key, pair[1])
		}
	}
}

// envKeyVariants expands an environment variable name into the nested key
// spellings it may stand for. The section name is always the first
// underscore-separated word, but the remainder may itself contain
// underscores (oauth.client_secret), so every split point is produced.
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) == 1 {
		return []string{lowerKey}
	}

	sections := map[string]bool{
		"logging": true, "server": true, "redis": true, "oauth": true,
		"session": true, "bank": true, "simswap": true, "telemetry": true,
	}
	if !sections[parts[0]] {
		return nil
	}

	variants := make([]string, 0, len(parts))
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}
	return variants
}
