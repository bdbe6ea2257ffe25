// Package config loads and validates the service configuration.
//
// Configuration comes from a YAML file plus environment variable overrides,
// loaded with Viper. A .env file, when present, is read with godotenv before
// the environment is bound, so local development secrets stay out of the
// config file.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//
// Environment variables map onto nested keys by underscore splitting, so
// OAUTH_CLIENT_SECRET overrides oauth.client_secret.
package config
