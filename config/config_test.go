package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testConfigYAML = `name: simbank
environment: development
server:
  port: 9090
redis:
  addr: localhost:6379
oauth:
  client_id: bank-app
  client_secret: s3cret
  authorization_endpoint: https://idp.example.com/authorize
  token_endpoint: https://idp.example.com/token
  redirect_uri: http://localhost:9090/callback
simswap:
  base_url: https://api.example.com/sim-swap/v0
bank:
  risk_threshold: 200
  swap_window: 48h
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempConfig(t, testConfigYAML)

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "simbank" {
		t.Errorf("name = %q, want simbank", cfg.Name)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.OAuth.ClientID != "bank-app" {
		t.Errorf("oauth.client_id = %q, want bank-app", cfg.OAuth.ClientID)
	}
	if cfg.Bank.SwapWindow != 48*time.Hour {
		t.Errorf("bank.swap_window = %v, want 48h", cfg.Bank.SwapWindow)
	}
	if !cfg.Debug {
		t.Error("debug should default on in development")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, testConfigYAML)

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info default", cfg.Logging.Level)
	}
	if cfg.Session.CookieName != "sid" {
		t.Errorf("session.cookie_name = %q, want sid default", cfg.Session.CookieName)
	}
	if cfg.OAuth.Scopes == "" {
		t.Error("oauth.scopes default missing")
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("telemetry.sample_rate = %g, want 1.0 default", cfg.Telemetry.SampleRate)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeTempConfig(t, testConfigYAML)

	t.Setenv("OAUTH_CLIENT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OAuth.ClientSecret != "from-env" {
		t.Errorf("oauth.client_secret = %q, want from-env", cfg.OAuth.ClientSecret)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070 from env", cfg.Server.Port)
	}
}

func TestLoadRejectsIncompleteOAuth(t *testing.T) {
	incomplete := strings.Replace(testConfigYAML, "  client_id: bank-app\n", "", 1)
	path := writeTempConfig(t, incomplete)

	_, err := Load(WithConfigFile(path))
	if err == nil {
		t.Fatal("expected validation error for missing oauth.client_id")
	}
	if !strings.Contains(err.Error(), "client_id") {
		t.Errorf("error = %v, want mention of client_id", err)
	}
}

func TestTelemetryConfigValidate(t *testing.T) {
	tc := TelemetryConfig{SampleRate: 1.5}
	if err := tc.Validate(); err == nil {
		t.Error("expected error for sample_rate > 1")
	}

	tc = TelemetryConfig{}
	tc.ApplyDefaults()
	if err := tc.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if tc.Interval != 15*time.Second {
		t.Errorf("interval = %v, want 15s default", tc.Interval)
	}
}
