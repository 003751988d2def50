package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Parse([]byte(`
api_keys: ["k1", "k2"]
ai_api_token: "upstream-token"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	if err := Validate(validConfig(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	negative := -1

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"no keys", func(c *Config) { c.APIKeys = nil }, "at least one key"},
		{"blank key", func(c *Config) { c.APIKeys = []string{"k1", "  "} }, "api_keys[1] is empty"},
		{"duplicate key", func(c *Config) { c.APIKeys = []string{"k1", "k1"} }, "duplicate"},
		{"missing token", func(c *Config) { c.AIToken = "" }, "ai_api_token"},
		{"bad scheme", func(c *Config) { c.AIScheme = "ftp" }, "ai_api_scheme"},
		{"host with path", func(c *Config) { c.AIHost = "example.com/v1" }, "bare host"},
		{"port range", func(c *Config) { c.AIPort = 70000 }, "ai_api_port"},
		{"relative path", func(c *Config) { c.AIPath = "v1/chat" }, "must start with /"},
		{"negative history", func(c *Config) { c.MaxHistory = &negative }, "max_history"},
		{"request mode", func(c *Config) { c.RequestMode = "xml" }, "request_mode"},
		{"response mode", func(c *Config) { c.ResponseMode = "html" }, "response_mode"},
		{"bind", func(c *Config) { c.Server.Bind = "not an address" }, "server.bind"},
		{"write timeout", func(c *Config) { c.Server.WriteTimeout = 30 * time.Second }, "write_timeout"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"telemetry endpoint", func(c *Config) { c.Telemetry.Enabled = true }, "telemetry.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error should mention %q: %v", tt.wantSub, err)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t)
	cfg.APIKeys = nil
	cfg.AIToken = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "api_keys") || !strings.Contains(err.Error(), "ai_api_token") {
		t.Errorf("error should mention both problems: %v", err)
	}
}

func TestValidate_ZeroHistoryAllowed(t *testing.T) {
	t.Parallel()

	zero := 0
	cfg := validConfig(t)
	cfg.MaxHistory = &zero

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.History() != 0 {
		t.Errorf("History() = %d, want 0", cfg.History())
	}
}
