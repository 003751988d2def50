package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
api_keys: [k1]
ai_api_token: tok
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AIScheme != "https" || cfg.AIHost != DefaultHost || cfg.AIPort != 443 || cfg.AIPath != DefaultPath {
		t.Errorf("upstream defaults = %s://%s:%d%s", cfg.AIScheme, cfg.AIHost, cfg.AIPort, cfg.AIPath)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.History() != 5 {
		t.Errorf("History() = %d, want 5", cfg.History())
	}
	if cfg.AITimeout != 60*time.Second {
		t.Errorf("AITimeout = %v, want 60s", cfg.AITimeout)
	}
	if cfg.RequestMode != RequestModeJSON || cfg.ResponseMode != ResponseModeJSON {
		t.Errorf("modes = %q/%q, want json/json", cfg.RequestMode, cfg.ResponseMode)
	}
	if cfg.Server.Bind != DefaultBind {
		t.Errorf("Bind = %q, want %q", cfg.Server.Bind, DefaultBind)
	}
	if cfg.Server.WriteTimeout != 90*time.Second {
		t.Errorf("WriteTimeout = %v, want 90s", cfg.Server.WriteTimeout)
	}
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want %d", cfg.Server.MaxBodyBytes, DefaultMaxBodyBytes)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %q/%q, want info/text", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Telemetry.ServiceName != "chatrelay" {
		t.Errorf("ServiceName = %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_Custom(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
api_keys: [k1, k2]
ai_api_scheme: http
ai_api_host: localhost
ai_api_port: 8080
ai_api_path: /chat
ai_api_token: tok
ai_api_timeout: 5s
ai_model: my-model
max_history: 2
request_mode: auto
response_mode: text
server:
  bind: "127.0.0.1:9000"
  shutdown_timeout: 1s
log:
  level: debug
  format: json
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.APIKeys) != 2 {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if got := cfg.UpstreamURL(); got != "http://localhost:8080/chat" {
		t.Errorf("UpstreamURL() = %q", got)
	}
	if cfg.AITimeout != 5*time.Second {
		t.Errorf("AITimeout = %v, want 5s", cfg.AITimeout)
	}
	if cfg.History() != 2 {
		t.Errorf("History() = %d, want 2", cfg.History())
	}
	if cfg.RequestMode != RequestModeAuto || cfg.ResponseMode != ResponseModeText {
		t.Errorf("modes = %q/%q", cfg.RequestMode, cfg.ResponseMode)
	}
	if cfg.Server.WriteTimeout != 35*time.Second {
		t.Errorf("WriteTimeout = %v, want 35s", cfg.Server.WriteTimeout)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_ExampleConfig(t *testing.T) {
	t.Setenv("CHATRELAY_KEY", "example-client-key")
	t.Setenv("AI_API_TOKEN", "example-upstream-token")

	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.APIKeys) != 1 || cfg.APIKeys[0] != "example-client-key" {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if cfg.AIToken != "example-upstream-token" {
		t.Errorf("AIToken = %q", cfg.AIToken)
	}
	if got := cfg.UpstreamURL(); got != "https://api.siliconflow.cn/v1/chat/completions" {
		t.Errorf("UpstreamURL() = %q", got)
	}
}

func TestLoad_CommentsAreExpanded(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "# uses ${CHATRELAY_SURELY_UNSET_VAR}\napi_keys: [k1]\nai_api_token: tok\n"))
	if err == nil || !strings.Contains(err.Error(), "CHATRELAY_SURELY_UNSET_VAR") {
		t.Errorf("err = %v, want unresolved variable from comment", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading") {
		t.Errorf("error should mention reading: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "api_keys: [unterminated"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error should mention parsing: %v", err)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("CHATRELAY_TEST_TOKEN", "from-env")

	cfg, err := Parse([]byte(`
api_keys: [k1]
ai_api_token: ${CHATRELAY_TEST_TOKEN}
ai_model: ${CHATRELAY_TEST_UNSET_MODEL:-fallback-model}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AIToken != "from-env" {
		t.Errorf("AIToken = %q, want from-env", cfg.AIToken)
	}
	if cfg.Model != "fallback-model" {
		t.Errorf("Model = %q, want fallback-model", cfg.Model)
	}
}

func TestParse_UnresolvedVariable(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("ai_api_token: ${CHATRELAY_TEST_DEFINITELY_UNSET}\n"))
	if err == nil {
		t.Fatal("expected error for unresolved variable")
	}
	if !strings.Contains(err.Error(), "CHATRELAY_TEST_DEFINITELY_UNSET") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestUpstreamURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme, host, path string
		port               int
		want               string
	}{
		{"https", "api.siliconflow.cn", "/v1/chat/completions", 443, "https://api.siliconflow.cn/v1/chat/completions"},
		{"http", "localhost", "/v1/chat", 80, "http://localhost/v1/chat"},
		{"https", "example.com", "/v1", 8443, "https://example.com:8443/v1"},
		{"http", "::1", "/x", 9000, "http://[::1]:9000/x"},
	}

	for _, tt := range tests {
		cfg := &Config{AIScheme: tt.scheme, AIHost: tt.host, AIPort: tt.port, AIPath: tt.path}
		if got := cfg.UpstreamURL(); got != tt.want {
			t.Errorf("UpstreamURL(%s,%s,%d,%s) = %q, want %q", tt.scheme, tt.host, tt.port, tt.path, got, tt.want)
		}
	}
}
