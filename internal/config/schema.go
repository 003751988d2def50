// Package config handles YAML configuration loading, environment variable
// expansion, defaults, and structural validation for chatrelay.
package config

import "time"

// RequestMode selects how the body of POST /chat is interpreted.
type RequestMode string

// RequestMode values.
const (
	// RequestModeJSON requires {"question": string, "model"?: string}.
	RequestModeJSON RequestMode = "json"
	// RequestModeText treats the whole body as the question.
	RequestModeText RequestMode = "text"
	// RequestModeAuto picks JSON for application/json bodies and text otherwise.
	RequestModeAuto RequestMode = "auto"
)

// ResponseMode selects how a successful answer is written back.
type ResponseMode string

// ResponseMode values.
const (
	// ResponseModeJSON writes {"content","reasoning_content","total_tokens"}.
	ResponseModeJSON ResponseMode = "json"
	// ResponseModeText writes the reply text only.
	ResponseModeText ResponseMode = "text"
)

// Config is the top-level configuration structure. It is read once at
// startup and never mutated afterwards.
type Config struct {
	// APIKeys lists the bearer credentials accepted by POST /chat.
	// Each key also identifies the caller's conversation history.
	APIKeys []string `yaml:"api_keys"`

	// Upstream chat-completion endpoint, assembled by UpstreamURL.
	AIScheme string `yaml:"ai_api_scheme"`
	AIHost   string `yaml:"ai_api_host"`
	AIPort   int    `yaml:"ai_api_port"`
	AIPath   string `yaml:"ai_api_path"`

	// AIToken is sent upstream as "Authorization: Bearer <token>".
	AIToken string `yaml:"ai_api_token"`

	// AITimeout bounds each upstream call.
	AITimeout time.Duration `yaml:"ai_api_timeout"`

	// Model is used when a request does not override it.
	Model string `yaml:"ai_model"`

	// MaxHistory is the number of turns (single user or assistant
	// messages) retained per key. Nil means "use the default"; zero
	// disables history.
	MaxHistory *int `yaml:"max_history"`

	RequestMode  RequestMode  `yaml:"request_mode"`
	ResponseMode ResponseMode `yaml:"response_mode"`

	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP listener configuration.
type ServerConfig struct {
	Bind            string        `yaml:"bind"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// LogConfig controls the process logger. When File is empty logs go to stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// TelemetryConfig controls OpenTelemetry trace export over OTLP/HTTP.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// Default values mirror the deployment the relay was first written for.
const (
	DefaultScheme       = "https"
	DefaultHost         = "api.siliconflow.cn"
	DefaultPort         = 443
	DefaultPath         = "/v1/chat/completions"
	DefaultModel        = "THUDM/GLM-4-9B-0414"
	DefaultMaxHistory   = 5
	DefaultAITimeout    = 60 * time.Second
	DefaultBind         = "0.0.0.0:8000"
	DefaultMaxBodyBytes = 1 << 20
)

// History returns the effective per-key history bound.
func (c *Config) History() int {
	if c.MaxHistory == nil {
		return DefaultMaxHistory
	}
	return *c.MaxHistory
}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.AIScheme == "" {
		c.AIScheme = DefaultScheme
	}
	if c.AIHost == "" {
		c.AIHost = DefaultHost
	}
	if c.AIPort == 0 {
		c.AIPort = DefaultPort
	}
	if c.AIPath == "" {
		c.AIPath = DefaultPath
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.AITimeout <= 0 {
		c.AITimeout = DefaultAITimeout
	}
	if c.RequestMode == "" {
		c.RequestMode = RequestModeJSON
	}
	if c.ResponseMode == "" {
		c.ResponseMode = ResponseModeJSON
	}

	s := &c.Server
	if s.Bind == "" {
		s.Bind = DefaultBind
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 10 * time.Second
	}
	if s.WriteTimeout <= 0 {
		// Leave room for the upstream call plus encoding the answer.
		s.WriteTimeout = c.AITimeout + 30*time.Second
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 5 * time.Second
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	l := &c.Log
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
	if l.MaxSizeMB <= 0 {
		l.MaxSizeMB = 10
	}
	if l.MaxBackups <= 0 {
		l.MaxBackups = 3
	}
	if l.MaxAgeDays <= 0 {
		l.MaxAgeDays = 28
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "chatrelay"
	}
}
