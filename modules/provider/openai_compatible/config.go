package openaicompat

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the configuration for the OpenAI-compatible upstream.
type Config struct {
	// Endpoint is the full chat-completions URL.
	Endpoint string
	// APIKey is sent as "Authorization: Bearer <APIKey>".
	APIKey string
	// Model is used when a request leaves CompletionRequest.Model empty.
	Model string
	// Timeout bounds the whole upstream exchange, body included.
	Timeout time.Duration
}

// defaults sets default values for unset fields.
func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// validate returns an error if required fields are missing.
func (c *Config) validate() error {
	if c.Endpoint == "" {
		return errMissingField("endpoint")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("openai_compatible: endpoint is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("openai_compatible: endpoint scheme must be http or https, got %q", u.Scheme)
	}
	if c.APIKey == "" {
		return errMissingField("api_key")
	}
	if c.Model == "" {
		return errMissingField("model")
	}
	return nil
}

func errMissingField(name string) error {
	return fmt.Errorf("openai_compatible: %s is required", name)
}
