package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
)

// Validate checks the structural validity of a Config that has been
// through Load or Parse. Every problem is reported, joined into one error.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.APIKeys) == 0 {
		errs = append(errs, errors.New("config: api_keys must list at least one key"))
	}
	seen := make(map[string]struct{}, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, fmt.Errorf("config: api_keys[%d] is empty", i))
			continue
		}
		if _, dup := seen[k]; dup {
			errs = append(errs, fmt.Errorf("config: api_keys[%d] is a duplicate", i))
		}
		seen[k] = struct{}{}
	}

	if cfg.AIToken == "" {
		errs = append(errs, errors.New("config: ai_api_token is required"))
	}
	if cfg.AIScheme != "http" && cfg.AIScheme != "https" {
		errs = append(errs, fmt.Errorf("config: ai_api_scheme must be http or https, got %q", cfg.AIScheme))
	}
	if strings.ContainsAny(cfg.AIHost, "/ ") {
		errs = append(errs, fmt.Errorf("config: ai_api_host %q must be a bare host name", cfg.AIHost))
	}
	if cfg.AIPort < 1 || cfg.AIPort > 65535 {
		errs = append(errs, fmt.Errorf("config: ai_api_port %d out of range", cfg.AIPort))
	}
	if !strings.HasPrefix(cfg.AIPath, "/") {
		errs = append(errs, fmt.Errorf("config: ai_api_path %q must start with /", cfg.AIPath))
	}
	if cfg.History() < 0 {
		errs = append(errs, fmt.Errorf("config: max_history must not be negative, got %d", cfg.History()))
	}

	switch cfg.RequestMode {
	case RequestModeJSON, RequestModeText, RequestModeAuto:
	default:
		errs = append(errs, fmt.Errorf("config: unsupported request_mode %q (supported: json, text, auto)", cfg.RequestMode))
	}
	switch cfg.ResponseMode {
	case ResponseModeJSON, ResponseModeText:
	default:
		errs = append(errs, fmt.Errorf("config: unsupported response_mode %q (supported: json, text)", cfg.ResponseMode))
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.Server.Bind); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid server.bind %q: %w", cfg.Server.Bind, err))
	}
	if cfg.Server.WriteTimeout <= cfg.AITimeout {
		errs = append(errs, fmt.Errorf("config: server.write_timeout (%s) must exceed ai_api_timeout (%s)",
			cfg.Server.WriteTimeout, cfg.AITimeout))
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("config: unsupported log.format %q (supported: text, json)", cfg.Log.Format))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("config: telemetry.endpoint is required when telemetry is enabled"))
	}

	return errors.Join(errs...)
}

// ParseLevel maps a log.level string onto a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: unsupported log.level %q", s)
	}
	return lvl, nil
}
