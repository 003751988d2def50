// Package app provides the entry point shared by the chatrelay commands.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/flemzord/chatrelay/internal/config"
	"github.com/flemzord/chatrelay/internal/gateway"
	"github.com/flemzord/chatrelay/internal/history"
	"github.com/flemzord/chatrelay/internal/relay"
	"github.com/flemzord/chatrelay/internal/security"
	"github.com/flemzord/chatrelay/internal/telemetry"
	openaicompat "github.com/flemzord/chatrelay/modules/provider/openai_compatible"
)

// ConfigEnvVar names the environment variable consulted for the config path
// when no explicit path is given.
const ConfigEnvVar = "CHATRELAY_CONFIG"

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string
}

// Run starts the relay and blocks until SIGINT or SIGTERM is received.
func Run(params RunParams) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunContext(ctx, params)
}

// RunContext starts the relay and blocks until ctx is cancelled, then shuts
// the gateway down gracefully.
func RunContext(ctx context.Context, params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	// Keep the caller keys and the upstream token out of every log line.
	keys := security.NewKeySet(cfg.APIKeys)
	redactor := security.NewRedactor()
	var unredacted int
	for _, secret := range append([]string{cfg.AIToken}, keys.Values()...) {
		if !redactor.AddLiteral(secret) {
			unredacted++
		}
	}

	logger, logCloser, err := telemetry.NewLogger(cfg.Log, redactor)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	if unredacted > 0 {
		logger.Warn("some credentials are too short to be redacted from logs",
			"count", unredacted,
			"min_length", security.MinLiteralLength,
		)
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Telemetry, params.Version)
	if err != nil {
		return err
	}

	gw, err := NewGateway(cfg, keys, logger)
	if err != nil {
		return err
	}
	if err := gw.Start(); err != nil {
		return err
	}
	logger.Info("chatrelay started",
		"version", params.Version,
		"config", cfgPath,
		"upstream", cfg.UpstreamURL(),
		"model", cfg.Model,
		"keys", len(cfg.APIKeys),
		"max_history", cfg.History(),
	)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if err := gw.Stop(context.Background()); err != nil {
		logger.Error("gateway shutdown", "error", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("tracer shutdown", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// LoadConfig reads and validates the configuration at path.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewGateway assembles the relay service and its HTTP gateway from cfg,
// accepting the credentials in keys. The gateway is returned unstarted.
func NewGateway(cfg *config.Config, keys *security.KeySet, logger *slog.Logger) (*gateway.Gateway, error) {
	upstream, err := openaicompat.New(openaicompat.Config{
		Endpoint: cfg.UpstreamURL(),
		APIKey:   cfg.AIToken,
		Model:    cfg.Model,
		Timeout:  cfg.AITimeout,
	}, logger.With("component", "upstream"))
	if err != nil {
		return nil, err
	}

	store := history.NewInMemoryStore(cfg.History())
	metrics := gateway.NewMetrics(store)
	svc := relay.NewService(
		keys,
		store,
		upstream,
		relay.WithLogger(logger.With("component", "relay")),
		relay.WithObserver(metrics),
	)

	return gateway.New(gateway.Params{
		Server:       cfg.Server,
		RequestMode:  cfg.RequestMode,
		ResponseMode: cfg.ResponseMode,
		Service:      svc,
		Sessions:     store,
		Metrics:      metrics,
		Logger:       logger.With("component", "gateway"),
	}), nil
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $CHATRELAY_CONFIG → $XDG_CONFIG_HOME/chatrelay/config.yaml →
// ~/.config/chatrelay/config.yaml → ./config.yaml
func ResolveConfigPath() (string, error) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s points to an unreadable file: %w", ConfigEnvVar, err)
		}
		return p, nil
	}

	var candidates []string
	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "chatrelay", "config.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "chatrelay", "config.yaml"))
	}
	candidates = append(candidates, "config.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}
