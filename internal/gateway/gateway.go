// Package gateway exposes the relay over HTTP: POST /chat for callers,
// plus unauthenticated /health and /metrics for operators.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/flemzord/chatrelay/internal/config"
	"github.com/flemzord/chatrelay/internal/relay"
)

// SessionCounter reports how many conversation sessions exist.
type SessionCounter interface {
	Sessions() int
}

// Params holds the collaborators and settings of a Gateway.
type Params struct {
	Server       config.ServerConfig
	RequestMode  config.RequestMode
	ResponseMode config.ResponseMode
	Service      *relay.Service
	Sessions     SessionCounter
	Metrics      *Metrics
	Logger       *slog.Logger
}

// Gateway is the HTTP front of the relay.
type Gateway struct {
	params    Params
	logger    *slog.Logger
	metrics   *Metrics
	handler   http.Handler
	startedAt time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New builds a Gateway. A nil Metrics gets a private registry.
func New(p Params) *Gateway {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Metrics == nil {
		p.Metrics = NewMetrics(p.Sessions)
	}
	if p.RequestMode == "" {
		p.RequestMode = config.RequestModeJSON
	}
	if p.ResponseMode == "" {
		p.ResponseMode = config.ResponseModeJSON
	}
	if p.Server.MaxBodyBytes <= 0 {
		p.Server.MaxBodyBytes = config.DefaultMaxBodyBytes
	}

	g := &Gateway{
		params:    p,
		logger:    p.Logger,
		metrics:   p.Metrics,
		startedAt: time.Now(),
	}
	g.handler = g.buildRouter()
	return g
}

// Handler returns the routed http.Handler, for tests and embedding.
func (g *Gateway) Handler() http.Handler {
	return g.handler
}

// Start listens on the configured bind address and serves in the background.
func (g *Gateway) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.server != nil {
		return errors.New("gateway: already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.params.Server.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	g.listener = ln
	g.server = &http.Server{
		Handler:      g.handler,
		ReadTimeout:  g.params.Server.ReadTimeout,
		WriteTimeout: g.params.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(g.logger.Handler(), slog.LevelWarn),
	}

	go func(srv *http.Server) {
		g.logger.Info("gateway listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}(g.server)

	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (g *Gateway) Addr() net.Addr {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listener == nil {
		return nil
	}
	return g.listener.Addr()
}

// Stop shuts the server down gracefully, waiting at most the configured
// shutdown timeout for in-flight requests.
func (g *Gateway) Stop(ctx context.Context) error {
	g.mu.Lock()
	srv := g.server
	g.mu.Unlock()

	if srv == nil {
		return nil
	}

	timeout := g.params.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return srv.Shutdown(shutdownCtx)
}
