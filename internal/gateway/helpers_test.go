package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flemzord/chatrelay/internal/config"
	"github.com/flemzord/chatrelay/internal/history"
	"github.com/flemzord/chatrelay/internal/provider"
	"github.com/flemzord/chatrelay/internal/provider/providertest"
	"github.com/flemzord/chatrelay/internal/relay"
	"github.com/flemzord/chatrelay/internal/security"
)

const testKey = "k1"

type fixture struct {
	gw       *Gateway
	provider *providertest.MockProvider
	store    *history.InMemoryStore
}

type fixtureOption func(*Params)

func withRequestMode(m config.RequestMode) fixtureOption {
	return func(p *Params) { p.RequestMode = m }
}

func withResponseMode(m config.ResponseMode) fixtureOption {
	return func(p *Params) { p.ResponseMode = m }
}

func withMaxBody(n int64) fixtureOption {
	return func(p *Params) { p.Server.MaxBodyBytes = n }
}

func newFixture(t *testing.T, maxHistory int, complete func(context.Context, provider.CompletionRequest) (provider.CompletionResponse, error), opts ...fixtureOption) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := &providertest.MockProvider{CompleteFunc: complete}
	store := history.NewInMemoryStore(maxHistory)
	metrics := NewMetrics(store)
	svc := relay.NewService(
		security.NewKeySet([]string{testKey, "k2"}),
		store,
		mock,
		relay.WithLogger(logger),
		relay.WithObserver(metrics),
	)

	p := Params{
		Server:   config.ServerConfig{Bind: "127.0.0.1:0"},
		Service:  svc,
		Sessions: store,
		Metrics:  metrics,
		Logger:   logger,
	}
	for _, opt := range opts {
		opt(&p)
	}

	return &fixture{gw: New(p), provider: mock, store: store}
}

// echo answers every request with "re: <last message>".
func echo(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	last := req.Messages[len(req.Messages)-1].Content
	return provider.CompletionResponse{
		Content:      "re: " + last,
		FinishReason: provider.FinishReasonStop,
		Usage:        provider.TokenUsage{PromptTokens: 4, CompletionTokens: 3, TotalTokens: 7},
	}, nil
}

func (f *fixture) do(t *testing.T, key, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	f.gw.Handler().ServeHTTP(rr, req)
	return rr
}
