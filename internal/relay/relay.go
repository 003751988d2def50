// Package relay answers a caller's question with the upstream model while
// keeping a short, bounded conversation history per credential.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flemzord/chatrelay/internal/history"
	"github.com/flemzord/chatrelay/internal/provider"
)

// Question is the normalized form of an inbound request, whatever its
// wire shape was.
type Question struct {
	Text string
	// Model overrides the configured default when non-empty.
	Model string
}

// Answer is the model's reply to a Question.
type Answer struct {
	Content          string `json:"content"`
	ReasoningContent string `json:"reasoning_content"`
	TotalTokens      int    `json:"total_tokens"`
}

// KeyChecker reports whether a credential is accepted.
type KeyChecker interface {
	Contains(key string) bool
}

// Observer receives the outcome of every upstream call. Implementations must
// be safe for concurrent use.
type Observer interface {
	ObserveCompletion(tokens int, latency time.Duration)
	ObserveUpstreamError()
}

// Service implements the relay operation. It is safe for concurrent use.
type Service struct {
	keys     KeyChecker
	store    history.Store
	provider provider.Provider
	logger   *slog.Logger
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithObserver registers an Observer for upstream outcomes.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService builds a Service from its collaborators.
func NewService(keys KeyChecker, store history.Store, p provider.Provider, opts ...Option) *Service {
	s := &Service{
		keys:     keys,
		store:    store,
		provider: p,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authorized reports whether key is an accepted credential.
func (s *Service) Authorized(key string) bool {
	return key != "" && s.keys.Contains(key)
}

// Ask sends q, preceded by the caller's retained history, to the upstream
// model. On success the exchange is appended to the history of key; on any
// failure the history is left untouched.
func (s *Service) Ask(ctx context.Context, key string, q Question) (Answer, error) {
	if !s.Authorized(key) {
		return Answer{}, ErrUnauthorized
	}

	text := strings.TrimSpace(q.Text)
	if text == "" {
		return Answer{}, fmt.Errorf("%w: empty question", ErrInvalidInput)
	}

	messages := s.store.Recent(key)
	messages = append(messages, provider.LLMMessage{Role: provider.MessageRoleUser, Content: text})

	model := strings.TrimSpace(q.Model)
	start := time.Now()
	resp, err := s.provider.Complete(ctx, provider.CompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		if s.observer != nil {
			s.observer.ObserveUpstreamError()
		}
		return Answer{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	latency := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveCompletion(resp.Usage.TotalTokens, latency)
	}

	s.store.Append(key, history.NewExchange(text, resp.Content))

	if model == "" {
		model = s.provider.ModelName()
	}
	s.logger.Debug("question answered",
		"model", model,
		"history", len(messages)-1,
		"total_tokens", resp.Usage.TotalTokens,
		"latency", latency,
	)

	return Answer{
		Content:          resp.Content,
		ReasoningContent: resp.ReasoningContent,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
