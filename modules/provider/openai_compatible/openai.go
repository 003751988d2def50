// Package openaicompat talks to any API that implements the OpenAI chat
// completions interface (SiliconFlow, DeepSeek, Groq, vLLM, LiteLLM, ...).
package openaicompat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flemzord/chatrelay/internal/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/flemzord/chatrelay/modules/provider/openai_compatible"

// Provider is an OpenAI-compatible LLM provider.
type Provider struct {
	config Config
	client *http.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// Compile-time interface check.
var _ provider.Provider = (*Provider)(nil)

// New validates cfg and returns a ready Provider. The HTTP client timeout
// covers connect, headers and body, so a stalled upstream surfaces as
// provider.ErrProviderDown after cfg.Timeout.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Complete implements provider.Provider.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	oaiReq := buildRequest(p.config.Model, req)

	ctx, span := p.tracer.Start(ctx, "chat.completion",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.model", oaiReq.Model),
			attribute.Int("llm.messages", len(oaiReq.Messages)),
		),
	)
	defer span.End()

	cr, err := p.complete(ctx, oaiReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream call failed")
		return provider.CompletionResponse{}, err
	}

	span.SetAttributes(
		attribute.Int("llm.usage.total_tokens", cr.Usage.TotalTokens),
		attribute.String("llm.finish_reason", string(cr.FinishReason)),
	)
	return cr, nil
}

func (p *Provider) complete(ctx context.Context, oaiReq oaiRequest) (provider.CompletionResponse, error) {
	resp, err := p.doRequest(ctx, oaiReq)
	if err != nil {
		return provider.CompletionResponse{}, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return provider.CompletionResponse{}, handleErrorResponse(resp)
	}

	var oaiResp oaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oaiResp); err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("%w: decode response: %w", provider.ErrProviderDown, err)
	}

	cr, err := parseResponse(oaiResp)
	if err != nil {
		return provider.CompletionResponse{}, err
	}

	p.logger.Debug("upstream completion",
		"model", oaiReq.Model,
		"messages", len(oaiReq.Messages),
		"total_tokens", cr.Usage.TotalTokens,
	)
	return cr, nil
}

// ModelName implements provider.Provider.
func (p *Provider) ModelName() string {
	return p.config.Model
}
