package provider

import "context"

// Provider is the interface for communicating with an LLM.
// The relay talks to exactly one implementation, configured at startup.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the default model.
	ModelName() string
}
