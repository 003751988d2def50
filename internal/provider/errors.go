package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrRateLimit indicates the provider returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrProviderDown indicates the provider is unreachable, timed out,
	// or answered with a server error.
	ErrProviderDown = errors.New("provider unavailable")

	// ErrAuthentication indicates the provider rejected the upstream token.
	ErrAuthentication = errors.New("provider authentication failed")

	// ErrBadStatus indicates any other non-success HTTP status.
	ErrBadStatus = errors.New("provider returned unexpected status")

	// ErrEmptyResponse indicates a successful response without any choice.
	ErrEmptyResponse = errors.New("provider returned no choices")
)
