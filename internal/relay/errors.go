package relay

import "errors"

// Sentinel errors returned by Service.Ask. Callers map them onto transport
// status codes; the wrapped detail is for logs only.
var (
	// ErrUnauthorized indicates a missing or unrecognized credential.
	ErrUnauthorized = errors.New("invalid key")

	// ErrInvalidInput indicates an empty question or an unparseable payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream indicates the model API failed or could not be reached.
	ErrUpstream = errors.New("upstream error")
)
