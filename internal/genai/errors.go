package genai

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client.
var (
	// ErrMissingAPIKey means the client was constructed without an API key.
	ErrMissingAPIKey = errors.New("generation API key not configured")

	// ErrModelNotFound means the provider does not know the requested model.
	ErrModelNotFound = errors.New("generation model not found")

	// ErrRateLimited means the provider rejected the call with 429.
	ErrRateLimited = errors.New("rate limited by generation provider")

	// ErrEmptyResponse means the provider returned no candidates.
	ErrEmptyResponse = errors.New("generation provider returned no candidates")
)

// UpstreamError carries a provider failure that has no sentinel mapping.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generation provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("generation provider returned status %d: %s", e.StatusCode, e.Message)
}
