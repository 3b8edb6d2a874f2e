package brain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAPIKey means construction was attempted without a key.
	ErrNoAPIKey = errors.New("brain: API key required")

	// ErrEmptyReply means the model answered with no candidate text,
	// usually a safety block.
	ErrEmptyReply = errors.New("brain: model returned no text")
)

// APIError is a non-2xx answer from the Gemini endpoint.
type APIError struct {
	StatusCode int

	// Message and Status come from the error body. Status is the
	// symbolic form, e.g. "RESOURCE_EXHAUSTED".
	Message string
	Status  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("brain: API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("brain: API error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the quota ran out (HTTP 429). Free
// tier keys hit this quickly during long conversations.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized reports whether the key was rejected (HTTP 401/403).
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsRetryable reports whether the same request could succeed later.
func (e *APIError) IsRetryable() bool {
	return e.IsRateLimited() || e.StatusCode >= 500
}

// ProviderError tags an error with which backend produced it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("brain [%s]: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError tags err with the provider name. A nil err stays nil.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
