package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is the only error the aggregation engine surfaces to callers.
	ErrInvalidRequest = errors.New("invalid request")

	ErrProviderTimeout     = errors.New("provider timeout")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMalformedResponse   = errors.New("malformed provider response")
	ErrAuthentication      = errors.New("provider authentication failed")
	ErrLocationNotFound    = errors.New("location not found")
	ErrRateLimited         = errors.New("provider rate limit wait exceeded")
)

// ProviderError describes why a single provider produced no offers.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

func NewRetryableProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err, Retryable: true}
}

// NewProviderStatusError classifies a non-2xx upstream status. 429 and 5xx are retryable.
func NewProviderStatusError(provider string, status int) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Err:        ErrProviderUnavailable,
		Retryable:  status == 429 || status >= 500,
	}
}

func NewProviderTimeoutError(provider string) *ProviderError {
	return &ProviderError{Provider: provider, Err: ErrProviderTimeout, Retryable: true}
}

// NewProviderUnavailableError reports an upstream that could not be reached. cause may be nil.
func NewProviderUnavailableError(provider string, cause error) *ProviderError {
	err := ErrProviderUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrProviderUnavailable, cause)
	}
	return &ProviderError{Provider: provider, Err: err, Retryable: true}
}

// ValidationError reports a single invalid query field. It matches ErrInvalidRequest.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

func IsProviderTimeout(err error) bool {
	return errors.Is(err, ErrProviderTimeout)
}

// IsRetryable reports whether err is a ProviderError marked retryable.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
