package providers

import (
	"errors"
	"fmt"
)

// AuthError indicates the upstream API rejected the request because of
// the credential itself (401/403). The caller should rotate to a
// different key before retrying.
type AuthError struct {
	StatusCode int
	URL        string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("api key rejected with status %d: %s", e.StatusCode, e.URL)
}

// RateLimitError indicates the upstream API throttled the request
// (429). Rotating keys spreads load across the pool.
type RateLimitError struct {
	URL string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.URL)
}

// TransientError covers network failures, 5xx responses, and malformed
// payloads. Retrying with the same key is the right response.
type TransientError struct {
	URL string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure for %s: %v", e.URL, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is returned after the full retry budget for one
// logical operation is spent. It wraps the final underlying failure.
type RetriesExhaustedError struct {
	Operation string
	Attempts  int
	LastErr   error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Operation, e.Attempts, e.LastErr)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.LastErr
}

// IsKeyRotationError reports whether err warrants switching API keys.
func IsKeyRotationError(err error) bool {
	var authErr *AuthError
	var rateErr *RateLimitError
	return errors.As(err, &authErr) || errors.As(err, &rateErr)
}
