package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrRetriesExhausted = errors.New("max retries exceeded")
	ErrEmptyCompletion  = errors.New("provider returned no completion")
)

// ProviderError is a terminal transport failure carrying the
// HTTP-status-derived message from the provider.
type ProviderError struct {
	StatusCode int
	Provider   string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// Retryable reports whether another attempt could plausibly succeed:
// rate limits, server errors and timeouts retry; auth and bad-request
// failures do not.
func (e *ProviderError) Retryable() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

// IsRetryable classifies an error for the retry loop.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsCancellation(err) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable()
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	// Unclassified transport failures (connection reset, DNS) retry.
	return true
}

// IsCancellation distinguishes cooperative cancellation from failure.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
