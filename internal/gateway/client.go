package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RetryPolicy is the explicit retry contract: bounded attempts with
// linear backoff, checking cancellation before every attempt. It is
// owned by the gateway so callers never loop themselves.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// DefaultRetryPolicy matches the analyzer's configured bound.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:   3,
	InitialDelay: time.Second,
}

// RetryingClient wraps a Transport with rate limiting and the retry
// policy, satisfying the Client contract.
type RetryingClient struct {
	transport Transport
	policy    RetryPolicy
	limiter   *rate.Limiter
	logger    *slog.Logger
}

type Option func(*RetryingClient)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *RetryingClient) {
		c.policy = p
	}
}

func WithRateLimit(requestsPerMinute int, burst int) Option {
	return func(c *RetryingClient) {
		c.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *RetryingClient) {
		c.logger = logger
	}
}

func NewRetryingClient(transport Transport, opts ...Option) *RetryingClient {
	c := &RetryingClient{
		transport: transport,
		policy:    DefaultRetryPolicy,
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
		logger:    slog.Default().With("component", "llm_gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call runs the transport under the retry policy. A per-request
// MaxRetries overrides the policy bound when positive. Cancellation
// mid-retry stops further attempts and returns ctx.Err() untouched.
func (c *RetryingClient) Call(ctx context.Context, req Request) (*Response, error) {
	maxRetries := c.policy.MaxRetries
	if req.MaxRetries > 0 {
		maxRetries = req.MaxRetries
	}

	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.policy.InitialDelay
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				c.logger.Warn("request cancelled during backoff",
					"attempt", attempt)
				return nil, ctx.Err()
			}
		}

		attemptStart := time.Now()
		resp, err := c.transport.Do(ctx, req)
		if err == nil {
			c.logger.Debug("completion succeeded",
				"tier", req.Tier,
				"attempt", attempt,
				"model", resp.Model,
				"finish_reason", resp.FinishReason,
				"total_tokens", resp.Usage.TotalTokens,
				"duration_ms", time.Since(start).Milliseconds())
			return resp, nil
		}

		if IsCancellation(err) {
			c.logger.Warn("request cancelled",
				"tier", req.Tier,
				"attempt", attempt)
			return nil, err
		}

		lastErr = err
		if !IsRetryable(err) {
			c.logger.Error("completion failed, not retryable",
				"tier", req.Tier,
				"attempt", attempt,
				"error", err)
			return nil, err
		}

		c.logger.Warn("completion failed, will retry",
			"tier", req.Tier,
			"attempt", attempt,
			"duration_ms", time.Since(attemptStart).Milliseconds(),
			"error", err)
	}

	c.logger.Error("completion failed after max retries",
		"tier", req.Tier,
		"max_retries", maxRetries,
		"error", lastErr)
	return nil, fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}
