package gateway

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, InitialDelay: time.Millisecond}
}

func TestCallSucceedsAfterRetryableFailures(t *testing.T) {
	transport := NewMockTransport().
		FailWith(&ProviderError{StatusCode: 500, Provider: "openai", Message: "upstream"},
			&ProviderError{StatusCode: 429, Provider: "openai", Message: "slow down"}).
		Respond("analyze", `{"ok":true}`)
	transport.DefaultResponse = `{"ok":true}`

	client := NewRetryingClient(transport,
		WithRetryPolicy(fastPolicy(3)),
		WithRateLimit(6000, 100))

	resp, err := client.Call(context.Background(), Request{Tier: TierBalanced, UserPrompt: "analyze this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != `{"ok":true}` {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if got := transport.Calls(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestCallStopsOnNonRetryableError(t *testing.T) {
	authErr := &ProviderError{StatusCode: 401, Provider: "openai", Message: "bad key"}
	transport := NewMockTransport().FailWith(authErr, authErr, authErr)

	client := NewRetryingClient(transport,
		WithRetryPolicy(fastPolicy(3)),
		WithRateLimit(6000, 100))

	_, err := client.Call(context.Background(), Request{Tier: TierFast, UserPrompt: "x"})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != 401 {
		t.Fatalf("expected 401 provider error, got %v", err)
	}
	if got := transport.Calls(); got != 1 {
		t.Errorf("expected single attempt, got %d", got)
	}
}

func TestCallExhaustsRetries(t *testing.T) {
	serverErr := &ProviderError{StatusCode: 503, Provider: "openai", Message: "unavailable"}
	transport := NewMockTransport().FailWith(serverErr, serverErr, serverErr, serverErr)

	client := NewRetryingClient(transport,
		WithRetryPolicy(fastPolicy(3)),
		WithRateLimit(6000, 100))

	_, err := client.Call(context.Background(), Request{Tier: TierBalanced, UserPrompt: "x"})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected retries-exhausted error, got %v", err)
	}
	if got := transport.Calls(); got != 4 {
		t.Errorf("expected 4 attempts, got %d", got)
	}
}

func TestCallCancellationStopsRetries(t *testing.T) {
	serverErr := &ProviderError{StatusCode: 500, Provider: "openai", Message: "boom"}
	transport := NewMockTransport().FailWith(serverErr, serverErr, serverErr, serverErr)

	client := NewRetryingClient(transport,
		WithRetryPolicy(RetryPolicy{MaxRetries: 3, InitialDelay: 50 * time.Millisecond}),
		WithRateLimit(6000, 100))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Call(ctx, Request{Tier: TierBalanced, UserPrompt: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := transport.Calls(); got > 2 {
		t.Errorf("cancellation should stop further attempts, got %d calls", got)
	}
}

func TestPerRequestRetryOverride(t *testing.T) {
	serverErr := &ProviderError{StatusCode: 500, Provider: "openai", Message: "boom"}
	transport := NewMockTransport().FailWith(serverErr, serverErr)

	client := NewRetryingClient(transport,
		WithRetryPolicy(fastPolicy(5)),
		WithRateLimit(6000, 100))

	_, err := client.Call(context.Background(), Request{Tier: TierFast, UserPrompt: "x", MaxRetries: 1})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected retries-exhausted error, got %v", err)
	}
	if got := transport.Calls(); got != 2 {
		t.Errorf("expected 2 attempts with override, got %d", got)
	}
}
