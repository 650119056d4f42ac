package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicTransportDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q, want %q", got, "test-key")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.System != "sys" {
			t.Errorf("system = %q, want %q", req.System, "sys")
		}
		if req.MaxTokens != anthropicDefaultMaxTokens {
			t.Errorf("max_tokens = %d, want default %d", req.MaxTokens, anthropicDefaultMaxTokens)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model":       req.Model,
			"stop_reason": "end_turn",
			"content":     []map[string]string{{"type": "text", "text": `{"ok": true}`}},
			"usage":       map[string]int{"input_tokens": 120, "output_tokens": 30},
		})
	}))
	defer srv.Close()

	tr := NewAnthropicTransport("test-key", WithAnthropicBaseURL(srv.URL))
	resp, err := tr.Do(context.Background(), Request{Tier: TierBalanced, SystemPrompt: "sys", UserPrompt: "user"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Content != `{"ok": true}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 150 {
		t.Errorf("total tokens = %d, want 150", resp.Usage.TotalTokens)
	}
	if resp.Usage.EstimatedCost <= 0 {
		t.Error("estimated cost not computed")
	}
	if resp.FinishReason != FinishStop {
		t.Errorf("finish reason = %q, want %q", resp.FinishReason, FinishStop)
	}
}

func TestAnthropicTransportMapsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer srv.Close()

	tr := NewAnthropicTransport("test-key", WithAnthropicBaseURL(srv.URL))
	_, err := tr.Do(context.Background(), Request{Tier: TierFast, UserPrompt: "hi"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", provErr.StatusCode)
	}
	if provErr.Message != "slow down" {
		t.Errorf("message = %q, want API error message", provErr.Message)
	}
	if !provErr.Retryable() {
		t.Error("429 must be retryable")
	}
}

func TestAnthropicTransportMapsTruncationToLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model":       "claude-3-5-haiku-20241022",
			"stop_reason": "max_tokens",
			"content":     []map[string]string{{"type": "text", "text": "partial"}},
			"usage":       map[string]int{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer srv.Close()

	tr := NewAnthropicTransport("test-key", WithAnthropicBaseURL(srv.URL))
	resp, err := tr.Do(context.Background(), Request{Tier: TierFast, UserPrompt: "hi", MaxTokens: 5})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.FinishReason != FinishLength {
		t.Errorf("finish reason = %q, want %q", resp.FinishReason, FinishLength)
	}
}

func TestAnthropicTransportEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model":   "claude-3-5-sonnet-20241022",
			"content": []map[string]string{},
			"usage":   map[string]int{"input_tokens": 1, "output_tokens": 0},
		})
	}))
	defer srv.Close()

	tr := NewAnthropicTransport("test-key", WithAnthropicBaseURL(srv.URL))
	_, err := tr.Do(context.Background(), Request{Tier: TierBalanced, UserPrompt: "hi"})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("error = %v, want ErrEmptyCompletion", err)
	}
}
