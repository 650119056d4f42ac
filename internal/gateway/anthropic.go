package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	// The messages API rejects requests without max_tokens.
	anthropicDefaultMaxTokens = 4096
)

// anthropicTierModels maps capability tiers onto concrete Anthropic
// models.
var anthropicTierModels = map[Tier]string{
	TierFast:     "claude-3-5-haiku-20241022",
	TierBalanced: "claude-3-5-sonnet-20241022",
	TierDeep:     "claude-3-5-sonnet-20241022",
}

var anthropicTierRates = map[Tier]struct{ prompt, completion float64 }{
	TierFast:     {0.0008, 0.004},
	TierBalanced: {0.003, 0.015},
	TierDeep:     {0.003, 0.015},
}

// AnthropicTransport performs single round trips against the Anthropic
// messages API. Retry sequencing belongs to RetryingClient, not here.
type AnthropicTransport struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type AnthropicOption func(*AnthropicTransport)

func WithAnthropicBaseURL(baseURL string) AnthropicOption {
	return func(t *AnthropicTransport) {
		t.baseURL = baseURL
	}
}

func WithAnthropicHTTPClient(c *http.Client) AnthropicOption {
	return func(t *AnthropicTransport) {
		t.httpClient = c
	}
}

func NewAnthropicTransport(apiKey string, opts ...AnthropicOption) *AnthropicTransport {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	t := &AnthropicTransport{
		apiKey:  apiKey,
		baseURL: anthropicBaseURL,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
		logger: slog.Default().With("component", "anthropic_transport"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *AnthropicTransport) Do(ctx context.Context, req Request) (*Response, error) {
	model, ok := anthropicTierModels[req.Tier]
	if !ok {
		model = anthropicTierModels[TierBalanced]
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     model,
		System:    req.SystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: req.UserPrompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", t.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	t.logger.Debug("sending message request",
		"model", model,
		"tier", req.Tier,
		"max_tokens", maxTokens)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr anthropicErrorBody
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Provider:   "anthropic",
			Message:    msg,
		}
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, ErrEmptyCompletion
	}

	rates := anthropicTierRates[req.Tier]
	usage := Usage{
		PromptTokens:     parsed.Usage.InputTokens,
		CompletionTokens: parsed.Usage.OutputTokens,
		TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
	}
	usage.EstimatedCost = float64(usage.PromptTokens)/1000*rates.prompt +
		float64(usage.CompletionTokens)/1000*rates.completion

	return &Response{
		Content:      parsed.Content[0].Text,
		Usage:        usage,
		Model:        parsed.Model,
		FinishReason: mapStopReason(parsed.StopReason),
	}, nil
}

func mapStopReason(r string) FinishReason {
	switch r {
	case "max_tokens":
		return FinishLength
	default:
		return FinishStop
	}
}
