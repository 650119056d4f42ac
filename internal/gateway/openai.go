package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// tierModels maps capability tiers onto concrete OpenAI models.
var tierModels = map[Tier]string{
	TierFast:     openai.GPT4oMini,
	TierBalanced: openai.GPT4o,
	TierDeep:     openai.GPT4o,
}

// per-1K-token pricing used for the estimated-cost field. Rates are
// approximate and only feed the usage display, never billing.
var tierRates = map[Tier]struct{ prompt, completion float64 }{
	TierFast:     {0.00015, 0.0006},
	TierBalanced: {0.0025, 0.01},
	TierDeep:     {0.0025, 0.01},
}

// OpenAITransport performs single round trips against the OpenAI chat
// API. Retry sequencing belongs to RetryingClient, not here.
type OpenAITransport struct {
	client *openai.Client
	logger *slog.Logger
}

func NewOpenAITransport(apiKey string) *OpenAITransport {
	return &OpenAITransport{
		client: openai.NewClient(apiKey),
		logger: slog.Default().With("component", "openai_transport"),
	}
}

func (t *OpenAITransport) Do(ctx context.Context, req Request) (*Response, error) {
	model, ok := tierModels[req.Tier]
	if !ok {
		model = tierModels[TierBalanced]
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	}
	if req.MaxTokens > 0 {
		chatReq.MaxCompletionTokens = req.MaxTokens
	}

	t.logger.Debug("sending chat completion",
		"model", model,
		"tier", req.Tier,
		"max_tokens", req.MaxTokens)

	resp, err := t.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{
				StatusCode: apiErr.HTTPStatusCode,
				Provider:   "openai",
				Message:    apiErr.Message,
			}
		}
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	rates := tierRates[req.Tier]
	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	usage.EstimatedCost = float64(usage.PromptTokens)/1000*rates.prompt +
		float64(usage.CompletionTokens)/1000*rates.completion

	return &Response{
		Content:      resp.Choices[0].Message.Content,
		Usage:        usage,
		Model:        resp.Model,
		FinishReason: mapFinishReason(resp.Choices[0].FinishReason),
	}, nil
}

func mapFinishReason(r openai.FinishReason) FinishReason {
	switch r {
	case openai.FinishReasonLength:
		return FinishLength
	case openai.FinishReasonContentFilter:
		return FinishContentFilter
	default:
		return FinishStop
	}
}
