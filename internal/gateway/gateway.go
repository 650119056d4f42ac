// Package gateway defines the single contract through which the core
// talks to an LLM provider, plus the retry policy that wraps any
// concrete transport.
package gateway

import (
	"context"
)

// Tier is a capability/cost class of model, selected per task type
// rather than by model name so callers never hard-code providers.
type Tier string

const (
	// TierFast is for cheap structural checks and short extractions.
	TierFast Tier = "fast"
	// TierBalanced is the default for PRD analysis and entity extraction.
	TierBalanced Tier = "balanced"
	// TierDeep is for schema and task generation passes.
	TierDeep Tier = "deep"
)

// FinishReason mirrors the provider's completion termination cause.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
)

// Request carries everything a single completion call needs.
type Request struct {
	Tier         Tier
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	MaxRetries   int
}

// Usage is the token/cost accounting reported with every response.
type Usage struct {
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	EstimatedCost    float64 `json:"estimatedCost"`
}

// Response is a successful completion.
type Response struct {
	Content      string
	Usage        Usage
	Model        string
	FinishReason FinishReason
}

// Client is the gateway contract. Call blocks until the transport
// succeeds, retries are exhausted, or ctx is cancelled. Cancellation
// surfaces as ctx.Err(), never as a provider error.
type Client interface {
	Call(ctx context.Context, req Request) (*Response, error)
}

// Transport performs one provider round trip with no retry logic of
// its own. The retrying gateway owns attempt sequencing and backoff.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}
