// Package analyzer wires the analysis flow together: deterministic
// rule checks, the semantic LLM pass, normalization, and aggregation
// into one gating verdict.
package analyzer

import (
	"context"
	"log/slog"

	"github.com/AgenticAITest/prd-to-tasks/internal/analysis"
	"github.com/AgenticAITest/prd-to-tasks/internal/gateway"
	"github.com/AgenticAITest/prd-to-tasks/internal/prd"
	"github.com/AgenticAITest/prd-to-tasks/internal/semantic"
)

const (
	semanticMaxTokens  = 4096
	semanticMaxRetries = 3
)

// Report is one whole analysis run, replaced atomically each time.
type Report struct {
	Rule       *analysis.Result
	Semantic   *semantic.AnalysisResult
	Aggregated *analysis.Aggregated
	Usage      gateway.Usage
	Model      string
}

// Service runs analysis passes over a PRD.
type Service struct {
	client gateway.Client
	logger *slog.Logger
}

func New(client gateway.Client) *Service {
	return &Service{
		client: client,
		logger: slog.Default().With("component", "analyzer"),
	}
}

// Analyze runs both passes. Transport failures and cancellation abort
// the run; a malformed model response does not, because the normalizer
// absorbs it into a degraded-but-valid result.
func (s *Service) Analyze(ctx context.Context, doc *prd.Document) (*Report, error) {
	rule := analysis.AnalyzeRules(doc)

	system, user, err := doc.SemanticAnalysisPrompt()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Call(ctx, gateway.Request{
		Tier:         gateway.TierBalanced,
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    semanticMaxTokens,
		MaxRetries:   semanticMaxRetries,
	})
	if err != nil {
		return nil, err
	}

	sem := semantic.Normalize(resp.Content)
	agg := analysis.Aggregate(rule, sem)

	s.logger.Info("analysis complete",
		"quality_score", rule.QualityScore,
		"blocking_issues", len(agg.BlockingIssues),
		"warnings", len(agg.Warnings),
		"can_proceed", agg.CanProceed,
		"total_tokens", resp.Usage.TotalTokens)

	return &Report{
		Rule:       rule,
		Semantic:   sem,
		Aggregated: agg,
		Usage:      resp.Usage,
		Model:      resp.Model,
	}, nil
}

// AnalyzeRulesOnly runs just the deterministic checks, for the UI to
// show early findings before the model responds. The aggregated view
// it produces can never open the gate.
func (s *Service) AnalyzeRulesOnly(doc *prd.Document) *Report {
	rule := analysis.AnalyzeRules(doc)
	return &Report{
		Rule:       rule,
		Aggregated: analysis.Aggregate(rule, nil),
	}
}
