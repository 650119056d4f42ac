package analysis

import (
	"fmt"
	"strings"

	"github.com/AgenticAITest/prd-to-tasks/internal/prd"
)

// AnalyzeRules runs the deterministic pattern checks over a structured
// PRD. These catch mechanical defects the model does not need to be
// asked about: empty descriptions, duplicate identifiers, references
// to screens the document never declares.
func AnalyzeRules(doc *prd.Document) *Result {
	res := &Result{
		BlockingIssues: []BlockingIssue{},
		Warnings:       []Warning{},
		Suggestions:    []string{},
	}

	seen := map[string]bool{}
	screens := doc.ScreenNames()

	for _, req := range doc.Requirements {
		if seen[req.ID] {
			res.BlockingIssues = append(res.BlockingIssues, BlockingIssue{
				Severity: SeverityHigh,
				Category: CategoryRequirement,
				Location: LocationRef{Kind: LocationRequirement, Ref: req.ID},
				Message:  fmt.Sprintf("duplicate requirement id %q", req.ID),
				Source:   SourceRule,
			})
		}
		seen[req.ID] = true

		if strings.TrimSpace(req.Description) == "" {
			res.BlockingIssues = append(res.BlockingIssues, BlockingIssue{
				Severity:     SeverityHigh,
				Category:     CategoryRequirement,
				Location:     LocationRef{Kind: LocationRequirement, Ref: req.ID},
				Message:      fmt.Sprintf("requirement %q has no description", req.ID),
				SuggestedFix: "describe the expected behavior before analysis",
				Source:       SourceRule,
			})
		}

		for _, screen := range req.Screens {
			if !screens[screen] {
				res.BlockingIssues = append(res.BlockingIssues, BlockingIssue{
					Severity:     SeverityMedium,
					Category:     CategoryInvalidReference,
					Location:     LocationRef{Kind: LocationScreen, Ref: screen},
					Message:      fmt.Sprintf("requirement %q references undeclared screen %q", req.ID, screen),
					SuggestedFix: "declare the screen or fix the reference",
					Source:       SourceRule,
				})
			}
		}
	}

	for _, rule := range doc.BusinessRules {
		if strings.TrimSpace(rule.Description) == "" {
			res.Warnings = append(res.Warnings, Warning{
				Severity: SeverityMedium,
				Category: CategoryRule,
				Location: LocationRef{Kind: LocationRule, Ref: rule.ID},
				Message:  fmt.Sprintf("business rule %q has no description", rule.ID),
				Source:   SourceRule,
			})
		}
	}

	if len(doc.Requirements) == 0 {
		res.BlockingIssues = append(res.BlockingIssues, BlockingIssue{
			Severity: SeverityCritical,
			Category: CategoryGeneral,
			Location: LocationRef{Kind: LocationGeneral, Ref: "document"},
			Message:  "document contains no requirements",
			Source:   SourceRule,
		})
	}

	res.QualityScore = qualityScore(len(res.BlockingIssues), len(res.Warnings))
	return res
}

func qualityScore(blocking, warnings int) float64 {
	score := 100.0 - 15.0*float64(blocking) - 5.0*float64(warnings)
	if score < 0 {
		return 0
	}
	return score
}
