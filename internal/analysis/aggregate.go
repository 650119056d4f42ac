package analysis

import (
	"fmt"
	"sort"

	"github.com/AgenticAITest/prd-to-tasks/internal/phase"
	"github.com/AgenticAITest/prd-to-tasks/internal/semantic"
)

// severityRank orders findings most severe first.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Aggregated is the unified view the front end renders: both sources
// merged, deduplicated, and reduced to a single verdict.
type Aggregated struct {
	BlockingIssues []BlockingIssue `json:"blockingIssues"`
	Warnings       []Warning       `json:"warnings"`
	CanProceed     bool            `json:"canProceed"`
	HasSemantic    bool            `json:"hasSemantic"`
}

// Aggregate merges the rule-based result with the semantic result.
// sem may be nil when the AI pass has not run; the verdict is then
// always "cannot proceed": rule findings alone never open the gate.
// Deduplication is by (category, location), not message text, so the
// same defect flagged by both detectors shows once.
func Aggregate(rule *Result, sem *semantic.AnalysisResult) *Aggregated {
	out := &Aggregated{
		BlockingIssues: []BlockingIssue{},
		Warnings:       []Warning{},
	}

	seenIssues := map[string]bool{}
	seenWarnings := map[string]bool{}

	addIssue := func(b BlockingIssue) {
		if k := b.key(); !seenIssues[k] {
			seenIssues[k] = true
			out.BlockingIssues = append(out.BlockingIssues, b)
		}
	}
	addWarning := func(w Warning) {
		if k := w.key(); !seenWarnings[k] {
			seenWarnings[k] = true
			out.Warnings = append(out.Warnings, w)
		}
	}

	if rule != nil {
		for _, b := range rule.BlockingIssues {
			addIssue(b)
		}
		for _, w := range rule.Warnings {
			addWarning(w)
		}
	}

	if sem == nil {
		out.rank()
		return out
	}
	out.HasSemantic = true
	out.CanProceed = sem.OverallAssessment.CanProceed

	// Every gap and conflict becomes its own line so the reviewer can
	// resolve them one at a time.
	for _, screen := range sem.Gaps.MissingScreens {
		addIssue(BlockingIssue{
			Severity: SeverityHigh,
			Category: CategoryScreen,
			Location: LocationRef{Kind: LocationScreen, Ref: screen},
			Message:  fmt.Sprintf("missing screen: %s", screen),
			Source:   SourceAI,
		})
	}
	for _, wf := range sem.Gaps.IncompleteWorkflows {
		addIssue(BlockingIssue{
			Severity: SeverityHigh,
			Category: CategoryWorkflow,
			Location: LocationRef{Kind: LocationWorkflow, Ref: wf},
			Message:  fmt.Sprintf("incomplete workflow: %s", wf),
			Source:   SourceAI,
		})
	}
	for _, c := range sem.Conflicts {
		addIssue(BlockingIssue{
			Severity: SeverityCritical,
			Category: CategoryConflict,
			Location: LocationRef{Kind: LocationRequirement, Ref: c.Requirement + "/" + c.Rule},
			Message:  fmt.Sprintf("requirement %s conflicts with rule %s: %s", c.Requirement, c.Rule, c.Description),
			Source:   SourceAI,
		})
	}
	for _, entity := range sem.Gaps.UndefinedEntities {
		addWarning(Warning{
			Severity: SeverityMedium,
			Category: CategoryEntity,
			Location: LocationRef{Kind: LocationEntity, Ref: entity},
			Message:  fmt.Sprintf("undefined entity: %s", entity),
			Source:   SourceAI,
		})
	}
	for _, v := range sem.Gaps.MissingValidations {
		addWarning(Warning{
			Severity: SeverityMedium,
			Category: CategoryValidation,
			Location: LocationRef{Kind: LocationGeneral, Ref: v},
			Message:  fmt.Sprintf("missing validation: %s", v),
			Source:   SourceAI,
		})
	}

	// Free-text verdict lines from the model carry no structured
	// location; each message is its own reference.
	for _, msg := range sem.OverallAssessment.BlockingIssues {
		addIssue(BlockingIssue{
			Severity: SeverityHigh,
			Category: CategoryGeneral,
			Location: LocationRef{Kind: LocationGeneral, Ref: msg},
			Message:  msg,
			Source:   SourceAI,
		})
	}
	for _, msg := range sem.OverallAssessment.Warnings {
		addWarning(Warning{
			Severity: SeverityLow,
			Category: CategoryGeneral,
			Location: LocationRef{Kind: LocationGeneral, Ref: msg},
			Message:  msg,
			Source:   SourceAI,
		})
	}

	out.rank()
	return out
}

// rank orders both lists most severe first, keeping insertion order
// within a severity so rule findings stay ahead of AI findings.
func (a *Aggregated) rank() {
	sort.SliceStable(a.BlockingIssues, func(i, j int) bool {
		return severityRank[a.BlockingIssues[i].Severity] < severityRank[a.BlockingIssues[j].Severity]
	})
	sort.SliceStable(a.Warnings, func(i, j int) bool {
		return severityRank[a.Warnings[i].Severity] < severityRank[a.Warnings[j].Severity]
	})
}

// TargetPhase maps an issue category to the phase a reviewer should
// jump to in order to fix it. Categories outside both groups navigate
// nowhere.
func TargetPhase(c Category) phase.ID {
	switch c {
	case CategoryRequirement, CategoryScreen, CategoryWorkflow, CategoryRule:
		return phase.PRDAnalysis
	case CategoryEntity, CategoryCircularDependency, CategoryInvalidReference:
		return phase.EntityExtraction
	default:
		return phase.None
	}
}
