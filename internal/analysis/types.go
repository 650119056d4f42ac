// Package analysis merges deterministic rule findings with the
// AI-derived semantic assessment into one ranked issue set and the
// phase-gating verdict.
package analysis

import "fmt"

// Severity of a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category classifies a finding and determines which phase it
// navigates to.
type Category string

const (
	CategoryRequirement        Category = "requirement"
	CategoryScreen             Category = "screen"
	CategoryWorkflow           Category = "workflow"
	CategoryRule               Category = "rule"
	CategoryEntity             Category = "entity"
	CategoryValidation         Category = "validation"
	CategoryConflict           Category = "conflict"
	CategoryCircularDependency Category = "circular-dependency"
	CategoryInvalidReference   Category = "invalid-reference"
	CategoryParse              Category = "parse"
	CategoryGeneral            Category = "general"
)

// LocationKind says what the reference in a finding points at.
type LocationKind string

const (
	LocationRequirement LocationKind = "requirement"
	LocationRule        LocationKind = "rule"
	LocationScreen      LocationKind = "screen"
	LocationEntity      LocationKind = "entity"
	LocationWorkflow    LocationKind = "workflow"
	LocationGeneral     LocationKind = "general"
)

// LocationRef points a finding at the PRD element it concerns.
type LocationRef struct {
	Kind LocationKind `json:"kind"`
	Ref  string       `json:"ref"`
}

// Source records which detector produced a finding.
type Source string

const (
	SourceRule Source = "rule"
	SourceAI   Source = "ai"
)

// BlockingIssue is a defect that prevents phase advancement.
type BlockingIssue struct {
	Severity     Severity    `json:"severity"`
	Category     Category    `json:"category"`
	Location     LocationRef `json:"location"`
	Message      string      `json:"message"`
	SuggestedFix string      `json:"suggestedFix,omitempty"`
	Source       Source      `json:"source"`
}

// key identifies the underlying defect for deduplication across
// detectors: same category and same reference means same defect, even
// when the two sources word it differently.
func (b BlockingIssue) key() string {
	return fmt.Sprintf("%s|%s|%s", b.Category, b.Location.Kind, b.Location.Ref)
}

// Warning is a non-blocking finding.
type Warning struct {
	Severity     Severity    `json:"severity"`
	Category     Category    `json:"category"`
	Location     LocationRef `json:"location"`
	Message      string      `json:"message"`
	SuggestedFix string      `json:"suggestedFix,omitempty"`
	Source       Source      `json:"source"`
}

func (w Warning) key() string {
	return fmt.Sprintf("%s|%s|%s", w.Category, w.Location.Kind, w.Location.Ref)
}

// Result is the rule-based analysis of a PRD. It is recomputed whole
// on every run and replaced atomically, never patched.
type Result struct {
	QualityScore   float64         `json:"qualityScore"`
	BlockingIssues []BlockingIssue `json:"blockingIssues"`
	Warnings       []Warning       `json:"warnings"`
	Suggestions    []string        `json:"suggestions"`
}
