// Package semantic holds the AI-derived structural assessment of a PRD
// and the normalizer that shapes raw model output into it.
package semantic

// Completeness scores how much of the PRD the model could account for.
type Completeness struct {
	Score           float64  `json:"score"`
	MissingElements []string `json:"missingElements"`
}

// Gaps lists structural holes the model found in the document.
type Gaps struct {
	MissingScreens      []string `json:"missingScreens"`
	UndefinedEntities   []string `json:"undefinedEntities"`
	IncompleteWorkflows []string `json:"incompleteWorkflows"`
	MissingValidations  []string `json:"missingValidations"`
}

// Conflict is a requirement/rule pair the model considers contradictory.
type Conflict struct {
	Requirement string `json:"requirement"`
	Rule        string `json:"rule"`
	Description string `json:"description"`
}

// EntityReadiness reports whether entity extraction can start.
type EntityReadiness struct {
	Ready              bool     `json:"ready"`
	IdentifiedEntities []string `json:"identifiedEntities"`
	UncertainEntities  []string `json:"uncertainEntities"`
}

// OverallAssessment is the model's verdict on phase advancement.
type OverallAssessment struct {
	CanProceed      bool     `json:"canProceed"`
	ConfidenceScore float64  `json:"confidenceScore"`
	BlockingIssues  []string `json:"blockingIssues"`
	Warnings        []string `json:"warnings"`
	Summary         string   `json:"summary"`
}

// AnalysisResult is the fully-shaped semantic analysis. Every field is
// always populated; consumers never branch on whether parsing worked.
type AnalysisResult struct {
	Completeness      Completeness      `json:"completeness"`
	Gaps              Gaps              `json:"gaps"`
	Conflicts         []Conflict        `json:"conflicts"`
	EntityReadiness   EntityReadiness   `json:"entityReadiness"`
	OverallAssessment OverallAssessment `json:"overallAssessment"`
}

// Default returns a result with every list empty and the conservative
// verdict: cannot proceed, zero confidence.
func Default() *AnalysisResult {
	return &AnalysisResult{
		Completeness: Completeness{MissingElements: []string{}},
		Gaps: Gaps{
			MissingScreens:      []string{},
			UndefinedEntities:   []string{},
			IncompleteWorkflows: []string{},
			MissingValidations:  []string{},
		},
		Conflicts: []Conflict{},
		EntityReadiness: EntityReadiness{
			IdentifiedEntities: []string{},
			UncertainEntities:  []string{},
		},
		OverallAssessment: OverallAssessment{
			CanProceed:      false,
			ConfidenceScore: 0,
			BlockingIssues:  []string{},
			Warnings:        []string{},
		},
	}
}
