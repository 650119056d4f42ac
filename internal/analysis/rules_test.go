package analysis

import (
	"testing"

	"github.com/AgenticAITest/prd-to-tasks/internal/prd"
)

func TestAnalyzeRules(t *testing.T) {
	tests := []struct {
		name         string
		doc          prd.Document
		wantBlocking int
		wantWarnings int
	}{
		{
			name: "clean document",
			doc: prd.Document{
				Requirements: []prd.Requirement{
					{ID: "REQ-1", Description: "users can sign in", Screens: []string{"Login"}},
				},
				Screens: []prd.Screen{{Name: "Login"}},
			},
			wantBlocking: 0,
			wantWarnings: 0,
		},
		{
			name:         "no requirements at all",
			doc:          prd.Document{},
			wantBlocking: 1,
		},
		{
			name: "duplicate requirement ids",
			doc: prd.Document{
				Requirements: []prd.Requirement{
					{ID: "REQ-1", Description: "a"},
					{ID: "REQ-1", Description: "b"},
				},
			},
			wantBlocking: 1,
		},
		{
			name: "empty description and dangling screen",
			doc: prd.Document{
				Requirements: []prd.Requirement{
					{ID: "REQ-1", Description: "  ", Screens: []string{"Ghost"}},
				},
			},
			wantBlocking: 2,
		},
		{
			name: "rule without description warns",
			doc: prd.Document{
				Requirements:  []prd.Requirement{{ID: "REQ-1", Description: "ok"}},
				BusinessRules: []prd.BusinessRule{{ID: "BR-1"}},
			},
			wantWarnings: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AnalyzeRules(&tc.doc)
			if len(got.BlockingIssues) != tc.wantBlocking {
				t.Errorf("blocking issues = %d, want %d: %+v",
					len(got.BlockingIssues), tc.wantBlocking, got.BlockingIssues)
			}
			if len(got.Warnings) != tc.wantWarnings {
				t.Errorf("warnings = %d, want %d", len(got.Warnings), tc.wantWarnings)
			}
		})
	}
}

func TestQualityScoreFloorsAtZero(t *testing.T) {
	doc := prd.Document{}
	for i := 0; i < 10; i++ {
		doc.Requirements = append(doc.Requirements, prd.Requirement{ID: "REQ-1"})
	}
	got := AnalyzeRules(&doc)
	if got.QualityScore < 0 {
		t.Errorf("quality score should floor at 0, got %v", got.QualityScore)
	}
}
