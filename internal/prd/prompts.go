package prd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
)

const semanticAnalysisSystem = `You are a senior product analyst. Assess the structural completeness of the PRD you are given.
Respond with a single JSON object and nothing else, with exactly these top-level sections:
"completeness" {"score": 0-100, "missingElements": [...]},
"gaps" {"missingScreens": [...], "undefinedEntities": [...], "incompleteWorkflows": [...], "missingValidations": [...]},
"conflicts" [{"requirement": "...", "rule": "...", "description": "..."}],
"entityReadiness" {"ready": true/false, "identifiedEntities": [...], "uncertainEntities": [...]},
"overallAssessment" {"canProceed": true/false, "confidenceScore": 0-100, "blockingIssues": [...], "warnings": [...], "summary": "..."}`

const extractionSystem = `You are a data modeler. Extract the entities and relationships implied by the PRD.
Respond with a single JSON object and nothing else:
"entities" [{"name": "...", "fields": [{"name": "...", "type": "...", "primaryKey": bool, "unique": bool, "nullable": bool, "indexed": bool}], "confidence": 0-1}],
"relationships" [{"from": "Entity.field", "to": "Entity.field", "cardinality": "1:N", "description": "..."}],
"suggestions" ["..."]`

var userPromptTmpl = template.Must(template.New("prd").Parse(
	`# {{.Title}}

## Structured document
{{.Structured}}

## Raw PRD text
{{.RawText}}`))

// SemanticAnalysisPrompt builds the (system, user) prompt pair for the
// semantic analysis call.
func (d *Document) SemanticAnalysisPrompt() (string, string, error) {
	user, err := d.renderUser()
	if err != nil {
		return "", "", err
	}
	return semanticAnalysisSystem, user, nil
}

// ExtractionPrompt builds the (system, user) prompt pair for the
// entity extraction call.
func (d *Document) ExtractionPrompt() (string, string, error) {
	user, err := d.renderUser()
	if err != nil {
		return "", "", err
	}
	return extractionSystem, user, nil
}

func (d *Document) renderUser() (string, error) {
	structured, err := json.MarshalIndent(struct {
		Requirements  []Requirement  `json:"requirements"`
		BusinessRules []BusinessRule `json:"businessRules"`
		Screens       []Screen       `json:"screens"`
	}{d.Requirements, d.BusinessRules, d.Screens}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling structured PRD: %w", err)
	}

	var buf bytes.Buffer
	err = userPromptTmpl.Execute(&buf, map[string]string{
		"Title":      d.Title,
		"Structured": string(structured),
		"RawText":    d.RawText,
	})
	if err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}
