// Package prd models the structured product requirements document the
// pipeline analyzes, and builds the prompts sent through the gateway.
package prd

// Requirement is one functional requirement parsed from the PRD.
type Requirement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Screens     []string `json:"screens,omitempty"`
	Entities    []string `json:"entities,omitempty"`
}

// BusinessRule is a constraint the system must enforce.
type BusinessRule struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// Screen is a UI surface the PRD names.
type Screen struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Document is the structured PRD plus the raw text it came from.
type Document struct {
	Title         string         `json:"title"`
	RawText       string         `json:"rawText"`
	Requirements  []Requirement  `json:"requirements"`
	BusinessRules []BusinessRule `json:"businessRules"`
	Screens       []Screen       `json:"screens"`
}

// ScreenNames returns the set of declared screen names for reference
// checking.
func (d *Document) ScreenNames() map[string]bool {
	names := make(map[string]bool, len(d.Screens))
	for _, s := range d.Screens {
		names[s.Name] = true
	}
	return names
}
