// Package extraction owns the committed data model of a project and
// the review workflow that gates AI-proposed entities into it.
package extraction

import "strings"

// Provenance records where a model element came from.
type Provenance string

const (
	ProvenanceExplicit  Provenance = "explicit"
	ProvenanceInference Provenance = "inference"
	ProvenanceManual    Provenance = "manual"
	ProvenanceAI        Provenance = "ai"
)

// Field is one column of an entity, with its constraints.
type Field struct {
	Name       string     `json:"name" validate:"required"`
	Type       string     `json:"type" validate:"required"`
	PrimaryKey bool       `json:"primaryKey"`
	Unique     bool       `json:"unique"`
	Nullable   bool       `json:"nullable"`
	Indexed    bool       `json:"indexed"`
	Provenance Provenance `json:"provenance"`
	Confidence float64    `json:"confidence"`
}

// Entity is a named table-to-be with an ordered field set.
type Entity struct {
	Name       string     `json:"name" validate:"required"`
	Fields     []Field    `json:"fields" validate:"min=1,dive"`
	Provenance Provenance `json:"provenance"`
	Confidence float64    `json:"confidence"`
}

// Cardinality is one side pair of a relationship, e.g. {"1","N"}.
type Cardinality struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ParseCardinality splits a "1:N"-style tag. Unrecognized input
// defaults to 1:N rather than failing; relationship shape is advisory
// until schema generation.
func ParseCardinality(s string) Cardinality {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return Cardinality{From: parts[0], To: parts[1]}
	}
	return Cardinality{From: "1", To: "N"}
}

// Relationship links two entities by logical "Entity.field" names, not
// internal identifiers, so it survives re-extraction.
type Relationship struct {
	From        string      `json:"from" validate:"required"`
	To          string      `json:"to" validate:"required"`
	Cardinality Cardinality `json:"cardinality"`
	Description string      `json:"description,omitempty"`
}

// Model is a (entities, relationships, suggestions) triple.
type Model struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Suggestions   []string       `json:"suggestions"`
}

func emptyModel() Model {
	return Model{
		Entities:      []Entity{},
		Relationships: []Relationship{},
		Suggestions:   []string{},
	}
}

// clone deep-copies a model so pending and committed state never share
// backing arrays.
func (m Model) clone() Model {
	out := Model{
		Entities:      make([]Entity, len(m.Entities)),
		Relationships: make([]Relationship, len(m.Relationships)),
		Suggestions:   make([]string, len(m.Suggestions)),
	}
	for i, e := range m.Entities {
		ce := e
		ce.Fields = append([]Field(nil), e.Fields...)
		out.Entities[i] = ce
	}
	copy(out.Relationships, m.Relationships)
	copy(out.Suggestions, m.Suggestions)
	return out
}

// Snapshot is a pending extraction result awaiting review. It stays
// distinct from the committed model until confirmed.
type Snapshot struct {
	Model Model `json:"model"`
}
