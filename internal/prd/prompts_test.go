package prd

import (
	"strings"
	"testing"
)

func TestSemanticAnalysisPrompt(t *testing.T) {
	doc := &Document{
		Title:        "Web Shop",
		RawText:      "Customers browse products and place orders.",
		Requirements: []Requirement{{ID: "REQ-1", Description: "customers place orders"}},
		Screens:      []Screen{{Name: "Catalog"}},
	}

	system, user, err := doc.SemanticAnalysisPrompt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, section := range []string{"completeness", "gaps", "conflicts", "entityReadiness", "overallAssessment"} {
		if !strings.Contains(system, section) {
			t.Errorf("system prompt missing section %q", section)
		}
	}
	if !strings.Contains(user, "REQ-1") || !strings.Contains(user, "Catalog") {
		t.Error("user prompt should embed the structured document")
	}
	if !strings.Contains(user, "Customers browse products") {
		t.Error("user prompt should embed the raw PRD text")
	}
}

func TestExtractionPrompt(t *testing.T) {
	doc := &Document{Title: "Shop", RawText: "orders exist"}
	system, user, err := doc.ExtractionPrompt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(system, "entities") || !strings.Contains(system, "relationships") {
		t.Error("extraction system prompt should describe the expected JSON shape")
	}
	if !strings.Contains(user, "orders exist") {
		t.Error("user prompt should carry the raw text")
	}
}

func TestScreenNames(t *testing.T) {
	doc := &Document{Screens: []Screen{{Name: "Login"}, {Name: "Cart"}}}
	names := doc.ScreenNames()
	if !names["Login"] || !names["Cart"] || names["Ghost"] {
		t.Errorf("unexpected screen set: %v", names)
	}
}
