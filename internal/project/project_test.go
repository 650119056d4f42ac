package project

import "testing"

func TestDirtyTracking(t *testing.T) {
	s := New("shop")
	if s.Dirty() {
		t.Error("new project should be clean")
	}
	if s.ID() == "" {
		t.Error("new project should get an id")
	}

	s.MarkDirty()
	if !s.Dirty() {
		t.Error("MarkDirty should set the flag")
	}

	s.ClearDirty()
	if s.Dirty() {
		t.Error("ClearDirty should reset the flag")
	}
}

func TestOpenKeepsIdentity(t *testing.T) {
	s := Open("p-123", "restored")
	if s.ID() != "p-123" || s.Name() != "restored" {
		t.Errorf("Open should keep id and name, got %q/%q", s.ID(), s.Name())
	}
}
