package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/AgenticAITest/prd-to-tasks/internal/project"
)

// State of the review workflow.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateReviewing  State = "reviewing"
	StateConfirmed  State = "confirmed"
)

// ErrPendingReview rejects a new run while a snapshot awaits review;
// the caller must Confirm or Discard first.
var ErrPendingReview = errors.New("pending snapshot awaiting review")

// Extractor produces a pending snapshot, reporting progress as a
// percentage while it runs.
type Extractor interface {
	Extract(ctx context.Context, onProgress func(int)) (*Snapshot, error)
}

// Workflow is the review state machine. The committed model is only
// ever mutated by Confirm or the manual edit methods; an extraction
// that fails or is discarded leaves it untouched.
type Workflow struct {
	mu       sync.Mutex
	state    State
	progress int
	lastErr  string

	pending   *Snapshot
	committed Model
	selected  string

	proj     *project.State
	validate *validator.Validate
	group    singleflight.Group
	logger   *slog.Logger
}

func NewWorkflow(proj *project.State) *Workflow {
	return &Workflow{
		state:     StateIdle,
		committed: emptyModel(),
		proj:      proj,
		validate:  validator.New(),
		logger:    slog.Default().With("component", "extraction_workflow"),
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Progress() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progress
}

// LastError returns the recorded message from the most recent failed
// run, empty after a clean run.
func (w *Workflow) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Committed returns a copy of the committed model.
func (w *Workflow) Committed() Model {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.committed.clone()
}

// Pending returns a copy of the pending snapshot, or nil outside
// review.
func (w *Workflow) Pending() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return nil
	}
	return &Snapshot{Model: w.pending.Model.clone()}
}

// Selected returns the currently selected entity name.
func (w *Workflow) Selected() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Run performs one extraction, or joins one already in flight: racing
// callers coalesce onto the same run through the singleflight group
// and all observe its snapshot, so at most one extraction executes per
// project. Only the first caller resets progress. Run is rejected with
// ErrPendingReview while a snapshot awaits review. Run blocks; callers
// wanting asynchrony run it in a goroutine and poll Progress.
func (w *Workflow) Run(ctx context.Context, ex Extractor) error {
	w.mu.Lock()
	if w.state == StateReviewing {
		w.mu.Unlock()
		return ErrPendingReview
	}
	if w.state != StateExtracting {
		w.state = StateExtracting
		w.progress = 0
		w.lastErr = ""
	}
	w.mu.Unlock()

	v, err, shared := w.group.Do(w.proj.ID(), func() (any, error) {
		return ex.Extract(ctx, w.setProgress)
	})
	if err != nil {
		w.mu.Lock()
		w.state = StateIdle
		w.progress = 0
		w.lastErr = err.Error()
		w.mu.Unlock()
		w.logger.Error("extraction failed", "project", w.proj.ID(), "error", err)
		return err
	}

	snap := v.(*Snapshot)
	w.mu.Lock()
	w.pending = snap
	w.progress = 100
	w.state = StateReviewing
	w.mu.Unlock()
	w.logger.Info("extraction complete",
		"project", w.proj.ID(),
		"coalesced", shared,
		"proposed_entities", len(snap.Model.Entities))
	return nil
}

// entityOf strips the field part of a logical "Entity.field" name.
func entityOf(logical string) string {
	if i := strings.IndexByte(logical, '.'); i >= 0 {
		return logical[:i]
	}
	return logical
}

func (w *Workflow) setProgress(p int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Monotonically non-decreasing; a late or out-of-order report
	// never rolls the bar back.
	if p > w.progress {
		if p > 100 {
			p = 100
		}
		w.progress = p
	}
}

// Confirm copies the pending snapshot into the committed model,
// clears the snapshot, selects the first committed entity, and marks
// the project dirty. Outside review it is a no-op, so a double-clicked
// confirm button does no harm.
func (w *Workflow) Confirm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReviewing || w.pending == nil {
		return
	}

	w.committed = w.pending.Model.clone()
	w.pending = nil
	w.selected = ""
	if len(w.committed.Entities) > 0 {
		w.selected = w.committed.Entities[0].Name
	}
	w.state = StateConfirmed
	w.proj.MarkDirty()
	w.logger.Info("extraction confirmed",
		"project", w.proj.ID(),
		"entities", len(w.committed.Entities),
		"relationships", len(w.committed.Relationships))
}

// Discard clears the pending snapshot without touching the committed
// model. Outside review it is a no-op.
func (w *Workflow) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReviewing {
		return
	}
	w.pending = nil
	w.state = StateIdle
	w.progress = 0
	w.logger.Info("extraction discarded", "project", w.proj.ID())
}

// AddEntity appends a manually-created entity to the committed model.
func (w *Workflow) AddEntity(e Entity) error {
	if err := w.validate.Struct(e); err != nil {
		return fmt.Errorf("validating entity: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.committed.Entities {
		if existing.Name == e.Name {
			return fmt.Errorf("entity %q already exists", e.Name)
		}
	}
	if e.Provenance == "" {
		e.Provenance = ProvenanceManual
	}
	w.committed.Entities = append(w.committed.Entities, e)
	w.proj.MarkDirty()
	return nil
}

// UpdateEntity replaces the committed entity with the same name.
func (w *Workflow) UpdateEntity(e Entity) error {
	if err := w.validate.Struct(e); err != nil {
		return fmt.Errorf("validating entity: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.committed.Entities {
		if existing.Name == e.Name {
			w.committed.Entities[i] = e
			w.proj.MarkDirty()
			return nil
		}
	}
	return fmt.Errorf("entity %q not found", e.Name)
}

// RemoveEntity deletes an entity and every relationship that touches
// it by logical name.
func (w *Workflow) RemoveEntity(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entities := w.committed.Entities[:0]
	removed := false
	for _, e := range w.committed.Entities {
		if e.Name == name {
			removed = true
			continue
		}
		entities = append(entities, e)
	}
	if !removed {
		return
	}
	w.committed.Entities = entities

	rels := w.committed.Relationships[:0]
	for _, r := range w.committed.Relationships {
		if entityOf(r.From) == name || entityOf(r.To) == name {
			continue
		}
		rels = append(rels, r)
	}
	w.committed.Relationships = rels

	if w.selected == name {
		w.selected = ""
	}
	w.proj.MarkDirty()
}

// Select records which committed entity the UI has focused.
func (w *Workflow) Select(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = name
}
