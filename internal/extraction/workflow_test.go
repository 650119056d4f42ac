package extraction

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgenticAITest/prd-to-tasks/internal/project"
)

type stubExtractor struct {
	snap *Snapshot
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, onProgress func(int)) (*Snapshot, error) {
	onProgress(30)
	onProgress(70)
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func proposedSnapshot() *Snapshot {
	return &Snapshot{Model: Model{
		Entities: []Entity{
			{Name: "Order", Fields: []Field{{Name: "id", Type: "uuid", PrimaryKey: true}}, Provenance: ProvenanceAI, Confidence: 0.9},
			{Name: "Customer", Fields: []Field{{Name: "id", Type: "uuid", PrimaryKey: true}}, Provenance: ProvenanceAI, Confidence: 0.8},
		},
		Relationships: []Relationship{
			{From: "Order.customerId", To: "Customer.id", Cardinality: Cardinality{From: "N", To: "1"}},
		},
		Suggestions: []string{"consider an OrderLine entity"},
	}}
}

func TestRunThenConfirm(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	require.Equal(t, StateIdle, w.State())

	err := w.Run(context.Background(), &stubExtractor{snap: proposedSnapshot()})
	require.NoError(t, err)
	assert.Equal(t, StateReviewing, w.State())
	assert.Equal(t, 100, w.Progress())
	require.NotNil(t, w.Pending())
	assert.Empty(t, w.Committed().Entities, "pending proposal must not leak into committed model")

	w.Confirm()
	assert.Equal(t, StateConfirmed, w.State())
	assert.Nil(t, w.Pending())
	committed := w.Committed()
	require.Len(t, committed.Entities, 2)
	assert.Equal(t, "Order", committed.Entities[0].Name)
	assert.Equal(t, "Order", w.Selected(), "first committed entity becomes selected")
	assert.True(t, proj.Dirty(), "confirmation marks the project dirty")
}

func TestDiscardKeepsCommittedModel(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	// Commit a first extraction, then discard a second one.
	require.NoError(t, w.Run(context.Background(), &stubExtractor{snap: proposedSnapshot()}))
	w.Confirm()
	before := w.Committed()

	second := &Snapshot{Model: Model{
		Entities:      []Entity{{Name: "Invoice", Fields: []Field{{Name: "id", Type: "uuid"}}}},
		Relationships: []Relationship{},
		Suggestions:   []string{},
	}}
	require.NoError(t, w.Run(context.Background(), &stubExtractor{snap: second}))
	require.Equal(t, StateReviewing, w.State())

	w.Discard()
	assert.Equal(t, StateIdle, w.State())
	assert.Nil(t, w.Pending())
	assert.Equal(t, before.Entities, w.Committed().Entities, "discard must not touch committed entities")
}

// gatedExtractor blocks until released so a test can overlap two runs.
type gatedExtractor struct {
	calls   int32
	started chan struct{}
	release chan struct{}
	snap    *Snapshot
}

func (g *gatedExtractor) Extract(ctx context.Context, onProgress func(int)) (*Snapshot, error) {
	if atomic.AddInt32(&g.calls, 1) == 1 {
		close(g.started)
	}
	<-g.release
	return g.snap, nil
}

func TestConcurrentRunsShareOneExtraction(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)
	ex := &gatedExtractor{
		started: make(chan struct{}),
		release: make(chan struct{}),
		snap:    proposedSnapshot(),
	}

	errs := make(chan error, 2)
	go func() { errs <- w.Run(context.Background(), ex) }()
	<-ex.started
	go func() { errs <- w.Run(context.Background(), ex) }()

	// Let the second caller join the in-flight run before releasing
	// the extractor.
	time.Sleep(50 * time.Millisecond)
	close(ex.release)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ex.calls), "second caller joins the run instead of starting another")
	assert.Equal(t, StateReviewing, w.State())
	require.NotNil(t, w.Pending())
}

func TestExtractionErrorResetsWorkflow(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	err := w.Run(context.Background(), &stubExtractor{err: errors.New("provider exploded")})
	require.Error(t, err)
	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, 0, w.Progress())
	assert.Contains(t, w.LastError(), "provider exploded")
	assert.Empty(t, w.Committed().Entities)
}

func TestConfirmAndDiscardAreNoOpsOutsideReview(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	w.Confirm()
	assert.Equal(t, StateIdle, w.State())
	assert.False(t, proj.Dirty())

	w.Discard()
	assert.Equal(t, StateIdle, w.State())

	// Double confirm after a real run: second call changes nothing.
	require.NoError(t, w.Run(context.Background(), &stubExtractor{snap: proposedSnapshot()}))
	w.Confirm()
	selected := w.Selected()
	w.Confirm()
	assert.Equal(t, selected, w.Selected())
	assert.Equal(t, StateConfirmed, w.State())
}

func TestProgressIsMonotonic(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	w.setProgress(40)
	w.setProgress(20)
	assert.Equal(t, 40, w.Progress())
	w.setProgress(250)
	assert.Equal(t, 100, w.Progress())
}

func TestManualEdits(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	entity := Entity{Name: "Product", Fields: []Field{{Name: "id", Type: "uuid", PrimaryKey: true}}}
	require.NoError(t, w.AddEntity(entity))
	assert.True(t, proj.Dirty())

	err := w.AddEntity(entity)
	assert.Error(t, err, "duplicate entity names are rejected")

	err = w.AddEntity(Entity{Name: "Empty"})
	assert.Error(t, err, "entity without fields fails validation")

	entity.Fields = append(entity.Fields, Field{Name: "sku", Type: "string", Unique: true})
	require.NoError(t, w.UpdateEntity(entity))
	assert.Len(t, w.Committed().Entities[0].Fields, 2)

	assert.Error(t, w.UpdateEntity(Entity{Name: "Ghost", Fields: entity.Fields}))
}

func TestRemoveEntityDropsItsRelationships(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	require.NoError(t, w.Run(context.Background(), &stubExtractor{snap: proposedSnapshot()}))
	w.Confirm()

	w.RemoveEntity("Customer")
	committed := w.Committed()
	require.Len(t, committed.Entities, 1)
	assert.Empty(t, committed.Relationships, "relationships naming the removed entity go with it")
}

func TestRunRejectedDuringReview(t *testing.T) {
	proj := project.New("shop")
	w := NewWorkflow(proj)

	require.NoError(t, w.Run(context.Background(), &stubExtractor{snap: proposedSnapshot()}))
	err := w.Run(context.Background(), &stubExtractor{snap: proposedSnapshot()})
	assert.ErrorIs(t, err, ErrPendingReview, "new run while a snapshot awaits review is rejected")
}
