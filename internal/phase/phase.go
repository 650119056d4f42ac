// Package phase sequences the project pipeline. Gating decisions live
// in the analysis aggregator; this controller only tracks position and
// per-phase status, trusting the caller to have checked the gate.
package phase

import (
	"log/slog"
	"sync"
)

// ID identifies one pipeline phase.
type ID string

const (
	PRDAnalysis      ID = "prd-analysis"
	EntityExtraction ID = "entity-extraction"
	ERDBuild         ID = "erd-build"
	TaskGeneration   ID = "task-generation"
	// None is the navigation target for issues no phase owns.
	None ID = ""
)

// Order is the linear phase sequence.
var Order = []ID{PRDAnalysis, EntityExtraction, ERDBuild, TaskGeneration}

// Status of a single phase.
type Status string

const (
	NotStarted Status = "not-started"
	InProgress Status = "in-progress"
	Completed  Status = "completed"
)

// Controller tracks the current phase and the status of each phase.
type Controller struct {
	mu       sync.Mutex
	current  int
	statuses map[ID]Status
	logger   *slog.Logger
}

func NewController() *Controller {
	statuses := make(map[ID]Status, len(Order))
	for _, id := range Order {
		statuses[id] = NotStarted
	}
	statuses[Order[0]] = InProgress
	return &Controller{
		statuses: statuses,
		logger:   slog.Default().With("component", "phase_controller"),
	}
}

// Current returns the phase the project is in.
func (c *Controller) Current() ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Order[c.current]
}

// StatusOf returns the recorded status for a phase.
func (c *Controller) StatusOf(id ID) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statuses[id]
}

// Advance completes the current phase and moves to the next one. The
// caller must already have confirmed the aggregator's verdict; the
// controller does not re-validate. Advancing past the last phase
// completes it and reports false.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := Order[c.current]
	c.statuses[cur] = Completed
	if c.current == len(Order)-1 {
		c.logger.Info("pipeline complete", "phase", cur)
		return false
	}

	c.current++
	next := Order[c.current]
	c.statuses[next] = InProgress
	c.logger.Info("phase advanced", "from", cur, "to", next)
	return true
}

// Reset returns the controller to the first phase with all statuses
// cleared, for a fresh analysis run.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range Order {
		c.statuses[id] = NotStarted
	}
	c.current = 0
	c.statuses[Order[0]] = InProgress
}
