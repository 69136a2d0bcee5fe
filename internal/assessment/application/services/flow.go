package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
)

// SubmitResult describes a successful flow submission.
type SubmitResult struct {
	Score    domain.TaskScore
	Total    int
	Next     int // next task position; meaningless when Complete
	Complete bool
	// PersistWarning is a wrapped domain.ErrPersistence when the durable
	// write failed. The score is recorded and the flow has advanced; the
	// caller may warn without blocking.
	PersistWarning error
}

// FlowController walks the patient through the battery in order. Position
// only ever advances through a valid submission for the current task;
// navigation is display-only and cannot inject out-of-order scores.
type FlowController struct {
	catalog *domain.Catalog
	store   *SessionStore
	logger  *slog.Logger

	position int
	complete bool
}

// NewFlowController starts a flow at the first task.
func NewFlowController(catalog *domain.Catalog, store *SessionStore, logger *slog.Logger) *FlowController {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlowController{catalog: catalog, store: store, logger: logger}
}

// Position returns the current task index and whether the flow is complete.
func (f *FlowController) Position() (int, bool) {
	return f.position, f.complete
}

// CurrentTask returns the definition at the current position.
func (f *FlowController) CurrentTask() (domain.TaskDefinition, error) {
	if f.complete {
		return domain.TaskDefinition{}, domain.ErrSessionComplete
	}
	return f.catalog.Task(f.position)
}

// Navigate resolves a requested display position. Out-of-range requests
// redirect to the first task. The submit cursor is not moved.
func (f *FlowController) Navigate(requested int) int {
	if requested < 0 || requested >= f.catalog.Count() {
		return 0
	}
	return requested
}

// Submit validates and records the input for the current task, then
// advances. A submission for any other task id is rejected as stale with no
// state change; a validation failure keeps the position for re-entry.
func (f *FlowController) Submit(ctx context.Context, taskID int, input domain.Input) (SubmitResult, error) {
	if f.complete {
		return SubmitResult{}, domain.ErrSessionComplete
	}
	if taskID != f.position {
		return SubmitResult{}, fmt.Errorf("submitted task %d while at task %d: %w", taskID, f.position, domain.ErrStaleTransition)
	}

	task, err := f.catalog.Task(f.position)
	if err != nil {
		return SubmitResult{}, err
	}

	score, err := domain.Score(task, input)
	if err != nil {
		return SubmitResult{}, err
	}

	recorded, err := f.store.SetScore(ctx, task.ID, score, task.MaxPoints)
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return SubmitResult{}, err
	}

	result := SubmitResult{
		Score:          recorded,
		Total:          f.store.Current().Total(),
		PersistWarning: err,
	}

	if f.position+1 < f.catalog.Count() {
		f.position++
		result.Next = f.position
	} else {
		f.complete = true
		result.Complete = true
	}

	f.logger.Debug("task submitted",
		"task_id", task.ID,
		"score", score,
		"total", result.Total,
		"complete", result.Complete,
	)
	return result, nil
}

// Reset returns the flow to the first task, for a new run after a clear.
func (f *FlowController) Reset() {
	f.position = 0
	f.complete = false
}
