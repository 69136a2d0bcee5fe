package domain

import "errors"

// Core error taxonomy. Nothing here is fatal: every failure leaves the
// session in the state it was in before the failing call.
var (
	// ErrValidation indicates missing or malformed user input. The caller
	// should re-prompt; no score is recorded.
	ErrValidation = errors.New("invalid input")

	// ErrTaskNotFound indicates a task id outside the catalog range.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotCategorized indicates a score with no matching interpretation
	// band. Unreachable for non-negative totals.
	ErrNotCategorized = errors.New("score not categorized")

	// ErrPersistence wraps local or remote store failures. In-memory state
	// remains authoritative when it is returned.
	ErrPersistence = errors.New("persistence failure")

	// ErrStaleTransition indicates a submission for a task other than the
	// current flow position. The submission is rejected without any state
	// change.
	ErrStaleTransition = errors.New("stale flow transition")

	// ErrSessionComplete indicates a submission against a completed
	// assessment.
	ErrSessionComplete = errors.New("assessment already complete")
)
