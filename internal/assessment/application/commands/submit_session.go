// Package commands holds the write-side handlers of the assessment context.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/felixgeelhaar/cmas/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SessionSource exposes the live session to handlers without giving them
// ownership of it.
type SessionSource interface {
	Current() *domain.Session
}

// SubmitSessionCommand requests submission of the current session's
// aggregate as a measurement.
type SubmitSessionCommand struct{}

// SubmitSessionResult describes the queued measurement.
type SubmitSessionResult struct {
	MeasurementID uuid.UUID
	Username      string
	TotalScore    int
	Band          domain.Band
}

// SubmitSessionHandler turns a scored session into an append-only
// measurement and queues it for clinic-side delivery. Delivery is
// asynchronous through the outbox so a down remote store never loses the
// locally held scores; re-running the worker retries without creating a
// second queue entry.
type SubmitSessionHandler struct {
	source SessionSource
	outbox outbox.Repository
	logger *slog.Logger
}

// NewSubmitSessionHandler creates a SubmitSessionHandler.
func NewSubmitSessionHandler(source SessionSource, outboxRepo outbox.Repository, logger *slog.Logger) *SubmitSessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitSessionHandler{source: source, outbox: outboxRepo, logger: logger}
}

// Handle executes the SubmitSessionCommand.
func (h *SubmitSessionHandler) Handle(ctx context.Context, _ SubmitSessionCommand) (*SubmitSessionResult, error) {
	session := h.source.Current()

	if session.Username() == "" {
		return nil, fmt.Errorf("username is required: %w", domain.ErrValidation)
	}
	if session.Attempted() == 0 {
		return nil, fmt.Errorf("no scores recorded: %w", domain.ErrValidation)
	}

	measurement := domain.NewMeasurement(session.Username(), session.Total())
	event := domain.NewMeasurementRecorded(session.ID(), measurement)

	msg, err := outbox.NewMessage(event)
	if err != nil {
		return nil, fmt.Errorf("encode measurement event: %w", err)
	}
	if err := h.outbox.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	band, err := domain.Interpret(measurement.TotalScore)
	if err != nil {
		h.logger.Warn("measurement total not categorized", "total", measurement.TotalScore)
	}

	h.logger.Info("measurement queued",
		"measurement_id", measurement.ID,
		"username", measurement.Username,
		"total", measurement.TotalScore,
	)

	return &SubmitSessionResult{
		MeasurementID: measurement.ID,
		Username:      measurement.Username,
		TotalScore:    measurement.TotalScore,
		Band:          band,
	}, nil
}
