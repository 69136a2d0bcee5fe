// Package queries holds the read-side handlers consumed by the patient
// summary and the clinician dashboard.
package queries

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
)

// SessionSource exposes the live session for read-only consumption.
type SessionSource interface {
	Current() *domain.Session
}

// GetSummaryQuery requests the patient-facing summary of the current run.
type GetSummaryQuery struct{}

// TaskResultDTO is one battery item with its recorded score, if any.
type TaskResultDTO struct {
	TaskID    int
	Title     string
	MaxPoints int
	Score     int
	Attempted bool
}

// SummaryDTO is the aggregate view of the current session.
type SummaryDTO struct {
	Username       string
	TotalScore     int
	MaxPossible    int
	Attempted      int
	TaskCount      int
	Interpretation string
	Color          string
	Tasks          []TaskResultDTO
}

// GetSummaryHandler builds the session summary.
type GetSummaryHandler struct {
	catalog *domain.Catalog
	source  SessionSource
}

// NewGetSummaryHandler creates a GetSummaryHandler.
func NewGetSummaryHandler(catalog *domain.Catalog, source SessionSource) *GetSummaryHandler {
	return &GetSummaryHandler{catalog: catalog, source: source}
}

// Handle executes the GetSummaryQuery. The interpretation is derived from
// the live total on every call, never cached.
func (h *GetSummaryHandler) Handle(_ context.Context, _ GetSummaryQuery) (*SummaryDTO, error) {
	session := h.source.Current()

	band, err := domain.Interpret(session.Total())
	if err != nil && !errors.Is(err, domain.ErrNotCategorized) {
		return nil, err
	}

	tasks := make([]TaskResultDTO, 0, h.catalog.Count())
	for _, task := range h.catalog.Tasks() {
		dto := TaskResultDTO{TaskID: task.ID, Title: task.Title, MaxPoints: task.MaxPoints}
		if score, ok := session.Score(task.ID); ok {
			dto.Score = score.Score
			dto.Attempted = true
		}
		tasks = append(tasks, dto)
	}

	return &SummaryDTO{
		Username:       session.Username(),
		TotalScore:     session.Total(),
		MaxPossible:    h.catalog.MaxPossibleScore(),
		Attempted:      session.Attempted(),
		TaskCount:      h.catalog.Count(),
		Interpretation: band.Label,
		Color:          band.Color,
		Tasks:          tasks,
	}, nil
}
