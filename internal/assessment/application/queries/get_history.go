package queries

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
)

// HistoryCache is a best-effort read-through cache in front of the
// measurement store. A miss or a cache failure falls back to the store.
type HistoryCache interface {
	Get(ctx context.Context) ([]domain.Measurement, bool)
	Set(ctx context.Context, measurements []domain.Measurement)
}

// GetHistoryQuery requests the clinician history view, optionally filtered
// to one patient. An empty Patient means all patients.
type GetHistoryQuery struct {
	Patient string
}

// HistoryEntryDTO is one measurement with its derived interpretation. The
// band is recomputed from TotalScore on every read so banding changes apply
// to old measurements too.
type HistoryEntryDTO struct {
	Username       string
	Date           time.Time
	TotalScore     int
	Interpretation string
	Color          string
}

// HistoryDTO is the clinician dashboard payload.
type HistoryDTO struct {
	Entries  []HistoryEntryDTO
	Patients []string
}

// GetHistoryHandler reads measurement history from the clinic store.
type GetHistoryHandler struct {
	store  domain.MeasurementStore
	cache  HistoryCache
	logger *slog.Logger
}

// NewGetHistoryHandler creates a GetHistoryHandler. The cache may be nil.
func NewGetHistoryHandler(store domain.MeasurementStore, cache HistoryCache, logger *slog.Logger) *GetHistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetHistoryHandler{store: store, cache: cache, logger: logger}
}

// Handle executes the GetHistoryQuery.
func (h *GetHistoryHandler) Handle(ctx context.Context, query GetHistoryQuery) (*HistoryDTO, error) {
	measurements, err := h.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	patientSet := make(map[string]struct{})
	entries := make([]HistoryEntryDTO, 0, len(measurements))
	for _, m := range measurements {
		patientSet[m.Username] = struct{}{}
		if query.Patient != "" && m.Username != query.Patient {
			continue
		}
		band, bandErr := domain.Interpret(m.TotalScore)
		if bandErr != nil {
			h.logger.Warn("measurement not categorized", "username", m.Username, "total", m.TotalScore)
		}
		entries = append(entries, HistoryEntryDTO{
			Username:       m.Username,
			Date:           m.Date,
			TotalScore:     m.TotalScore,
			Interpretation: band.Label,
			Color:          band.Color,
		})
	}

	patients := make([]string, 0, len(patientSet))
	for p := range patientSet {
		patients = append(patients, p)
	}
	sort.Strings(patients)

	return &HistoryDTO{Entries: entries, Patients: patients}, nil
}

func (h *GetHistoryHandler) load(ctx context.Context) ([]domain.Measurement, error) {
	if h.cache != nil {
		if measurements, ok := h.cache.Get(ctx); ok {
			return measurements, nil
		}
	}

	measurements, err := h.store.History(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.Set(ctx, measurements)
	}
	return measurements, nil
}
