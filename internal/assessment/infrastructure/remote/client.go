// Package remote talks to a clinic's HTTP measurement endpoint. All calls
// run behind a circuit breaker so a down clinic server degrades to fast
// local-only failures instead of hanging every submit.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable marks calls rejected by an open circuit.
var ErrUnavailable = errors.New("remote store unavailable")

// Config tunes the HTTP client and its breaker.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// DefaultConfig returns sensible defaults for a clinic endpoint on a LAN.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:          baseURL,
		Timeout:          10 * time.Second,
		FailureThreshold: 3,
		BreakerTimeout:   30 * time.Second,
	}
}

// Client implements domain.MeasurementStore against a remote HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewClient creates a remote measurement client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:    "remote-measurement-store",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

// measurementPayload is the wire shape of a measurement.
type measurementPayload struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Date       time.Time `json:"date"`
	TotalScore int       `json:"total_score"`
}

// scorePayload is the wire shape of a single task score.
type scorePayload struct {
	TaskID     int       `json:"task_id"`
	Score      int       `json:"score"`
	MaxPoints  int       `json:"max_points"`
	RecordedAt time.Time `json:"recorded_at"`
}

// scoreSheetPayload carries a patient's full per-task breakdown.
type scoreSheetPayload struct {
	Username string         `json:"username"`
	Scores   []scorePayload `json:"scores"`
}

// SubmitScores POSTs a patient's per-task breakdown to the clinic
// endpoint. The breakdown supplements the measurement total; losing it is
// tolerable, so callers treat failures as a warning rather than a rollback.
func (c *Client) SubmitScores(ctx context.Context, username string, scores []domain.TaskScore) error {
	sheet := scoreSheetPayload{
		Username: username,
		Scores:   make([]scorePayload, 0, len(scores)),
	}
	for _, s := range scores {
		sheet.Scores = append(sheet.Scores, scorePayload{
			TaskID:     s.TaskID,
			Score:      s.Score,
			MaxPoints:  s.MaxPoints,
			RecordedAt: s.RecordedAt,
		})
	}

	body, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("marshal score sheet: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, "/api/v1/scores", body)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// SaveMeasurement POSTs one measurement to the clinic endpoint.
func (c *Client) SaveMeasurement(ctx context.Context, m domain.Measurement) error {
	body, err := json.Marshal(measurementPayload{
		ID:         m.ID,
		Username:   m.Username,
		Date:       m.Date,
		TotalScore: m.TotalScore,
	})
	if err != nil {
		return fmt.Errorf("marshal measurement: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, "/api/v1/measurements", body)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// History GETs all measurements from the clinic endpoint.
func (c *Client) History(ctx context.Context) ([]domain.Measurement, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/measurements", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	var payloads []measurementPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("%w: decode history: %v", domain.ErrPersistence, err)
	}

	measurements := make([]domain.Measurement, 0, len(payloads))
	for _, p := range payloads {
		measurements = append(measurements, domain.Measurement{
			ID:         p.ID,
			Username:   p.Username,
			Date:       p.Date,
			TotalScore: p.TotalScore,
		})
	}
	return measurements, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return data, err
}
