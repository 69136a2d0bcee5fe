// Package export renders assessment data as CSV for download and handoff.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
)

// WriteSessionCSV writes the current session's task scores, one row per
// attempted task in task order.
func WriteSessionCSV(w io.Writer, session *domain.Session) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Username", "TaskID", "Score", "MaxPoints", "Timestamp"}); err != nil {
		return fmt.Errorf("write session header: %w", err)
	}

	for _, score := range session.Scores() {
		row := []string{
			session.Username(),
			strconv.Itoa(score.TaskID),
			strconv.Itoa(score.Score),
			strconv.Itoa(score.MaxPoints),
			score.RecordedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write session row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteHistoryCSV writes measurement history with the band derived per row.
// Out-of-band totals are exported as "Not categorized" rather than dropped.
func WriteHistoryCSV(w io.Writer, measurements []domain.Measurement) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Username", "Date", "TotalScore", "Interpretation"}); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}

	for _, m := range measurements {
		band, _ := domain.Interpret(m.TotalScore)
		row := []string{
			m.Username,
			m.Date.UTC().Format(time.RFC3339),
			strconv.Itoa(m.TotalScore),
			band.Label,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write history row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
