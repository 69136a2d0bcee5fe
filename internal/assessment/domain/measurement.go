package domain

import (
	"time"

	"github.com/google/uuid"
)

// Measurement is one completed assessment result: the append-only record a
// clinician's history view is built from. It is immutable once created;
// interpretation and display color are always derived from TotalScore, never
// stored, so banding changes apply retroactively.
type Measurement struct {
	ID         uuid.UUID
	Username   string
	Date       time.Time
	TotalScore int
}

// NewMeasurement stamps a measurement for a completed session.
func NewMeasurement(username string, totalScore int) Measurement {
	return Measurement{
		ID:         uuid.New(),
		Username:   username,
		Date:       time.Now().UTC(),
		TotalScore: totalScore,
	}
}
