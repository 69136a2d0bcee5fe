package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/cmas/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "AssessmentSession"

// ScoreRecorded is emitted when a task score is set or overwritten.
type ScoreRecorded struct {
	sharedDomain.BaseEvent
	SessionID  uuid.UUID `json:"session_id"`
	Username   string    `json:"username"`
	TaskID     int       `json:"task_id"`
	Score      int       `json:"score"`
	MaxPoints  int       `json:"max_points"`
	TotalScore int       `json:"total_score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewScoreRecorded creates a ScoreRecorded event.
func NewScoreRecorded(s *Session, ts TaskScore) *ScoreRecorded {
	return &ScoreRecorded{
		BaseEvent:  sharedDomain.NewBaseEvent(s.ID(), aggregateType, "assessment.score.recorded"),
		SessionID:  s.ID(),
		Username:   s.Username(),
		TaskID:     ts.TaskID,
		Score:      ts.Score,
		MaxPoints:  ts.MaxPoints,
		TotalScore: s.Total(),
		RecordedAt: ts.RecordedAt,
	}
}

// SessionCleared is emitted when a session's scores are wiped.
type SessionCleared struct {
	sharedDomain.BaseEvent
	SessionID uuid.UUID `json:"session_id"`
	Username  string    `json:"username"`
}

// NewSessionCleared creates a SessionCleared event.
func NewSessionCleared(s *Session) *SessionCleared {
	return &SessionCleared{
		BaseEvent: sharedDomain.NewBaseEvent(s.ID(), aggregateType, "assessment.session.cleared"),
		SessionID: s.ID(),
		Username:  s.Username(),
	}
}

// MeasurementRecorded is emitted when a completed session is submitted as a
// measurement.
type MeasurementRecorded struct {
	sharedDomain.BaseEvent
	MeasurementID uuid.UUID `json:"measurement_id"`
	Username      string    `json:"username"`
	Date          time.Time `json:"date"`
	TotalScore    int       `json:"total_score"`
}

// NewMeasurementRecorded creates a MeasurementRecorded event.
func NewMeasurementRecorded(sessionID uuid.UUID, m Measurement) *MeasurementRecorded {
	return &MeasurementRecorded{
		BaseEvent:     sharedDomain.NewBaseEvent(sessionID, aggregateType, "assessment.measurement.recorded"),
		MeasurementID: m.ID,
		Username:      m.Username,
		Date:          m.Date,
		TotalScore:    m.TotalScore,
	}
}
