// Package persistence provides the SQLite session slot and the Postgres
// measurement store for the assessment context.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/google/uuid"
)

// slotID is the fixed primary key of the single session row. The slot holds
// at most one session; saving replaces whatever is there.
const slotID = 1

// SQLiteSessionRepository implements domain.SessionRepository on the local
// SQLite database. The session is stored as one JSON payload in a
// single-row table, matching the write-through slot semantics: full state
// on every save, last writer wins.
type SQLiteSessionRepository struct {
	dbConn *sql.DB
}

// NewSQLiteSessionRepository creates a new SQLite session repository.
func NewSQLiteSessionRepository(dbConn *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{dbConn: dbConn}
}

// Migrate creates the session slot table.
func (r *SQLiteSessionRepository) Migrate(ctx context.Context) error {
	_, err := r.dbConn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_slot (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			payload    TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate session_slot: %w", err)
	}
	return nil
}

// sessionRecord is the persisted shape of a session.
type sessionRecord struct {
	ID          uuid.UUID     `json:"id"`
	Username    string        `json:"username"`
	Scores      []scoreRecord `json:"scores"`
	TotalScore  int           `json:"total_score"`
	LastUpdated time.Time     `json:"last_updated"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type scoreRecord struct {
	TaskID     int       `json:"task_id"`
	Score      int       `json:"score"`
	MaxPoints  int       `json:"max_points"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Save writes the full session state into the slot.
func (r *SQLiteSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	record := sessionRecord{
		ID:          session.ID(),
		Username:    session.Username(),
		TotalScore:  session.Total(),
		LastUpdated: session.LastUpdated(),
		CreatedAt:   session.CreatedAt(),
		UpdatedAt:   session.UpdatedAt(),
	}
	for _, s := range session.Scores() {
		record.Scores = append(record.Scores, scoreRecord{
			TaskID:     s.TaskID,
			Score:      s.Score,
			MaxPoints:  s.MaxPoints,
			RecordedAt: s.RecordedAt,
		})
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = r.dbConn.ExecContext(ctx, `
		INSERT INTO session_slot (id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		slotID, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load reads the persisted session. A missing or corrupt record returns
// nil; the caller starts fresh rather than refusing to run.
func (r *SQLiteSessionRepository) Load(ctx context.Context) (*domain.Session, error) {
	var payload string
	err := r.dbConn.QueryRowContext(ctx,
		`SELECT payload FROM session_slot WHERE id = ?`, slotID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	scores := make([]domain.TaskScore, 0, len(record.Scores))
	for _, s := range record.Scores {
		scores = append(scores, domain.TaskScore{
			TaskID:     s.TaskID,
			Score:      s.Score,
			MaxPoints:  s.MaxPoints,
			RecordedAt: s.RecordedAt,
		})
	}

	session, err := domain.RehydrateSession(record.ID, record.Username, scores,
		record.TotalScore, record.LastUpdated, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("rehydrate session: %w", err)
	}
	return session, nil
}

// Delete removes the slot row. Deleting an absent row is not an error.
func (r *SQLiteSessionRepository) Delete(ctx context.Context) error {
	_, err := r.dbConn.ExecContext(ctx,
		`DELETE FROM session_slot WHERE id = ?`, slotID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
