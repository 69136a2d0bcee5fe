package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/google/uuid"
)

// SQLiteMeasurementRepository implements domain.MeasurementStore on the
// local SQLite database. It serves standalone installs that have neither a
// clinic Postgres nor a remote endpoint configured.
type SQLiteMeasurementRepository struct {
	dbConn *sql.DB
}

// NewSQLiteMeasurementRepository creates a new SQLite measurement repository.
func NewSQLiteMeasurementRepository(dbConn *sql.DB) *SQLiteMeasurementRepository {
	return &SQLiteMeasurementRepository{dbConn: dbConn}
}

// Migrate creates the measurements table.
func (r *SQLiteMeasurementRepository) Migrate(ctx context.Context) error {
	_, err := r.dbConn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS measurements (
			id          TEXT PRIMARY KEY,
			username    TEXT NOT NULL,
			date        TEXT NOT NULL,
			total_score INTEGER NOT NULL CHECK (total_score >= 0)
		)`)
	if err != nil {
		return fmt.Errorf("migrate measurements: %w", err)
	}
	return nil
}

// SaveMeasurement appends one measurement. Saving the same ID twice is a
// no-op.
func (r *SQLiteMeasurementRepository) SaveMeasurement(ctx context.Context, m domain.Measurement) error {
	_, err := r.dbConn.ExecContext(ctx, `
		INSERT INTO measurements (id, username, date, total_score)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		m.ID.String(), m.Username, m.Date.UTC().Format(time.RFC3339Nano), m.TotalScore)
	if err != nil {
		return fmt.Errorf("save measurement: %w", err)
	}
	return nil
}

// History returns all measurements, oldest first.
func (r *SQLiteMeasurementRepository) History(ctx context.Context) ([]domain.Measurement, error) {
	rows, err := r.dbConn.QueryContext(ctx, `
		SELECT id, username, date, total_score
		FROM measurements
		ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	var measurements []domain.Measurement
	for rows.Next() {
		var (
			m    domain.Measurement
			id   string
			date string
		)
		if err := rows.Scan(&id, &m.Username, &date, &m.TotalScore); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan measurement id: %w", err)
		}
		if m.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("scan measurement date: %w", err)
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	return measurements, nil
}
