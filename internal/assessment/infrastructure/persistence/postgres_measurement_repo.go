package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMeasurementRepository implements domain.MeasurementStore on a
// clinic-side PostgreSQL database. Measurements are append-only.
type PostgresMeasurementRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMeasurementRepository creates a new PostgreSQL measurement repository.
func NewPostgresMeasurementRepository(pool *pgxpool.Pool) *PostgresMeasurementRepository {
	return &PostgresMeasurementRepository{pool: pool}
}

// Migrate creates the measurements table.
func (r *PostgresMeasurementRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS measurements (
			id          UUID PRIMARY KEY,
			username    TEXT NOT NULL,
			date        TIMESTAMPTZ NOT NULL,
			total_score INTEGER NOT NULL CHECK (total_score >= 0)
		);
		CREATE INDEX IF NOT EXISTS idx_measurements_username ON measurements (username);
		CREATE INDEX IF NOT EXISTS idx_measurements_date ON measurements (date)`)
	if err != nil {
		return fmt.Errorf("migrate measurements: %w", err)
	}
	return nil
}

// SaveMeasurement appends one measurement. Re-delivery of the same
// measurement is a no-op, which keeps the outbox's at-least-once dispatch
// safe.
func (r *PostgresMeasurementRepository) SaveMeasurement(ctx context.Context, m domain.Measurement) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO measurements (id, username, date, total_score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		m.ID, m.Username, m.Date, m.TotalScore)
	if err != nil {
		return fmt.Errorf("save measurement: %w", err)
	}
	return nil
}

// History returns all measurements, oldest first.
func (r *PostgresMeasurementRepository) History(ctx context.Context) ([]domain.Measurement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, date, total_score
		FROM measurements
		ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	var measurements []domain.Measurement
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(&m.ID, &m.Username, &m.Date, &m.TotalScore); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	return measurements, nil
}
