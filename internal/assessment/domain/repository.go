package domain

import "context"

// SessionRepository is the durable local slot the active session is written
// through to on every mutation. It holds at most one session; a missing,
// corrupt, or unparsable record loads as nil, never as an error the caller
// must treat as fatal.
type SessionRepository interface {
	// Save writes the full session state. Last writer wins, no merge.
	Save(ctx context.Context, session *Session) error

	// Load returns the persisted session, or nil when there is none worth
	// recovering.
	Load(ctx context.Context) (*Session, error)

	// Delete removes the durable record. Deleting an absent record is not
	// an error.
	Delete(ctx context.Context) error
}

// MeasurementStore is the clinic-side history store. Both the HTTP remote
// client and the direct database implementation satisfy it; all operations
// are fallible and latency-bearing.
type MeasurementStore interface {
	// SaveMeasurement appends one completed-assessment result.
	SaveMeasurement(ctx context.Context, m Measurement) error

	// History returns all measurements, oldest first.
	History(ctx context.Context) ([]Measurement, error)
}
