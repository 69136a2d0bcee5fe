package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const timeLayout = time.RFC3339Nano

// SQLiteRepository implements Repository on the local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a SQLite-backed outbox repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Migrate creates the outbox table when it does not exist yet.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS outbox_messages (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id       TEXT NOT NULL UNIQUE,
			aggregate_id   TEXT NOT NULL,
			aggregate_type TEXT NOT NULL,
			routing_key    TEXT NOT NULL,
			payload        TEXT NOT NULL,
			created_at     TEXT NOT NULL,
			dispatched_at  TEXT,
			next_retry_at  TEXT,
			retry_count    INTEGER NOT NULL DEFAULT 0,
			last_error     TEXT,
			dead_at        TEXT,
			dead_reason    TEXT
		)`)
	if err != nil {
		return fmt.Errorf("migrate outbox: %w", err)
	}
	return nil
}

// Save stores a new message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO outbox_messages (
			event_id, aggregate_id, aggregate_type, routing_key, payload, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.EventID.String(),
		msg.AggregateID.String(),
		msg.AggregateType,
		msg.RoutingKey,
		string(msg.Payload),
		msg.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save outbox message: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		msg.ID = id
	}
	return nil
}

// Pending returns undispatched, non-dead messages ready for an attempt.
func (r *SQLiteRepository) Pending(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, aggregate_id, aggregate_type, routing_key, payload,
		       created_at, next_retry_at, retry_count, last_error
		FROM outbox_messages
		WHERE dispatched_at IS NULL
		  AND dead_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at ASC
		LIMIT ?`,
		time.Now().UTC().Format(timeLayout), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var (
			msg                             Message
			eventID, aggregateID, createdAt string
			payload                         string
			nextRetryAt, lastError          sql.NullString
		)
		if err := rows.Scan(&msg.ID, &eventID, &aggregateID, &msg.AggregateType,
			&msg.RoutingKey, &payload, &createdAt, &nextRetryAt, &msg.RetryCount, &lastError); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("parse event id %q: %w", eventID, err)
		}
		if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
			return nil, fmt.Errorf("parse aggregate id %q: %w", aggregateID, err)
		}
		if msg.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		msg.Payload = []byte(payload)
		if nextRetryAt.Valid {
			t, err := time.Parse(timeLayout, nextRetryAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse next_retry_at %q: %w", nextRetryAt.String, err)
			}
			msg.NextRetryAt = &t
		}
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

// MarkDispatched records a successful delivery.
func (r *SQLiteRepository) MarkDispatched(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox_messages SET dispatched_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox message %d dispatched: %w", id, err)
	}
	return nil
}

// MarkFailed records a delivery failure and schedules the next attempt.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox_messages
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`,
		errMsg, nextRetryAt.UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox message %d failed: %w", id, err)
	}
	return nil
}

// MarkDead parks a message that exhausted its retries.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox_messages SET dead_at = ?, dead_reason = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), reason, id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox message %d dead: %w", id, err)
	}
	return nil
}

// DeleteDispatched removes delivered messages older than the retention period.
func (r *SQLiteRepository) DeleteDispatched(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timeLayout)
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM outbox_messages WHERE dispatched_at IS NOT NULL AND dispatched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete dispatched outbox messages: %w", err)
	}
	return res.RowsAffected()
}
