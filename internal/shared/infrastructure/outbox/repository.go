package outbox

import (
	"context"
	"time"
)

// Repository persists queued messages.
type Repository interface {
	// Save stores a new message.
	Save(ctx context.Context, msg *Message) error

	// Pending returns undispatched, non-dead messages whose retry time has
	// passed, oldest first.
	Pending(ctx context.Context, limit int) ([]*Message, error)

	// MarkDispatched records a successful delivery.
	MarkDispatched(ctx context.Context, id int64) error

	// MarkFailed records a delivery failure and schedules the next attempt.
	MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error

	// MarkDead parks a message that exhausted its retries.
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteDispatched removes delivered messages older than the retention
	// period, returning how many were removed.
	DeleteDispatched(ctx context.Context, olderThan time.Duration) (int64, error)
}
