// Package dispatch routes outbox messages to their destinations: the clinic
// measurement store and, when a broker is configured, the event bus.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/felixgeelhaar/cmas/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cmas/internal/shared/infrastructure/outbox"
)

// RoutingKeyMeasurementRecorded is the routing key carrying completed
// measurements.
const RoutingKeyMeasurementRecorded = "assessment.measurement.recorded"

// HistoryInvalidator drops stale cached history after a new measurement
// lands. May be nil when no cache is configured.
type HistoryInvalidator interface {
	Invalidate(ctx context.Context)
}

// MeasurementDispatcher handles outbox messages for the assessment context.
// Measurement messages are written to the clinic store first and only then
// published; a failed store write leaves the message pending so the outbox
// retries the whole delivery. Store writes are idempotent on measurement ID,
// so re-delivery after a publish failure is safe.
type MeasurementDispatcher struct {
	store       domain.MeasurementStore
	publisher   eventbus.Publisher
	invalidator HistoryInvalidator
	logger      *slog.Logger
}

// NewMeasurementDispatcher creates a dispatcher. The publisher must not be
// nil; use eventbus.NewNoopPublisher when no broker is configured.
func NewMeasurementDispatcher(store domain.MeasurementStore, publisher eventbus.Publisher, invalidator HistoryInvalidator, logger *slog.Logger) *MeasurementDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeasurementDispatcher{
		store:       store,
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Dispatch delivers one outbox message.
func (d *MeasurementDispatcher) Dispatch(ctx context.Context, msg *outbox.Message) error {
	if msg.RoutingKey == RoutingKeyMeasurementRecorded {
		if err := d.saveMeasurement(ctx, msg); err != nil {
			return err
		}
	}

	if err := d.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
		return fmt.Errorf("publish %s: %w", msg.RoutingKey, err)
	}
	return nil
}

func (d *MeasurementDispatcher) saveMeasurement(ctx context.Context, msg *outbox.Message) error {
	var event domain.MeasurementRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode measurement event: %w", err)
	}

	m := domain.Measurement{
		ID:         event.MeasurementID,
		Username:   event.Username,
		Date:       event.Date,
		TotalScore: event.TotalScore,
	}
	if err := d.store.SaveMeasurement(ctx, m); err != nil {
		return fmt.Errorf("save measurement %s: %w", m.ID, err)
	}

	if d.invalidator != nil {
		d.invalidator.Invalidate(ctx)
	}

	d.logger.Info("measurement delivered",
		"measurement_id", m.ID,
		"username", m.Username,
		"total_score", m.TotalScore,
	)
	return nil
}
