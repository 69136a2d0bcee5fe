package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/felixgeelhaar/cmas/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveMeasurement(ctx context.Context, measurement domain.Measurement) error {
	return m.Called(ctx, measurement).Error(0)
}

func (m *mockStore) History(ctx context.Context) ([]domain.Measurement, error) {
	args := m.Called(ctx)
	measurements, _ := args.Get(0).([]domain.Measurement)
	return measurements, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context) { f.calls++ }

func measurementMessage(t *testing.T, m domain.Measurement) *outbox.Message {
	t.Helper()
	event := domain.NewMeasurementRecorded(uuid.New(), m)
	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)
	return msg
}

func TestMeasurementDispatcher_SavesThenPublishes(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	invalidator := &fakeInvalidator{}
	dispatcher := NewMeasurementDispatcher(store, publisher, invalidator, nil)

	m := domain.Measurement{
		ID:         uuid.New(),
		Username:   "testkid",
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalScore: 44,
	}
	msg := measurementMessage(t, m)

	store.On("SaveMeasurement", mock.Anything, m).Return(nil)
	publisher.On("Publish", mock.Anything, RoutingKeyMeasurementRecorded, []byte(msg.Payload)).Return(nil)

	require.NoError(t, dispatcher.Dispatch(context.Background(), msg))

	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
	assert.Equal(t, 1, invalidator.calls)
}

func TestMeasurementDispatcher_StoreFailureSkipsPublish(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	dispatcher := NewMeasurementDispatcher(store, publisher, nil, nil)

	msg := measurementMessage(t, domain.NewMeasurement("testkid", 20))
	store.On("SaveMeasurement", mock.Anything, mock.Anything).Return(errors.New("clinic db down"))

	err := dispatcher.Dispatch(context.Background(), msg)

	assert.Error(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestMeasurementDispatcher_PublishFailure(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	dispatcher := NewMeasurementDispatcher(store, publisher, nil, nil)

	msg := measurementMessage(t, domain.NewMeasurement("testkid", 20))
	store.On("SaveMeasurement", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := dispatcher.Dispatch(context.Background(), msg)

	assert.Error(t, err)
}

func TestMeasurementDispatcher_OtherEventsPublishOnly(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	dispatcher := NewMeasurementDispatcher(store, publisher, nil, nil)

	payload, err := json.Marshal(map[string]string{"session_id": uuid.NewString()})
	require.NoError(t, err)
	msg := &outbox.Message{
		EventID:    uuid.New(),
		RoutingKey: "assessment.session.cleared",
		Payload:    payload,
	}

	publisher.On("Publish", mock.Anything, "assessment.session.cleared", mock.Anything).Return(nil)

	require.NoError(t, dispatcher.Dispatch(context.Background(), msg))
	store.AssertNotCalled(t, "SaveMeasurement", mock.Anything, mock.Anything)
}

func TestMeasurementDispatcher_CorruptPayload(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	dispatcher := NewMeasurementDispatcher(store, publisher, nil, nil)

	msg := &outbox.Message{
		EventID:    uuid.New(),
		RoutingKey: RoutingKeyMeasurementRecorded,
		Payload:    []byte("not json"),
	}

	err := dispatcher.Dispatch(context.Background(), msg)

	assert.Error(t, err)
	store.AssertNotCalled(t, "SaveMeasurement", mock.Anything, mock.Anything)
}
