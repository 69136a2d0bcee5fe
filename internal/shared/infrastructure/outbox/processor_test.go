package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/cmas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Save(ctx context.Context, msg *Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockRepo) Pending(ctx context.Context, limit int) ([]*Message, error) {
	args := m.Called(ctx, limit)
	msgs, _ := args.Get(0).([]*Message)
	return msgs, args.Error(1)
}

func (m *mockRepo) MarkDispatched(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	return m.Called(ctx, id, errMsg, nextRetryAt).Error(0)
}

func (m *mockRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockRepo) DeleteDispatched(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, msg *Message) error {
	return m.Called(ctx, msg).Error(0)
}

func pendingMessage(id int64, retries int) *Message {
	return &Message{
		ID:            id,
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "AssessmentSession",
		RoutingKey:    "assessment.measurement.recorded",
		Payload:       []byte(`{"total_score":22}`),
		CreatedAt:     time.Now().UTC(),
		RetryCount:    retries,
	}
}

func TestProcessor_ProcessOnce_DispatchesAndMarks(t *testing.T) {
	repo := new(mockRepo)
	dispatcher := new(mockDispatcher)
	p := NewProcessor(repo, dispatcher, DefaultProcessorConfig(), nil)

	ctx := context.Background()
	msg := pendingMessage(1, 0)

	repo.On("Pending", ctx, 50).Return([]*Message{msg}, nil)
	dispatcher.On("Dispatch", ctx, msg).Return(nil)
	repo.On("MarkDispatched", ctx, int64(1)).Return(nil)

	require.NoError(t, p.ProcessOnce(ctx))

	repo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestProcessor_ProcessOnce_FailureSchedulesRetry(t *testing.T) {
	repo := new(mockRepo)
	dispatcher := new(mockDispatcher)
	p := NewProcessor(repo, dispatcher, DefaultProcessorConfig(), nil)

	ctx := context.Background()
	msg := pendingMessage(7, 0)

	repo.On("Pending", ctx, 50).Return([]*Message{msg}, nil)
	dispatcher.On("Dispatch", ctx, msg).Return(errors.New("remote store unavailable"))
	repo.On("MarkFailed", ctx, int64(7), "remote store unavailable", mock.AnythingOfType("time.Time")).Return(nil)

	require.NoError(t, p.ProcessOnce(ctx))

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkDispatched", ctx, int64(7))
	repo.AssertNotCalled(t, "MarkDead", ctx, int64(7), mock.Anything)
}

func TestProcessor_ProcessOnce_ExhaustedRetriesDeadLetters(t *testing.T) {
	repo := new(mockRepo)
	dispatcher := new(mockDispatcher)
	p := NewProcessor(repo, dispatcher, DefaultProcessorConfig(), nil)

	ctx := context.Background()
	msg := pendingMessage(3, 4) // next attempt is the fifth and last

	repo.On("Pending", ctx, 50).Return([]*Message{msg}, nil)
	dispatcher.On("Dispatch", ctx, msg).Return(errors.New("still down"))
	repo.On("MarkDead", ctx, int64(3), "still down").Return(nil)

	require.NoError(t, p.ProcessOnce(ctx))

	repo.AssertExpectations(t)
}

func TestProcessor_Backoff(t *testing.T) {
	p := NewProcessor(nil, nil, ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}, nil)

	assert.Equal(t, time.Second, p.backoff(1))
	assert.Equal(t, 2*time.Second, p.backoff(2))
	assert.Equal(t, 8*time.Second, p.backoff(4))
	assert.Equal(t, time.Minute, p.backoff(20), "capped at the configured max")
}

func TestNewMessage_WrapsEvent(t *testing.T) {
	session := uuid.New()
	event := sharedDomain.NewBaseEvent(session, "AssessmentSession", "assessment.session.cleared")

	msg, err := NewMessage(testEvent{BaseEvent: event, Note: "cleared"})

	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, session, msg.AggregateID)
	assert.Equal(t, "assessment.session.cleared", msg.RoutingKey)
	assert.JSONEq(t, `{"note":"cleared"}`, string(msg.Payload))
	assert.False(t, msg.IsDispatched())
}

type testEvent struct {
	sharedDomain.BaseEvent
	Note string `json:"note"`
}
