package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMeasurementStore struct {
	mock.Mock
}

func (m *mockMeasurementStore) SaveMeasurement(ctx context.Context, measurement domain.Measurement) error {
	return m.Called(ctx, measurement).Error(0)
}

func (m *mockMeasurementStore) History(ctx context.Context) ([]domain.Measurement, error) {
	args := m.Called(ctx)
	measurements, _ := args.Get(0).([]domain.Measurement)
	return measurements, args.Error(1)
}

type fakeCache struct {
	measurements []domain.Measurement
	hit          bool
	sets         int
}

func (c *fakeCache) Get(context.Context) ([]domain.Measurement, bool) {
	return c.measurements, c.hit
}

func (c *fakeCache) Set(_ context.Context, measurements []domain.Measurement) {
	c.measurements = measurements
	c.sets++
}

func sampleHistory() []domain.Measurement {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Measurement{
		{ID: uuid.New(), Username: "patient1", Date: date, TotalScore: 28},
		{ID: uuid.New(), Username: "patient2", Date: date.AddDate(0, 0, 4), TotalScore: 32},
		{ID: uuid.New(), Username: "patient3", Date: date.AddDate(0, 0, 9), TotalScore: 19},
		{ID: uuid.New(), Username: "patient1", Date: date.AddDate(0, 0, 14), TotalScore: 51},
	}
}

func TestGetHistoryHandler_DerivesInterpretation(t *testing.T) {
	store := new(mockMeasurementStore)
	handler := NewGetHistoryHandler(store, nil, nil)

	ctx := context.Background()
	store.On("History", ctx).Return(sampleHistory(), nil)

	result, err := handler.Handle(ctx, GetHistoryQuery{})

	require.NoError(t, err)
	require.Len(t, result.Entries, 4)
	assert.Equal(t, "Moderate impairment", result.Entries[0].Interpretation)
	assert.Equal(t, "#f97316", result.Entries[0].Color)
	assert.Equal(t, "Severe impairment", result.Entries[2].Interpretation)
	assert.Equal(t, "Normal function", result.Entries[3].Interpretation)
	assert.Equal(t, []string{"patient1", "patient2", "patient3"}, result.Patients)
}

func TestGetHistoryHandler_PatientFilter(t *testing.T) {
	store := new(mockMeasurementStore)
	handler := NewGetHistoryHandler(store, nil, nil)

	ctx := context.Background()
	store.On("History", ctx).Return(sampleHistory(), nil)

	result, err := handler.Handle(ctx, GetHistoryQuery{Patient: "patient1"})

	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	for _, entry := range result.Entries {
		assert.Equal(t, "patient1", entry.Username)
	}
	assert.Equal(t, []string{"patient1", "patient2", "patient3"}, result.Patients,
		"patient list covers all patients regardless of filter")
}

func TestGetHistoryHandler_StoreFailure(t *testing.T) {
	store := new(mockMeasurementStore)
	handler := NewGetHistoryHandler(store, nil, nil)

	ctx := context.Background()
	store.On("History", ctx).Return(nil, errors.New("connection refused"))

	_, err := handler.Handle(ctx, GetHistoryQuery{})

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestGetHistoryHandler_CacheHitSkipsStore(t *testing.T) {
	store := new(mockMeasurementStore)
	cache := &fakeCache{measurements: sampleHistory(), hit: true}
	handler := NewGetHistoryHandler(store, cache, nil)

	result, err := handler.Handle(context.Background(), GetHistoryQuery{})

	require.NoError(t, err)
	assert.Len(t, result.Entries, 4)
	store.AssertNotCalled(t, "History", mock.Anything)
}

func TestGetHistoryHandler_CacheMissFillsCache(t *testing.T) {
	store := new(mockMeasurementStore)
	cache := &fakeCache{}
	handler := NewGetHistoryHandler(store, cache, nil)

	ctx := context.Background()
	store.On("History", ctx).Return(sampleHistory(), nil)

	_, err := handler.Handle(ctx, GetHistoryQuery{})

	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Len(t, cache.measurements, 4)
}
