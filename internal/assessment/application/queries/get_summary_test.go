package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	session *domain.Session
}

func (s *stubSource) Current() *domain.Session { return s.session }

func TestGetSummaryHandler_EmptySession(t *testing.T) {
	handler := NewGetSummaryHandler(domain.StandardCatalog(), &stubSource{session: domain.NewSession()})

	summary, err := handler.Handle(context.Background(), GetSummaryQuery{})

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalScore)
	assert.Equal(t, 52, summary.MaxPossible)
	assert.Equal(t, 14, summary.TaskCount)
	assert.Equal(t, 0, summary.Attempted)
	assert.Equal(t, "Severe impairment", summary.Interpretation)
	require.Len(t, summary.Tasks, 14)
	for _, task := range summary.Tasks {
		assert.False(t, task.Attempted)
	}
}

func TestGetSummaryHandler_ScoredSession(t *testing.T) {
	session := domain.NewSession()
	session.SetUsername("testkid")
	_, err := session.SetScore(0, 5, 5)
	require.NoError(t, err)
	_, err = session.SetScore(4, 6, 6)
	require.NoError(t, err)

	handler := NewGetSummaryHandler(domain.StandardCatalog(), &stubSource{session: session})
	summary, err := handler.Handle(context.Background(), GetSummaryQuery{})

	require.NoError(t, err)
	assert.Equal(t, "testkid", summary.Username)
	assert.Equal(t, 11, summary.TotalScore)
	assert.Equal(t, 2, summary.Attempted)

	assert.True(t, summary.Tasks[0].Attempted)
	assert.Equal(t, 5, summary.Tasks[0].Score)
	assert.True(t, summary.Tasks[4].Attempted)
	assert.Equal(t, 6, summary.Tasks[4].Score)
	assert.False(t, summary.Tasks[1].Attempted)
}

func TestGetSummaryHandler_InterpretationTracksTotal(t *testing.T) {
	session := domain.NewSession()
	_, err := session.SetScore(0, 22, 52)
	require.NoError(t, err)

	handler := NewGetSummaryHandler(domain.StandardCatalog(), &stubSource{session: session})

	summary, err := handler.Handle(context.Background(), GetSummaryQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Moderate impairment", summary.Interpretation)

	_, err = session.SetScore(1, 13, 52)
	require.NoError(t, err)

	summary, err = handler.Handle(context.Background(), GetSummaryQuery{})
	require.NoError(t, err)
	assert.Equal(t, 35, summary.TotalScore)
	assert.Equal(t, "Mild impairment", summary.Interpretation)
}
