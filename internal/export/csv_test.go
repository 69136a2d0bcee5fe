package export

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSessionCSV(t *testing.T) {
	session := domain.NewSession()
	session.SetUsername("testkid")
	_, err := session.SetScore(0, 3, 4)
	require.NoError(t, err)
	_, err = session.SetScore(4, 5, 6)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteSessionCSV(&sb, session))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Username,TaskID,Score,MaxPoints,Timestamp", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "testkid,0,3,4,"))
	assert.True(t, strings.HasPrefix(lines[2], "testkid,4,5,6,"))
}

func TestWriteSessionCSV_EmptySession(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteSessionCSV(&sb, domain.NewSession()))

	assert.Equal(t, "Username,TaskID,Score,MaxPoints,Timestamp\n", sb.String())
}

func TestWriteHistoryCSV(t *testing.T) {
	measurements := []domain.Measurement{
		{ID: uuid.New(), Username: "testkid", Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), TotalScore: 18},
		{ID: uuid.New(), Username: "testkid", Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), TotalScore: 50},
	}

	var sb strings.Builder
	require.NoError(t, WriteHistoryCSV(&sb, measurements))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Username,Date,TotalScore,Interpretation", lines[0])
	assert.Equal(t, "testkid,2025-03-01T00:00:00Z,18,Severe impairment", lines[1])
	assert.Equal(t, "testkid,2025-04-01T00:00:00Z,50,Normal function", lines[2])
}
