package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/cmas/internal/assessment/application/commands"
	"github.com/felixgeelhaar/cmas/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standaloneConfig returns a config with no clinic-side endpoints, so the
// container runs entirely on a throwaway SQLite file.
func standaloneConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv: "development",
		DBPath: filepath.Join(t.TempDir(), "cmas.db"),
	}
}

func TestNewContainer_Standalone(t *testing.T) {
	ctx := context.Background()

	container, err := NewContainer(ctx, standaloneConfig(t), nil)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.SessionRepo)
	assert.NotNil(t, container.MeasurementStore)
	assert.NotNil(t, container.OutboxRepo)
	assert.NotNil(t, container.EventPublisher)
	assert.NotNil(t, container.Flow)
	assert.NotNil(t, container.SubmitHandler)
	assert.NotNil(t, container.SummaryHandler)
	assert.NotNil(t, container.HistoryHandler)
	assert.NotNil(t, container.Authenticator)
	assert.NotNil(t, container.OutboxProcessor)

	assert.Equal(t, 14, container.Catalog.Count())
	assert.Equal(t, 52, container.Catalog.MaxPossibleScore())
	assert.Nil(t, container.Pool)
	assert.Nil(t, container.RedisClient)
}

func TestContainer_SessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := standaloneConfig(t)

	first, err := NewContainer(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.SessionStore.SetUsername(ctx, "testkid"))
	_, err = first.SessionStore.SetScore(ctx, 0, 3, 4)
	require.NoError(t, err)
	first.Close()

	second, err := NewContainer(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	session := second.SessionStore.Current()
	assert.Equal(t, "testkid", session.Username())
	assert.Equal(t, 3, session.Total())
	assert.Equal(t, 1, session.Attempted())
}

func TestContainer_SubmitFlowsThroughOutbox(t *testing.T) {
	ctx := context.Background()

	container, err := NewContainer(ctx, standaloneConfig(t), nil)
	require.NoError(t, err)
	defer container.Close()

	require.NoError(t, container.SessionStore.SetUsername(ctx, "testkid"))
	_, err = container.SessionStore.SetScore(ctx, 0, 4, 4)
	require.NoError(t, err)

	result, err := container.SubmitHandler.Handle(ctx, commands.SubmitSessionCommand{})
	require.NoError(t, err)

	// One pass of the processor delivers the measurement into the local
	// store through the dispatcher.
	require.NoError(t, container.OutboxProcessor.ProcessOnce(ctx))

	history, err := container.MeasurementStore.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.MeasurementID, history[0].ID)
	assert.Equal(t, "testkid", history[0].Username)
	assert.Equal(t, 4, history[0].TotalScore)
}
