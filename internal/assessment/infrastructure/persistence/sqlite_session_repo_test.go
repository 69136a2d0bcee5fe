package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupSessionTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := NewSQLiteSessionRepository(sqlDB)
	require.NoError(t, repo.Migrate(context.Background()))

	return sqlDB
}

func TestSQLiteSessionRepository_SaveAndLoad(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()

	session := domain.NewSession()
	session.SetUsername("testkid")
	_, err := session.SetScore(0, 3, 4)
	require.NoError(t, err)
	_, err = session.SetScore(4, 6, 6)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.ID(), loaded.ID())
	assert.Equal(t, "testkid", loaded.Username())
	assert.Equal(t, 9, loaded.Total())
	assert.Equal(t, 2, loaded.Attempted())

	score, ok := loaded.Score(4)
	require.True(t, ok)
	assert.Equal(t, 6, score.Score)
	assert.Equal(t, 6, score.MaxPoints)
}

func TestSQLiteSessionRepository_LoadEmpty(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))

	loaded, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSQLiteSessionRepository_SaveOverwrites(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()

	first := domain.NewSession()
	first.SetUsername("testkid")
	_, err := first.SetScore(0, 4, 4)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second := domain.NewSession()
	second.SetUsername("testkid")
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, second.ID(), loaded.ID())
	assert.Equal(t, 0, loaded.Total())
}

func TestSQLiteSessionRepository_LoadCorruptPayload(t *testing.T) {
	sqlDB := setupSessionTestDB(t)
	repo := NewSQLiteSessionRepository(sqlDB)
	ctx := context.Background()

	_, err := sqlDB.ExecContext(ctx,
		`INSERT INTO session_slot (id, payload, updated_at) VALUES (1, 'not json', ?)`,
		time.Now().UTC().Format(time.RFC3339Nano))
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	assert.Error(t, err)
}

func TestSQLiteSessionRepository_LoadTotalMismatch(t *testing.T) {
	sqlDB := setupSessionTestDB(t)
	repo := NewSQLiteSessionRepository(sqlDB)
	ctx := context.Background()

	// Payload whose stored total disagrees with the score sum.
	payload := `{"id":"` + uuid.NewString() + `","username":"testkid",` +
		`"scores":[{"task_id":0,"score":2,"max_points":4,"recorded_at":"2025-03-01T00:00:00Z"}],` +
		`"total_score":40,"last_updated":"2025-03-01T00:00:00Z",` +
		`"created_at":"2025-03-01T00:00:00Z","updated_at":"2025-03-01T00:00:00Z"}`
	_, err := sqlDB.ExecContext(ctx,
		`INSERT INTO session_slot (id, payload, updated_at) VALUES (1, ?, ?)`,
		payload, time.Now().UTC().Format(time.RFC3339Nano))
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSQLiteSessionRepository_Delete(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()

	session := domain.NewSession()
	session.SetUsername("testkid")
	require.NoError(t, repo.Save(ctx, session))

	require.NoError(t, repo.Delete(ctx))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting again is not an error.
	assert.NoError(t, repo.Delete(ctx))
}
