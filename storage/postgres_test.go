package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alimuhammedak/SyncLove/domain"
	"github.com/alimuhammedak/SyncLove/migrations"
	"github.com/alimuhammedak/SyncLove/storage"
)

var repo *storage.PostgresRepo

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	repo, err = storage.NewPostgresRepo(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	// Cleanup
	repo.Close()
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	var userId string
	t.Run("CreateUser", func(t *testing.T) {
		id, err := repo.CreateUser(ctx, "oussama", "hashed_secret")
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
		userId = id
	})

	t.Run("CreateUser_Duplicate", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, "oussama", "new_hash")
		assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	})

	t.Run("GetUserByUsername", func(t *testing.T) {
		user, err := repo.GetUserByUsername(ctx, "oussama")
		assert.NoError(t, err)
		assert.Equal(t, "oussama", user.Username)
		assert.Equal(t, "hashed_secret", user.PasswordHash)
		assert.Equal(t, userId, user.Id)
	})

	t.Run("GetUserByUsername_NotFound", func(t *testing.T) {
		_, err := repo.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("GetUserById", func(t *testing.T) {
		user, err := repo.GetUserById(ctx, userId)
		assert.NoError(t, err)
		assert.Equal(t, "oussama", user.Username)
	})

	t.Run("GetUserById_NotFound", func(t *testing.T) {
		_, err := repo.GetUserById(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestGameSessions(t *testing.T) {
	ctx := context.Background()

	player1, err := repo.CreateUser(ctx, "ayse", "hash1")
	require.NoError(t, err)
	player2, err := repo.CreateUser(ctx, "mehmet", "hash2")
	require.NoError(t, err)

	var sessionId string
	t.Run("CreateSession", func(t *testing.T) {
		session, err := repo.CreateSession(ctx, "drawing", player1)
		require.NoError(t, err)
		assert.NotEmpty(t, session.Id)
		assert.Equal(t, "drawing", session.GameType)
		assert.Equal(t, player1, session.Player1Id)
		assert.Nil(t, session.Player2Id)
		assert.Equal(t, domain.SessionWaiting, session.Status)
		assert.Equal(t, "{}", session.GameState)
		assert.False(t, session.CreatedAt.IsZero())
		sessionId = session.Id
	})

	t.Run("GetSessionById", func(t *testing.T) {
		session, err := repo.GetSessionById(ctx, sessionId)
		require.NoError(t, err)
		assert.Equal(t, sessionId, session.Id)
	})

	t.Run("GetSessionById_NotFound", func(t *testing.T) {
		_, err := repo.GetSessionById(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("UpdateSession", func(t *testing.T) {
		session, err := repo.GetSessionById(ctx, sessionId)
		require.NoError(t, err)

		session.Player2Id = &player2
		session.Status = domain.SessionInProgress
		session.GameState = `{"turn":1}`
		require.NoError(t, repo.UpdateSession(ctx, session))

		reloaded, err := repo.GetSessionById(ctx, sessionId)
		require.NoError(t, err)
		require.NotNil(t, reloaded.Player2Id)
		assert.Equal(t, player2, *reloaded.Player2Id)
		assert.Equal(t, domain.SessionInProgress, reloaded.Status)
		assert.Equal(t, `{"turn":1}`, reloaded.GameState)
	})

	t.Run("UpdateSession_NotFound", func(t *testing.T) {
		ghost := domain.GameSession{Id: "00000000-0000-0000-0000-000000000000"}
		assert.ErrorIs(t, repo.UpdateSession(ctx, ghost), domain.ErrSessionNotFound)
	})

	t.Run("ListActiveSessions", func(t *testing.T) {
		second, err := repo.CreateSession(ctx, "drawing", player2)
		require.NoError(t, err)

		// player2 is in both: the in-progress session and their own waiting one.
		active, err := repo.ListActiveSessions(ctx, player2, 20)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, second.Id, active[0].Id, "newest first")

		// Completion drops a session out of the active list.
		completedAt := time.Now().UTC()
		done, err := repo.GetSessionById(ctx, sessionId)
		require.NoError(t, err)
		done.Status = domain.SessionCompleted
		done.WinnerId = &player2
		done.CompletedAt = &completedAt
		require.NoError(t, repo.UpdateSession(ctx, done))

		active, err = repo.ListActiveSessions(ctx, player2, 20)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, second.Id, active[0].Id)

		// The cap bounds the result even with more rows available.
		active, err = repo.ListActiveSessions(ctx, player2, 1)
		require.NoError(t, err)
		assert.Len(t, active, 1)
	})
}
