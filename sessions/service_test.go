package sessions_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimuhammedak/SyncLove/domain"
	"github.com/alimuhammedak/SyncLove/sessions"
)

type mockSessionRepo struct {
	sessions map[string]domain.GameSession
	seq      int
	now      time.Time
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		sessions: make(map[string]domain.GameSession),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, gameType, player1Id string) (domain.GameSession, error) {
	m.seq++
	m.now = m.now.Add(time.Minute)
	session := domain.GameSession{
		Id:        "session-" + strconv.Itoa(m.seq),
		GameType:  gameType,
		Player1Id: player1Id,
		GameState: "{}",
		Status:    domain.SessionWaiting,
		CreatedAt: m.now,
	}
	m.sessions[session.Id] = session
	return session, nil
}

func (m *mockSessionRepo) GetSessionById(ctx context.Context, id string) (domain.GameSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *mockSessionRepo) UpdateSession(ctx context.Context, session domain.GameSession) error {
	if _, ok := m.sessions[session.Id]; !ok {
		return domain.ErrSessionNotFound
	}
	m.sessions[session.Id] = session
	return nil
}

func (m *mockSessionRepo) ListActiveSessions(ctx context.Context, userId string, limit int) ([]domain.GameSession, error) {
	var result []domain.GameSession
	for _, s := range m.sessions {
		if s.Player1Id != userId && (s.Player2Id == nil || *s.Player2Id != userId) {
			continue
		}
		if s.Status != domain.SessionWaiting && s.Status != domain.SessionInProgress {
			continue
		}
		result = append(result, s)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func TestCreate(t *testing.T) {
	service := sessions.NewService(newMockSessionRepo())
	ctx := context.Background()

	session, err := service.Create(ctx, "user-1", "drawing")
	require.NoError(t, err)
	assert.Equal(t, "drawing", session.GameType)
	assert.Equal(t, "user-1", session.Player1Id)
	assert.Equal(t, domain.SessionWaiting, session.Status)
	assert.Nil(t, session.Player2Id)

	_, err = service.Create(ctx, "user-1", "   ")
	assert.ErrorIs(t, err, sessions.ErrMissingGameType)
}

func TestJoin(t *testing.T) {
	service := sessions.NewService(newMockSessionRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, "user-1", "drawing")
	require.NoError(t, err)

	_, err = service.Join(ctx, "missing-id", "user-2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = service.Join(ctx, created.Id, "user-1")
	assert.ErrorIs(t, err, sessions.ErrSelfJoin)

	joined, err := service.Join(ctx, created.Id, "user-2")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, joined.Status)
	require.NotNil(t, joined.Player2Id)
	assert.Equal(t, "user-2", *joined.Player2Id)

	_, err = service.Join(ctx, created.Id, "user-3")
	assert.ErrorIs(t, err, sessions.ErrSessionNotWaiting)
}

func TestSetState(t *testing.T) {
	service := sessions.NewService(newMockSessionRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, "user-1", "drawing")
	require.NoError(t, err)

	_, err = service.SetState(ctx, created.Id, "user-1", `{"turn":1}`)
	assert.ErrorIs(t, err, sessions.ErrGameNotActive, "waiting sessions have no live state")

	_, err = service.Join(ctx, created.Id, "user-2")
	require.NoError(t, err)

	_, err = service.SetState(ctx, created.Id, "stranger", `{"turn":1}`)
	assert.ErrorIs(t, err, sessions.ErrNotAPlayer)

	updated, err := service.SetState(ctx, created.Id, "user-2", `{"turn":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"turn":1}`, updated.GameState)
}

func TestComplete(t *testing.T) {
	service := sessions.NewService(newMockSessionRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, "user-1", "drawing")
	require.NoError(t, err)
	_, err = service.Join(ctx, created.Id, "user-2")
	require.NoError(t, err)

	winner := "user-2"
	completed, err := service.Complete(ctx, created.Id, &winner)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, completed.Status)
	require.NotNil(t, completed.WinnerId)
	assert.Equal(t, "user-2", *completed.WinnerId)
	assert.NotNil(t, completed.CompletedAt)

	// Draws complete with no winner.
	other, err := service.Create(ctx, "user-1", "drawing")
	require.NoError(t, err)
	completed, err = service.Complete(ctx, other.Id, nil)
	require.NoError(t, err)
	assert.Nil(t, completed.WinnerId)
}

func TestListActive(t *testing.T) {
	service := sessions.NewService(newMockSessionRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, "user-1", "drawing")
	require.NoError(t, err)
	_, err = service.Create(ctx, "user-1", "drawing")
	require.NoError(t, err)
	_, err = service.Create(ctx, "someone-else", "drawing")
	require.NoError(t, err)

	_, err = service.Complete(ctx, created.Id, nil)
	require.NoError(t, err)

	active, err := service.ListActive(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, active, 1, "completed and foreign sessions are filtered out")
}
