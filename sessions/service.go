package sessions

import (
	"context"
	"strings"
	"time"

	"github.com/alimuhammedak/SyncLove/domain"
)

const activeSessionsCap = 20

type service struct {
	repo SessionRepo
	now  func() time.Time
}

func NewService(repo SessionRepo) *service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, userId, gameType string) (domain.GameSession, error) {
	gameType = strings.TrimSpace(gameType)
	if gameType == "" {
		return domain.GameSession{}, ErrMissingGameType
	}

	return s.repo.CreateSession(ctx, gameType, userId)
}

func (s *service) Get(ctx context.Context, sessionId string) (domain.GameSession, error) {
	return s.repo.GetSessionById(ctx, sessionId)
}

// Join fills the second seat and moves the session to in_progress. The owner
// cannot take their own second seat, and a session past waiting never accepts
// another player.
func (s *service) Join(ctx context.Context, sessionId, userId string) (domain.GameSession, error) {
	session, err := s.repo.GetSessionById(ctx, sessionId)
	if err != nil {
		return domain.GameSession{}, err
	}

	if session.Status != domain.SessionWaiting {
		return domain.GameSession{}, ErrSessionNotWaiting
	}
	if session.Player1Id == userId {
		return domain.GameSession{}, ErrSelfJoin
	}

	session.Player2Id = &userId
	session.Status = domain.SessionInProgress

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return domain.GameSession{}, err
	}
	return session, nil
}

func (s *service) SetState(ctx context.Context, sessionId, userId, gameState string) (domain.GameSession, error) {
	session, err := s.repo.GetSessionById(ctx, sessionId)
	if err != nil {
		return domain.GameSession{}, err
	}

	if session.Player1Id != userId && (session.Player2Id == nil || *session.Player2Id != userId) {
		return domain.GameSession{}, ErrNotAPlayer
	}
	if session.Status != domain.SessionInProgress {
		return domain.GameSession{}, ErrGameNotActive
	}

	session.GameState = gameState

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return domain.GameSession{}, err
	}
	return session, nil
}

func (s *service) Complete(ctx context.Context, sessionId string, winnerId *string) (domain.GameSession, error) {
	session, err := s.repo.GetSessionById(ctx, sessionId)
	if err != nil {
		return domain.GameSession{}, err
	}

	completedAt := s.now().UTC()
	session.Status = domain.SessionCompleted
	session.WinnerId = winnerId
	session.CompletedAt = &completedAt

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return domain.GameSession{}, err
	}
	return session, nil
}

func (s *service) ListActive(ctx context.Context, userId string) ([]domain.GameSession, error) {
	return s.repo.ListActiveSessions(ctx, userId, activeSessionsCap)
}
