package sessions

import (
	"context"

	"github.com/alimuhammedak/SyncLove/domain"
)

type SessionRepo interface {
	CreateSession(ctx context.Context, gameType, player1Id string) (domain.GameSession, error)
	GetSessionById(ctx context.Context, id string) (domain.GameSession, error)
	UpdateSession(ctx context.Context, session domain.GameSession) error
	ListActiveSessions(ctx context.Context, userId string, limit int) ([]domain.GameSession, error)
}

type SessionService interface {
	Create(ctx context.Context, userId, gameType string) (domain.GameSession, error)
	Get(ctx context.Context, sessionId string) (domain.GameSession, error)
	Join(ctx context.Context, sessionId, userId string) (domain.GameSession, error)
	SetState(ctx context.Context, sessionId, userId, gameState string) (domain.GameSession, error)
	Complete(ctx context.Context, sessionId string, winnerId *string) (domain.GameSession, error)
	ListActive(ctx context.Context, userId string) ([]domain.GameSession, error)
}
