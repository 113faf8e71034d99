package domain

import "time"

// Game session statuses as stored in the game_sessions table.
const (
	SessionWaiting    = "waiting"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionCancelled  = "cancelled"
)

// GameSession is a durable record of a two-player game. The in-round state
// (strokes, timers) lives only in memory; GameState holds whatever blob the
// clients agreed to checkpoint, opaque to the server.
type GameSession struct {
	Id          string     `json:"id"`
	GameType    string     `json:"gameType"`
	Player1Id   string     `json:"player1Id"`
	Player2Id   *string    `json:"player2Id"`
	GameState   string     `json:"gameState"`
	Status      string     `json:"status"`
	WinnerId    *string    `json:"winnerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}
