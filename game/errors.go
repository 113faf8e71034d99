package game

import "errors"

var (
	ErrRoomFull           = errors.New("room-full")
	ErrNotHost            = errors.New("not-host")
	ErrNotEnoughPlayers   = errors.New("not-enough-players")
	ErrGameAlreadyStarted = errors.New("game-already-started")
	ErrUnknownWord        = errors.New("unknown-word")
)
