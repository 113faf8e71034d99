package sessions

import "errors"

var (
	ErrMissingGameType   = errors.New("missing-game-type")
	ErrSessionNotWaiting = errors.New("session-not-waiting")
	ErrSelfJoin          = errors.New("self-join")
	ErrNotAPlayer        = errors.New("not-a-player")
	ErrGameNotActive     = errors.New("game-not-active")
)
