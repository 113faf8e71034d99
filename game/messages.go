package game

import (
	"encoding/json"
	"time"
)

// Inbound message types.
const (
	MsgJoinRoom       = "join-room"
	MsgStartGame      = "start-game"
	MsgGetWordOptions = "get-word-options"
	MsgSelectRound    = "select-round"
	MsgSubmitStroke   = "submit-stroke"
	MsgSubmitGuess    = "submit-guess"
	MsgSendReaction   = "send-reaction"
	MsgEndRound       = "end-round"
	MsgClearCanvas    = "clear-canvas"
	MsgLeaveRoom      = "leave-room"
)

// Outbound event types.
const (
	EventPlayerJoined     = "player-joined"
	EventPlayerLeft       = "player-left"
	EventRoomState        = "room-state"
	EventGameStarted      = "game-started"
	EventWordOptions      = "word-options"
	EventRoundStarted     = "round-started"
	EventWordToDraw       = "word-to-draw"
	EventStrokeReceived   = "stroke-received"
	EventGuessResult      = "guess-result"
	EventReactionReceived = "reaction-received"
	EventRoundEnded       = "round-ended"
	EventCanvasCleared    = "canvas-cleared"
	EventError            = "error"
)

// Caller-only error codes.
const (
	ErrCodeMissingRoomCode = "missing-room-code"
	ErrCodeUnknownMessage  = "unknown-message-type"
	ErrCodeBadPayload      = "bad-payload"
)

type clientEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type serverEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type StrokePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Stroke struct {
	Points    []StrokePoint `json:"points"`
	BrushType string        `json:"brushType"`
	Color     string        `json:"color"`
	Size      float64       `json:"size"`
}

// Inbound payloads. Every one names the room it targets; roomCode() lets the
// gateway reject a missing code before dispatching.

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

type startGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type getWordOptionsPayload struct {
	RoomCode string `json:"roomCode"`
}

type selectRoundPayload struct {
	RoomCode string `json:"roomCode"`
	Emotion  string `json:"emotion"`
}

type submitStrokePayload struct {
	RoomCode string `json:"roomCode"`
	Stroke   Stroke `json:"stroke"`
}

type submitGuessPayload struct {
	RoomCode  string `json:"roomCode"`
	GuessText string `json:"guessText"`
}

type sendReactionPayload struct {
	RoomCode     string `json:"roomCode"`
	ReactionType string `json:"reactionType"`
}

type endRoundPayload struct {
	RoomCode string `json:"roomCode"`
}

type clearCanvasPayload struct {
	RoomCode string `json:"roomCode"`
}

type leaveRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

func (p *joinRoomPayload) roomCode() string       { return p.RoomCode }
func (p *startGamePayload) roomCode() string      { return p.RoomCode }
func (p *getWordOptionsPayload) roomCode() string { return p.RoomCode }
func (p *selectRoundPayload) roomCode() string    { return p.RoomCode }
func (p *submitStrokePayload) roomCode() string   { return p.RoomCode }
func (p *submitGuessPayload) roomCode() string    { return p.RoomCode }
func (p *sendReactionPayload) roomCode() string   { return p.RoomCode }
func (p *endRoundPayload) roomCode() string       { return p.RoomCode }
func (p *clearCanvasPayload) roomCode() string    { return p.RoomCode }
func (p *leaveRoomPayload) roomCode() string      { return p.RoomCode }

// Outbound payloads.

type playerJoinedEvent struct {
	RoomCode    string    `json:"roomCode"`
	PlayerId    string    `json:"playerId"`
	DisplayName string    `json:"displayName"`
	HostId      string    `json:"hostId"`
	Roster      []Player  `json:"roster"`
	JoinedAt    time.Time `json:"joinedAt"`
}

type playerLeftEvent struct {
	RoomCode  string    `json:"roomCode"`
	PlayerId  string    `json:"playerId"`
	NewHostId string    `json:"newHostId,omitempty"`
	Roster    []Player  `json:"roster"`
	LeftAt    time.Time `json:"leftAt"`
}

type gameStartedEvent struct {
	RoomCode  string `json:"roomCode"`
	StartedBy string `json:"startedBy"`
}

type wordOptionsEvent struct {
	RoomCode string          `json:"roomCode"`
	Options  []EmotionOption `json:"options"`
}

// roundStartedEvent goes to the whole room and therefore carries no emotion.
type roundStartedEvent struct {
	RoomCode    string     `json:"roomCode"`
	RoundId     string     `json:"roundId"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	DrawerId    string     `json:"drawerId"`
	TimeLimit   int        `json:"timeLimit"`
	RoundNumber int        `json:"roundNumber"`
	TotalRounds int        `json:"totalRounds"`
}

// wordToDrawEvent is private to the drawer.
type wordToDrawEvent struct {
	RoomCode string `json:"roomCode"`
	RoundId  string `json:"roundId"`
	Emotion  string `json:"emotion"`
}

type strokeReceivedEvent struct {
	RoomCode  string    `json:"roomCode"`
	SenderId  string    `json:"senderId"`
	Stroke    Stroke    `json:"stroke"`
	Timestamp time.Time `json:"timestamp"`
}

type guessResultEvent struct {
	RoomCode string `json:"roomCode"`
	GuessResult
}

type reactionReceivedEvent struct {
	RoomCode     string    `json:"roomCode"`
	SenderId     string    `json:"senderId"`
	ReactionType string    `json:"reactionType"`
	Timestamp    time.Time `json:"timestamp"`
}

type roundEndedEvent struct {
	RoomCode   string        `json:"roomCode"`
	RoundId    string        `json:"roundId"`
	Emotion    string        `json:"emotion"`
	WasGuessed bool          `json:"wasGuessed"`
	WinnerId   string        `json:"winnerId,omitempty"`
	Scores     []PlayerScore `json:"scores"`
	GameOver   bool          `json:"gameOver"`
}

type canvasClearedEvent struct {
	RoomCode  string `json:"roomCode"`
	ClearedBy string `json:"clearedBy"`
}

type errorEvent struct {
	Code string `json:"code"`
}
