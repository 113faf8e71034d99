package game

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Gateway maps inbound connection messages to room session operations and
// fans the resulting events back out. It owns the transport-level grouping
// (which connections hear which room) but none of the game state.
//
// Rejections go back to the offending caller only; state-absence (a message
// for a room or round that is already gone) is a silent no-op, because
// disconnect races are expected.
type Gateway struct {
	registry *Registry

	groupLocker sync.Mutex
	groups      map[string]map[*client]struct{}

	rngLocker sync.Mutex
	rng       *rand.Rand
}

func NewGateway(registry *Registry, rng *rand.Rand) *Gateway {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Gateway{
		registry: registry,
		groups:   make(map[string]map[*client]struct{}),
		rng:      rng,
	}
}

// Connect hands a freshly upgraded connection to the gateway and starts its
// pumps. Identity is resolved by the HTTP layer before the upgrade; the
// gateway trusts it.
func (g *Gateway) Connect(id, username string, socket WebsocketConnection) {
	c := newClient(id, username, socket)
	go c.writePump()
	go c.readPump(g)
}

func (g *Gateway) dispatch(c *client, envelope clientEnvelope) {
	switch envelope.Type {
	case MsgJoinRoom:
		var payload joinRoomPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleJoinRoom(c, payload.RoomCode)

	case MsgLeaveRoom:
		var payload leaveRoomPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleLeaveRoom(c, payload.RoomCode)

	case MsgStartGame:
		var payload startGamePayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleStartGame(c, payload.RoomCode)

	case MsgGetWordOptions:
		var payload getWordOptionsPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleGetWordOptions(c, payload.RoomCode)

	case MsgSelectRound:
		var payload selectRoundPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleSelectRound(c, payload.RoomCode, payload.Emotion)

	case MsgSubmitStroke:
		var payload submitStrokePayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleSubmitStroke(c, payload.RoomCode, payload.Stroke)

	case MsgSubmitGuess:
		var payload submitGuessPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleSubmitGuess(c, payload.RoomCode, payload.GuessText)

	case MsgSendReaction:
		var payload sendReactionPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleSendReaction(c, payload.RoomCode, payload.ReactionType)

	case MsgEndRound:
		var payload endRoundPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleEndRound(c, payload.RoomCode)

	case MsgClearCanvas:
		var payload clearCanvasPayload
		if !g.bindPayload(c, envelope.Data, &payload) {
			return
		}
		g.handleClearCanvas(c, payload.RoomCode)

	default:
		g.sendError(c, ErrCodeUnknownMessage)
	}
}

// bindPayload unmarshals and validates the common room code argument.
func (g *Gateway) bindPayload(c *client, data json.RawMessage, payload any) bool {
	if err := json.Unmarshal(data, payload); err != nil {
		g.sendError(c, ErrCodeBadPayload)
		return false
	}

	type roomCoded interface{ roomCode() string }
	if rc, ok := payload.(roomCoded); ok && NormalizeRoomCode(rc.roomCode()) == "" {
		g.sendError(c, ErrCodeMissingRoomCode)
		return false
	}
	return true
}

func (g *Gateway) handleJoinRoom(c *client, roomCode string) {
	code := NormalizeRoomCode(roomCode)
	room := g.registry.GetOrCreate(code)
	result, err := room.Join(c.id, c.username)
	if err != nil {
		// The room may have been created just for this failed join.
		g.registry.Remove(code)
		g.sendError(c, ErrRoomFull.Error())
		return
	}

	g.addToGroup(code, c)
	log.Info().Str("room", code).Str("player", c.id).Bool("rejoin", result.Rejoined).Msg("player joined room")

	g.broadcastToRoom(code, EventPlayerJoined, playerJoinedEvent{
		RoomCode:    code,
		PlayerId:    c.id,
		DisplayName: c.username,
		HostId:      result.HostId,
		Roster:      result.Roster,
		JoinedAt:    time.Now(),
	})
	g.sendTo(c, EventRoomState, room.Snapshot())
}

func (g *Gateway) handleLeaveRoom(c *client, roomCode string) {
	g.leaveRoom(c, NormalizeRoomCode(roomCode))
}

// leaveRoom is shared by the voluntary leave message and transport-detected
// disconnects so both paths clean up identically.
func (g *Gateway) leaveRoom(c *client, code string) {
	g.removeFromGroup(code, c)

	room, ok := g.registry.Get(code)
	if !ok {
		return
	}

	result := room.Leave(c.id)
	if !result.Removed {
		return
	}

	if result.Empty {
		g.registry.Remove(code)
		log.Info().Str("room", code).Msg("room emptied and removed")
		return
	}

	g.broadcastToRoom(code, EventPlayerLeft, playerLeftEvent{
		RoomCode:  code,
		PlayerId:  c.id,
		NewHostId: result.NewHostId,
		Roster:    result.Roster,
		LeftAt:    time.Now(),
	})
}

// disconnect runs the leave cleanup for every room the connection was in.
func (g *Gateway) disconnect(c *client) {
	g.groupLocker.Lock()
	codes := make([]string, 0, len(c.rooms))
	for code := range c.rooms {
		codes = append(codes, code)
	}
	g.groupLocker.Unlock()

	for _, code := range codes {
		g.leaveRoom(c, code)
	}

	close(c.done)
	c.socket.Close("")
	log.Debug().Str("player", c.id).Msg("connection closed")
}

func (g *Gateway) handleStartGame(c *client, roomCode string) {
	room, ok := g.registry.Get(roomCode)
	if !ok {
		return
	}

	if err := room.StartGame(c.id); err != nil {
		g.sendError(c, err.Error())
		return
	}

	g.broadcastToRoom(room.Code(), EventGameStarted, gameStartedEvent{
		RoomCode:  room.Code(),
		StartedBy: c.id,
	})
}

func (g *Gateway) handleGetWordOptions(c *client, roomCode string) {
	g.rngLocker.Lock()
	options := RandomOptions(g.rng)
	g.rngLocker.Unlock()

	g.sendTo(c, EventWordOptions, wordOptionsEvent{
		RoomCode: NormalizeRoomCode(roomCode),
		Options:  options,
	})
}

func (g *Gateway) handleSelectRound(c *client, roomCode, emotion string) {
	room, ok := g.registry.Get(roomCode)
	if !ok {
		return
	}

	started, err := room.SelectRound(c.id, emotion)
	if err != nil {
		g.sendError(c, err.Error())
		return
	}

	// Server-owned deadline: fires the round-ended sequence unless the round
	// completes first.
	timer := time.AfterFunc(time.Duration(started.TimeLimit)*time.Second, func() {
		g.expireRound(room.Code(), started.RoundId)
	})
	room.SetRoundTimer(started.RoundId, timer)

	g.broadcastToRoom(room.Code(), EventRoundStarted, roundStartedEvent{
		RoomCode:    room.Code(),
		RoundId:     started.RoundId,
		Category:    started.Category,
		Difficulty:  started.Difficulty,
		DrawerId:    started.DrawerId,
		TimeLimit:   started.TimeLimit,
		RoundNumber: started.RoundNumber,
		TotalRounds: TotalRounds,
	})

	// The word itself goes to the drawer alone.
	g.sendTo(c, EventWordToDraw, wordToDrawEvent{
		RoomCode: room.Code(),
		RoundId:  started.RoundId,
		Emotion:  started.Emotion,
	})
}

func (g *Gateway) handleSubmitStroke(c *client, roomCode string, stroke Stroke) {
	code := NormalizeRoomCode(roomCode)
	g.broadcastToOthers(code, c, EventStrokeReceived, strokeReceivedEvent{
		RoomCode:  code,
		SenderId:  c.id,
		Stroke:    stroke,
		Timestamp: time.Now(),
	})
}

func (g *Gateway) handleSubmitGuess(c *client, roomCode, guessText string) {
	room, ok := g.registry.Get(roomCode)
	if !ok {
		return
	}

	result, ok := room.SubmitGuess(c.id, guessText)
	if !ok {
		return
	}

	g.broadcastToRoom(room.Code(), EventGuessResult, guessResultEvent{
		RoomCode:    room.Code(),
		GuessResult: result,
	})

	if result.IsExactMatch {
		g.endRound(room)
	}
}

func (g *Gateway) handleSendReaction(c *client, roomCode, reactionType string) {
	code := NormalizeRoomCode(roomCode)
	g.broadcastToRoom(code, EventReactionReceived, reactionReceivedEvent{
		RoomCode:     code,
		SenderId:     c.id,
		ReactionType: reactionType,
		Timestamp:    time.Now(),
	})
}

func (g *Gateway) handleEndRound(c *client, roomCode string) {
	room, ok := g.registry.Get(roomCode)
	if !ok {
		return
	}
	g.endRound(room)
}

func (g *Gateway) handleClearCanvas(c *client, roomCode string) {
	room, ok := g.registry.Get(roomCode)
	if !ok {
		return
	}

	if !room.ClearCanvas(c.id) {
		return
	}

	g.broadcastToRoom(room.Code(), EventCanvasCleared, canvasClearedEvent{
		RoomCode:  room.Code(),
		ClearedBy: c.id,
	})
}

func (g *Gateway) endRound(room *RoomSession) {
	summary, ok := room.EndRound()
	if !ok {
		return
	}
	g.broadcastRoundEnded(room.Code(), summary)
}

func (g *Gateway) expireRound(code, roundId string) {
	room, ok := g.registry.Get(code)
	if !ok {
		return
	}

	summary, ok := room.ExpireRound(roundId)
	if !ok {
		return
	}
	log.Info().Str("room", code).Str("round", roundId).Msg("round deadline expired")
	g.broadcastRoundEnded(code, summary)
}

func (g *Gateway) broadcastRoundEnded(code string, summary RoundSummary) {
	g.broadcastToRoom(code, EventRoundEnded, roundEndedEvent{
		RoomCode:   code,
		RoundId:    summary.RoundId,
		Emotion:    summary.Emotion,
		WasGuessed: summary.WasGuessed,
		WinnerId:   summary.WinnerId,
		Scores:     summary.Scores,
		GameOver:   summary.GameOver,
	})
}

// --- transport grouping ---

func (g *Gateway) addToGroup(code string, c *client) {
	g.groupLocker.Lock()
	defer g.groupLocker.Unlock()

	group, ok := g.groups[code]
	if !ok {
		group = make(map[*client]struct{})
		g.groups[code] = group
	}
	group[c] = struct{}{}
	c.rooms[code] = struct{}{}
}

func (g *Gateway) removeFromGroup(code string, c *client) {
	g.groupLocker.Lock()
	defer g.groupLocker.Unlock()

	if group, ok := g.groups[code]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(g.groups, code)
		}
	}
	delete(c.rooms, code)
}

func (g *Gateway) groupMembers(code string) []*client {
	g.groupLocker.Lock()
	defer g.groupLocker.Unlock()

	group := g.groups[code]
	members := make([]*client, 0, len(group))
	for member := range group {
		members = append(members, member)
	}
	return members
}

func (g *Gateway) broadcastToRoom(code, event string, data any) {
	payload := marshalEvent(event, data)
	for _, member := range g.groupMembers(code) {
		member.send(payload)
	}
}

func (g *Gateway) broadcastToOthers(code string, sender *client, event string, data any) {
	payload := marshalEvent(event, data)
	for _, member := range g.groupMembers(code) {
		if member != sender {
			member.send(payload)
		}
	}
}

func (g *Gateway) sendTo(c *client, event string, data any) {
	c.send(marshalEvent(event, data))
}

func (g *Gateway) sendError(c *client, code string) {
	g.sendTo(c, EventError, errorEvent{Code: code})
}

func marshalEvent(event string, data any) []byte {
	payload, err := json.Marshal(serverEnvelope{Type: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return nil
	}
	return payload
}
