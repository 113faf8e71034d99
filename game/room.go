package game

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxPlayers = 2
	TotalRounds       = 5
	RoundTimeLimit    = 60 * time.Second
)

// Player is a roster entry. Roster order is join order.
type Player struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsHost      bool   `json:"isHost"`
}

// GuessResult is appended to the round once scored and never mutated after.
type GuessResult struct {
	PlayerId       string    `json:"playerId"`
	GuessText      string    `json:"guessText"`
	IsExactMatch   bool      `json:"isExactMatch"`
	ResonanceScore int       `json:"resonanceScore"`
	GuessedAt      time.Time `json:"guessedAt"`
}

// PlayerScore accumulates across rounds for the lifetime of the room.
type PlayerScore struct {
	PlayerId        string `json:"playerId"`
	DisplayName     string `json:"displayName"`
	TotalScore      int    `json:"totalScore"`
	CorrectGuesses  int    `json:"correctGuesses"`
	ResonancePoints int    `json:"resonancePoints"`
}

type Round struct {
	Id         string
	Emotion    string
	Category   string
	Difficulty Difficulty
	DrawerId   string
	StartedAt  time.Time
	EndedAt    time.Time
	TimeLimit  time.Duration
	Guesses    []GuessResult
	IsComplete bool
	WinnerId   string
}

type playerScore struct {
	PlayerScore
	joinOrder int
}

type JoinResult struct {
	Rejoined bool
	HostId   string
	Roster   []Player
}

type LeaveResult struct {
	Removed   bool
	NewHostId string
	Empty     bool
	Roster    []Player
}

// RoundStarted carries the opened round. Emotion is for the drawer's private
// message only and must never reach a room-wide broadcast.
type RoundStarted struct {
	RoundId     string
	Emotion     string
	Category    string
	Difficulty  Difficulty
	DrawerId    string
	TimeLimit   int
	RoundNumber int
}

type RoundSummary struct {
	RoundId    string
	Emotion    string
	WasGuessed bool
	WinnerId   string
	Scores     []PlayerScore
	GameOver   bool
}

// RoundView is the round as broadcast to the whole room: no emotion in it.
type RoundView struct {
	RoundId    string        `json:"roundId"`
	Category   string        `json:"category"`
	Difficulty Difficulty    `json:"difficulty"`
	DrawerId   string        `json:"drawerId"`
	TimeLimit  int           `json:"timeLimit"`
	Remaining  int           `json:"remaining"`
	Guesses    []GuessResult `json:"guesses"`
	IsComplete bool          `json:"isComplete"`
	WinnerId   string        `json:"winnerId,omitempty"`
}

type StateSnapshot struct {
	RoomCode    string        `json:"roomCode"`
	HostId      string        `json:"hostId"`
	Roster      []Player      `json:"roster"`
	Started     bool          `json:"started"`
	Round       *RoundView    `json:"round"`
	Scores      []PlayerScore `json:"scores"`
	RoundNumber int           `json:"roundNumber"`
	TotalRounds int           `json:"totalRounds"`
}

// RoomSession owns all mutable state for one room. Every operation runs
// under the session's own lock and never blocks on I/O while holding it;
// callers broadcast from the returned snapshots after the call returns.
type RoomSession struct {
	code       string
	maxPlayers int

	locker      sync.Mutex
	hostId      string
	players     []Player
	scores      map[string]*playerScore
	round       *Round
	roundNumber int
	started     bool
	joinSeq     int
	roundTimer  *time.Timer
	now         func() time.Time
}

func NewRoomSession(code string, maxPlayers int) *RoomSession {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &RoomSession{
		code:       code,
		maxPlayers: maxPlayers,
		scores:     make(map[string]*playerScore),
		now:        time.Now,
	}
}

func (rs *RoomSession) Code() string {
	return rs.code
}

func (rs *RoomSession) Len() int {
	rs.locker.Lock()
	defer rs.locker.Unlock()
	return len(rs.players)
}

// Join adds the player to the roster. A rejoin with the same id is a no-op
// success. The first player to ever join becomes host.
func (rs *RoomSession) Join(playerId, displayName string) (JoinResult, error) {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	for _, p := range rs.players {
		if p.Id == playerId {
			return JoinResult{Rejoined: true, HostId: rs.hostId, Roster: rs.rosterLocked()}, nil
		}
	}

	if len(rs.players) >= rs.maxPlayers {
		return JoinResult{}, ErrRoomFull
	}

	if len(rs.players) == 0 {
		rs.hostId = playerId
	}
	rs.players = append(rs.players, Player{Id: playerId, DisplayName: displayName})

	if _, ok := rs.scores[playerId]; !ok {
		rs.joinSeq++
		rs.scores[playerId] = &playerScore{
			PlayerScore: PlayerScore{PlayerId: playerId, DisplayName: displayName},
			joinOrder:   rs.joinSeq,
		}
	}

	return JoinResult{HostId: rs.hostId, Roster: rs.rosterLocked()}, nil
}

// Leave removes the player. If the host leaves and others remain, the next
// roster entry in join order inherits the room. Empty reports that the caller
// should evict the session from the registry.
func (rs *RoomSession) Leave(playerId string) LeaveResult {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	idx := -1
	for i, p := range rs.players {
		if p.Id == playerId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return LeaveResult{Roster: rs.rosterLocked()}
	}

	rs.players = append(rs.players[:idx], rs.players[idx+1:]...)
	res := LeaveResult{Removed: true}

	if len(rs.players) == 0 {
		rs.stopRoundTimerLocked()
		res.Empty = true
	} else if rs.hostId == playerId {
		rs.hostId = rs.players[0].Id
		res.NewHostId = rs.hostId
	}

	res.Roster = rs.rosterLocked()
	return res
}

func (rs *RoomSession) StartGame(playerId string) error {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	if playerId != rs.hostId {
		return ErrNotHost
	}
	if len(rs.players) < 2 {
		return ErrNotEnoughPlayers
	}
	if rs.started {
		return ErrGameAlreadyStarted
	}

	rs.started = true
	return nil
}

// SelectRound opens a new round with the given catalog word, the caller as
// drawer. Any previous round is superseded and its deadline dropped.
func (rs *RoomSession) SelectRound(drawerId, emotion string) (RoundStarted, error) {
	option, found := FindEmotion(emotion)
	if !found {
		return RoundStarted{}, ErrUnknownWord
	}

	rs.locker.Lock()
	defer rs.locker.Unlock()

	rs.stopRoundTimerLocked()
	rs.roundNumber++
	rs.round = &Round{
		Id:         uuid.NewString(),
		Emotion:    option.Emotion,
		Category:   option.Category,
		Difficulty: option.Difficulty,
		DrawerId:   drawerId,
		StartedAt:  rs.now(),
		TimeLimit:  RoundTimeLimit,
	}

	return RoundStarted{
		RoundId:     rs.round.Id,
		Emotion:     rs.round.Emotion,
		Category:    rs.round.Category,
		Difficulty:  rs.round.Difficulty,
		DrawerId:    drawerId,
		TimeLimit:   int(RoundTimeLimit.Seconds()),
		RoundNumber: rs.roundNumber,
	}, nil
}

// SetRoundTimer hands the session the server-side deadline for the given
// round. If that round is already gone or complete the timer is stopped on
// the spot.
func (rs *RoomSession) SetRoundTimer(roundId string, timer *time.Timer) {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	if rs.round == nil || rs.round.Id != roundId || rs.round.IsComplete {
		timer.Stop()
		return
	}
	rs.roundTimer = timer
}

// SubmitGuess scores the guess and updates the guesser's running totals.
// Returns ok=false (and touches nothing) when there is no open round or the
// caller is the drawer.
func (rs *RoomSession) SubmitGuess(playerId, text string) (GuessResult, bool) {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	if rs.round == nil || rs.round.IsComplete || rs.round.DrawerId == playerId {
		return GuessResult{}, false
	}

	score := ResonanceScore(rs.round.Emotion, text)
	result := GuessResult{
		PlayerId:       playerId,
		GuessText:      text,
		IsExactMatch:   score == 100,
		ResonanceScore: score,
		GuessedAt:      rs.now(),
	}
	rs.round.Guesses = append(rs.round.Guesses, result)

	entry := rs.scoreEntryLocked(playerId)
	entry.ResonancePoints += score

	if result.IsExactMatch {
		entry.CorrectGuesses++
		entry.TotalScore += 100 + score
		rs.round.IsComplete = true
		rs.round.WinnerId = playerId
		rs.round.EndedAt = rs.now()
		rs.stopRoundTimerLocked()
	} else if score > 0 {
		entry.TotalScore += score
	}

	return result, true
}

// EndRound closes the current round. Idempotent: calling it on an already
// complete round returns the same summary again. ok=false only when no round
// was ever opened.
func (rs *RoomSession) EndRound() (RoundSummary, bool) {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	if rs.round == nil {
		return RoundSummary{}, false
	}
	return rs.endRoundLocked(), true
}

// ExpireRound is the deadline path: it only fires for the round it was armed
// for, and only if that round is still open.
func (rs *RoomSession) ExpireRound(roundId string) (RoundSummary, bool) {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	if rs.round == nil || rs.round.Id != roundId || rs.round.IsComplete {
		return RoundSummary{}, false
	}
	return rs.endRoundLocked(), true
}

// ClearCanvas reports whether the requester may clear. Only the round's
// drawer may; everyone else is silently ignored.
func (rs *RoomSession) ClearCanvas(playerId string) bool {
	rs.locker.Lock()
	defer rs.locker.Unlock()
	return rs.round != nil && rs.round.DrawerId == playerId
}

// ScoresSorted returns scores descending by total, ties broken by join order.
func (rs *RoomSession) ScoresSorted() []PlayerScore {
	rs.locker.Lock()
	defer rs.locker.Unlock()
	return rs.scoresSortedLocked()
}

// Snapshot is the room as shown to a (re)joining player. The round view
// never contains the emotion.
func (rs *RoomSession) Snapshot() StateSnapshot {
	rs.locker.Lock()
	defer rs.locker.Unlock()

	snapshot := StateSnapshot{
		RoomCode:    rs.code,
		HostId:      rs.hostId,
		Roster:      rs.rosterLocked(),
		Started:     rs.started,
		Scores:      rs.scoresSortedLocked(),
		RoundNumber: rs.roundNumber,
		TotalRounds: TotalRounds,
	}

	if rs.round != nil {
		remaining := 0
		if !rs.round.IsComplete {
			left := rs.round.TimeLimit - rs.now().Sub(rs.round.StartedAt)
			if left > 0 {
				remaining = int(left.Seconds())
			}
		}
		guesses := make([]GuessResult, len(rs.round.Guesses))
		copy(guesses, rs.round.Guesses)
		snapshot.Round = &RoundView{
			RoundId:    rs.round.Id,
			Category:   rs.round.Category,
			Difficulty: rs.round.Difficulty,
			DrawerId:   rs.round.DrawerId,
			TimeLimit:  int(rs.round.TimeLimit.Seconds()),
			Remaining:  remaining,
			Guesses:    guesses,
			IsComplete: rs.round.IsComplete,
			WinnerId:   rs.round.WinnerId,
		}
	}

	return snapshot
}

func (rs *RoomSession) endRoundLocked() RoundSummary {
	round := rs.round
	if !round.IsComplete {
		round.IsComplete = true
		round.EndedAt = rs.now()
		rs.stopRoundTimerLocked()
	}
	return RoundSummary{
		RoundId:    round.Id,
		Emotion:    round.Emotion,
		WasGuessed: round.WinnerId != "",
		WinnerId:   round.WinnerId,
		Scores:     rs.scoresSortedLocked(),
		GameOver:   rs.roundNumber >= TotalRounds,
	}
}

func (rs *RoomSession) stopRoundTimerLocked() {
	if rs.roundTimer != nil {
		rs.roundTimer.Stop()
		rs.roundTimer = nil
	}
}

func (rs *RoomSession) scoreEntryLocked(playerId string) *playerScore {
	entry, ok := rs.scores[playerId]
	if !ok {
		rs.joinSeq++
		entry = &playerScore{
			PlayerScore: PlayerScore{PlayerId: playerId},
			joinOrder:   rs.joinSeq,
		}
		rs.scores[playerId] = entry
	}
	return entry
}

func (rs *RoomSession) rosterLocked() []Player {
	roster := make([]Player, len(rs.players))
	for i, p := range rs.players {
		p.IsHost = p.Id == rs.hostId
		roster[i] = p
	}
	return roster
}

func (rs *RoomSession) scoresSortedLocked() []PlayerScore {
	entries := make([]*playerScore, 0, len(rs.scores))
	for _, entry := range rs.scores {
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].joinOrder < entries[j].joinOrder
	})

	scores := make([]PlayerScore, len(entries))
	for i, entry := range entries {
		scores[i] = entry.PlayerScore
	}
	return scores
}
