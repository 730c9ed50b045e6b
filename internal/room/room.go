package room

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"passtnicht/internal/game"
	"passtnicht/internal/storage"
)

// MaxPlayers is the seat limit per room.
const MaxPlayers = 6

// Session-level rejections, reported privately to the offending connection.
var (
	// ErrNotHost means a non-host attempted a host-only action.
	ErrNotHost = errors.New("only the host can do that")
	// ErrRoomFull means a seventh player tried to join.
	ErrRoomFull = errors.New("room is full (max 6 players)")
	// ErrGameInProgress means an unknown player tried to enter after the
	// game started, or the host tried to start twice.
	ErrGameInProgress = errors.New("game already in progress")
	// ErrNeedMorePlayers means the host tried to start alone.
	ErrNeedMorePlayers = errors.New("need at least 2 players")
)

// Room owns one game's authoritative state and its attached connections.
// Every handler serializes on the room mutex, so no two actions ever apply
// to the same base state concurrently.
type Room struct {
	mu    sync.Mutex
	Code  string
	state *game.State
	conns map[string]chan []byte // playerID -> outbound buffer
	store *storage.Store
}

// New creates an empty lobby-phase room. store may be nil; then finished
// games are not recorded.
func New(code string, targetScore int, store *storage.Store) *Room {
	return &Room{
		Code:  code,
		state: game.NewState(targetScore),
		conns: make(map[string]chan []byte),
		store: store,
	}
}

// Connect attaches a connection's send channel for the given player id. A
// seated player is marked connected again; an unseated one just watches
// until they join. The fresh view always goes out to the new connection.
func (r *Room) Connect(playerID string, send chan []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[playerID] = send
	if p, _ := r.state.PlayerByID(playerID); p != nil {
		p.Connected = true
		r.broadcastState()
		return
	}
	r.sendTo(playerID, marshalEvent("state", statePayload{State: r.state.ClientView(playerID)}))
}

// Disconnect detaches a connection. The seat survives: only the connectivity
// flag flips, and turn-skipping is the sole accommodation. The send channel
// identifies the connection, so a stale socket closing after a reconnect
// does not knock the fresh one out.
func (r *Room) Disconnect(playerID string, send chan []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[playerID]; !ok || cur != send {
		return
	}
	delete(r.conns, playerID)
	if p, _ := r.state.PlayerByID(playerID); p != nil {
		p.Connected = false
		r.broadcastState()
	}
}

// Join seats a new player while in the lobby, updates the name of an already
// seated one, or reconnects a known seat after the game has started. The
// first joiner becomes host.
func (r *Room) Join(playerID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	if s.HostID == "" {
		s.HostID = playerID
	}

	if s.Phase != game.PhaseLobby {
		// Known seats may reconnect; the room is closed to new entrants.
		if p, _ := s.PlayerByID(playerID); p != nil {
			p.Connected = true
			p.Name = name
			r.broadcastState()
			return nil
		}
		return ErrGameInProgress
	}

	if p, _ := s.PlayerByID(playerID); p != nil {
		// Already seated: a repeat join just updates the name.
		p.Name = name
		r.broadcastState()
		return nil
	}

	if len(s.Players) >= MaxPlayers {
		return ErrRoomFull
	}

	s.Players = append(s.Players, &game.Player{
		ID:        playerID,
		Name:      name,
		Display:   game.NewDisplay(),
		Connected: true,
	})
	log.Info().Str("room", r.Code).Str("player", playerID).Str("name", name).Msg("player joined")

	r.broadcast(marshalEvent("player_joined", playerJoinedPayload{PlayerID: playerID, Name: name}))
	r.broadcastState()
	return nil
}

// Start begins the first round. Host only, lobby only, two players minimum.
func (r *Room) Start(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	if playerID != s.HostID {
		return ErrNotHost
	}
	if s.Phase != game.PhaseLobby {
		return ErrGameInProgress
	}
	if len(s.Players) < 2 {
		return ErrNeedMorePlayers
	}

	s.StartRound()
	log.Info().Str("room", r.Code).Int("round", s.RoundNumber).Msg("round started")
	r.broadcastState()
	return nil
}

// Restart deals the next round from round_end (scores carry over) or begins
// a fresh game from game_over (scores and round counter reset). Host only.
func (r *Room) Restart(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	if playerID != s.HostID {
		return ErrNotHost
	}
	switch s.Phase {
	case game.PhaseRoundEnd:
		s.StartRound()
	case game.PhaseGameOver:
		for _, p := range s.Players {
			p.Score = 0
		}
		s.RoundNumber = 0
		s.StartRound()
	default:
		return game.ErrWrongPhase
	}

	log.Info().Str("room", r.Code).Int("round", s.RoundNumber).Msg("round started")
	r.broadcastState()
	return nil
}

// PlayToDiscard applies a discard play and broadcasts its consequences:
// the card event, then round_ended or game_over when the hand emptied, then
// the refreshed per-player views.
func (r *Room) PlayToDiscard(playerID, cardID string, from game.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.state.PlayToDiscard(playerID, cardID, from)
	if err != nil {
		return err
	}

	r.broadcast(marshalEvent("card_played", cardPlayedPayload{PlayerID: playerID, Card: res.Card, To: "discard"}))

	if res.RoundOver {
		if res.GameOver {
			r.finishGame()
		} else {
			r.broadcast(marshalEvent("round_ended", roundEndedPayload{Scores: res.RoundScores}))
		}
	}

	r.broadcastState()
	return nil
}

// PlayToDisplay applies a display play and broadcasts the card event plus
// refreshed views.
func (r *Room) PlayToDisplay(playerID, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.state.PlayToDisplay(playerID, cardID)
	if err != nil {
		return err
	}

	r.broadcast(marshalEvent("card_played", cardPlayedPayload{PlayerID: playerID, Card: res.Card, To: "display"}))
	r.broadcastState()
	return nil
}

// JokerWish resolves a played joker's wish and releases the turn.
func (r *Room) JokerWish(playerID string, wish game.Wish) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.state.ApplyJokerWish(playerID, wish); err != nil {
		return err
	}
	r.broadcastState()
	return nil
}

// finishGame broadcasts the final standings and records them. Caller holds
// the lock.
func (r *Room) finishGame() {
	s := r.state
	winner := s.Winner()
	scores := make([]FinalScore, len(s.Players))
	for i, p := range s.Players {
		scores[i] = FinalScore{PlayerID: p.ID, Name: p.Name, TotalScore: p.Score}
	}
	r.broadcast(marshalEvent("game_over", gameOverPayload{WinnerID: winner.ID, Scores: scores}))
	log.Info().Str("room", r.Code).Str("winner", winner.ID).Int("rounds", s.RoundNumber).Msg("game over")

	if r.store == nil {
		return
	}
	scoresJSON, _ := json.Marshal(scores)
	err := r.store.RecordResult(storage.ResultRow{
		RoomCode:   r.Code,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Rounds:     s.RoundNumber,
		ScoresJSON: string(scoresJSON),
	})
	if err != nil {
		log.Error().Err(err).Str("room", r.Code).Msg("record result")
	}
}

// broadcastState recomputes and sends each attached connection its own
// projection. Never a shared payload: hand contents differ per viewer.
// Caller holds the lock.
func (r *Room) broadcastState() {
	for playerID := range r.conns {
		r.sendTo(playerID, marshalEvent("state", statePayload{State: r.state.ClientView(playerID)}))
	}
}

// broadcast sends the same event to every attached connection. Caller holds
// the lock.
func (r *Room) broadcast(msg []byte) {
	for playerID := range r.conns {
		r.sendTo(playerID, msg)
	}
}

func (r *Room) sendTo(playerID string, msg []byte) {
	send, ok := r.conns[playerID]
	if !ok {
		return
	}
	select {
	case send <- msg:
	default:
		// drop message if buffer full; a slow connection must not stall the room
	}
}

// SendError delivers a private error event to one connection, if attached.
func (r *Room) SendError(playerID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendTo(playerID, ErrorMessage(message))
}

// Info is a public room summary for the HTTP API.
type Info struct {
	Code        string   `json:"code"`
	Phase       string   `json:"phase"`
	Players     []string `json:"players"`
	HostID      string   `json:"hostId"`
	RoundNumber int      `json:"roundNumber"`
}

// Info returns the room summary.
func (r *Room) Info() Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.state.Players))
	for i, p := range r.state.Players {
		names[i] = p.Name
	}
	return Info{
		Code:        r.Code,
		Phase:       string(r.state.Phase),
		Players:     names,
		HostID:      r.state.HostID,
		RoundNumber: r.state.RoundNumber,
	}
}

// ConnCount reports how many connections are attached.
func (r *Room) ConnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
