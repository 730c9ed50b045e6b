package room

import (
	"encoding/json"

	"passtnicht/internal/game"
)

// Event is the JSON envelope for outbound websocket messages.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type statePayload struct {
	State game.ClientState `json:"state"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type cardPlayedPayload struct {
	PlayerID string    `json:"playerId"`
	Card     game.Card `json:"card"`
	To       string    `json:"to"` // "discard" or "display"
}

type roundEndedPayload struct {
	Scores []game.RoundScore `json:"scores"`
}

// FinalScore is one seat's standing when a game ends.
type FinalScore struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	TotalScore int    `json:"totalScore"`
}

type gameOverPayload struct {
	WinnerID string       `json:"winnerId"`
	Scores   []FinalScore `json:"scores"`
}

type playerJoinedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

func marshalEvent(typ string, payload any) []byte {
	p, _ := json.Marshal(payload)
	msg, _ := json.Marshal(Event{Type: typ, Payload: p})
	return msg
}

// ErrorMessage builds a private error event for one connection.
func ErrorMessage(message string) []byte {
	return marshalEvent("error", errorPayload{Message: message})
}
