package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"passtnicht/internal/game"
	"passtnicht/internal/room"
)

// Action is the JSON envelope for inbound websocket messages.
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	PlayerID string `json:"playerId"` // optional; omitted on first join
	Name     string `json:"name"`
}

type playToDiscardPayload struct {
	CardID string `json:"cardId"`
	From   string `json:"from"` // "hand" or "display"
}

type playToDisplayPayload struct {
	CardID string `json:"cardId"`
}

type jokerWishPayload struct {
	Wish game.Wish `json:"wish"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	rm, ok := s.manager.Get(code)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for dev
	})
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	// First message must be a join
	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	var msg Action
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "join" {
		conn.Write(ctx, websocket.MessageText, room.ErrorMessage("first message must be a join"))
		return
	}
	var join joinPayload
	if err := json.Unmarshal(msg.Payload, &join); err != nil || join.Name == "" {
		conn.Write(ctx, websocket.MessageText, room.ErrorMessage("invalid join payload"))
		return
	}

	playerID := join.PlayerID
	if playerID == "" {
		// First-time joiners get a fresh identity; they learn it from the
		// projection's myPlayerIndex once seated.
		playerID = uuid.NewString()
	}

	send := make(chan []byte, 64)
	rm.Connect(playerID, send)
	if err := rm.Join(playerID, join.Name); err != nil {
		rm.Disconnect(playerID, send)
		close(send)
		conn.Write(ctx, websocket.MessageText, room.ErrorMessage(err.Error()))
		return
	}

	// Writer goroutine: drain the room's send channel onto the websocket
	go func() {
		for msg := range send {
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	// Reader loop: handle incoming actions
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var msg Action
		if err := json.Unmarshal(data, &msg); err != nil {
			rm.SendError(playerID, "invalid message")
			continue
		}
		s.handleAction(rm, playerID, msg)
	}

	rm.Disconnect(playerID, send)
	close(send)
	log.Info().Str("room", code).Str("player", playerID).Msg("player disconnected")
}

// handleAction dispatches one inbound action. Rejections go back privately
// to the acting connection; the room broadcasts everything else itself.
func (s *Server) handleAction(rm *room.Room, playerID string, msg Action) {
	var err error
	switch msg.Type {
	case "join":
		var p joinPayload
		if jsonErr := json.Unmarshal(msg.Payload, &p); jsonErr != nil || p.Name == "" {
			rm.SendError(playerID, "invalid join payload")
			return
		}
		err = rm.Join(playerID, p.Name)

	case "start_game":
		err = rm.Start(playerID)

	case "play_to_discard":
		var p playToDiscardPayload
		if jsonErr := json.Unmarshal(msg.Payload, &p); jsonErr != nil || p.CardID == "" {
			rm.SendError(playerID, "invalid play payload")
			return
		}
		from := game.Source(p.From)
		if from != game.SourceHand && from != game.SourceDisplay {
			rm.SendError(playerID, "invalid play payload")
			return
		}
		err = rm.PlayToDiscard(playerID, p.CardID, from)

	case "play_to_display":
		var p playToDisplayPayload
		if jsonErr := json.Unmarshal(msg.Payload, &p); jsonErr != nil || p.CardID == "" {
			rm.SendError(playerID, "invalid play payload")
			return
		}
		err = rm.PlayToDisplay(playerID, p.CardID)

	case "joker_wish":
		var p jokerWishPayload
		if jsonErr := json.Unmarshal(msg.Payload, &p); jsonErr != nil {
			rm.SendError(playerID, "invalid wish payload")
			return
		}
		err = rm.JokerWish(playerID, p.Wish)

	case "restart_game":
		err = rm.Restart(playerID)

	default:
		rm.SendError(playerID, "unknown action type: "+msg.Type)
		return
	}

	if err != nil {
		rm.SendError(playerID, err.Error())
	}
}
