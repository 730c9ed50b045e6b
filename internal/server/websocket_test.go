package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"passtnicht/internal/game"
	"passtnicht/internal/room"
)

func wsURL(tsURL, code string) string {
	return strings.Replace(tsURL, "http://", "ws://", 1) + "/api/rooms/" + code + "/ws"
}

func wsDial(ctx context.Context, t *testing.T, tsURL, code string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, wsURL(tsURL, code), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func wsSend(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	p, _ := json.Marshal(payload)
	data, _ := json.Marshal(Action{Type: typ, Payload: p})
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("ws write: %v", err)
	}
}

func wsRead(ctx context.Context, t *testing.T, conn *websocket.Conn) room.Event {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("ws read: %v", err)
	}
	var ev room.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return ev
}

// readUntil skips events until one of the wanted type arrives.
func readUntil(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string) room.Event {
	t.Helper()
	for i := 0; i < 50; i++ {
		ev := wsRead(ctx, t, conn)
		if ev.Type == typ {
			return ev
		}
	}
	t.Fatalf("no %s event within 50 messages", typ)
	return room.Event{}
}

type stateEnvelope struct {
	State game.ClientState `json:"state"`
}

// readState returns the next projection that satisfies ok.
func readState(ctx context.Context, t *testing.T, conn *websocket.Conn, ok func(game.ClientState) bool) game.ClientState {
	t.Helper()
	for i := 0; i < 50; i++ {
		ev := readUntil(ctx, t, conn, "state")
		var env stateEnvelope
		if err := json.Unmarshal(ev.Payload, &env); err != nil {
			t.Fatalf("unmarshal state: %v", err)
		}
		if ok(env.State) {
			return env.State
		}
	}
	t.Fatal("no matching state received")
	return game.ClientState{}
}

func TestWSJoinAndReceiveState(t *testing.T) {
	env := setupTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rm, _ := env.mgr.Create()
	conn := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, conn, "join", joinPayload{PlayerID: "alice", Name: "Alice"})

	state := readState(ctx, t, conn, func(s game.ClientState) bool { return s.MyPlayerIndex == 0 })
	if state.HostID != "alice" {
		t.Fatalf("expected alice as host, got %s", state.HostID)
	}
	if state.Phase != game.PhaseLobby {
		t.Fatalf("expected lobby phase, got %s", state.Phase)
	}
}

func TestWSFirstMessageMustBeJoin(t *testing.T) {
	env := setupTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rm, _ := env.mgr.Create()
	conn := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, conn, "start_game", struct{}{})

	ev := wsRead(ctx, t, conn)
	if ev.Type != "error" {
		t.Fatalf("expected error event, got %s", ev.Type)
	}
}

func TestWSMalformedActionIsPrivateError(t *testing.T) {
	env := setupTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rm, _ := env.mgr.Create()
	conn := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, conn, "join", joinPayload{PlayerID: "alice", Name: "Alice"})
	readState(ctx, t, conn, func(s game.ClientState) bool { return s.MyPlayerIndex == 0 })

	if err := conn.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	ev := readUntil(ctx, t, conn, "error")
	if ev.Type != "error" {
		t.Fatalf("expected error event, got %s", ev.Type)
	}
	// The room is unaffected.
	if got := rm.Info().Phase; got != "lobby" {
		t.Fatalf("malformed input changed the room: %s", got)
	}
}

func TestWSUnknownJoinAfterStartRejected(t *testing.T) {
	env := setupTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rm, _ := env.mgr.Create()
	alice := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, alice, "join", joinPayload{PlayerID: "alice", Name: "Alice"})
	bob := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, bob, "join", joinPayload{PlayerID: "bob", Name: "Bob"})
	readState(ctx, t, alice, func(s game.ClientState) bool { return len(s.Players) == 2 })

	wsSend(ctx, t, alice, "start_game", struct{}{})
	readState(ctx, t, alice, func(s game.ClientState) bool { return s.Phase == game.PhasePlaying })

	carol := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, carol, "join", joinPayload{PlayerID: "carol", Name: "Carol"})
	ev := readUntil(ctx, t, carol, "error")
	if ev.Type != "error" {
		t.Fatalf("expected error for stranger joining mid-game, got %s", ev.Type)
	}
}

func TestWSFullGameFlow(t *testing.T) {
	env := setupTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rm, _ := env.mgr.Create()
	alice := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, alice, "join", joinPayload{PlayerID: "alice", Name: "Alice"})
	bob := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, bob, "join", joinPayload{PlayerID: "bob", Name: "Bob"})
	readState(ctx, t, alice, func(s game.ClientState) bool { return len(s.Players) == 2 })

	wsSend(ctx, t, alice, "start_game", struct{}{})
	state := readState(ctx, t, alice, func(s game.ClientState) bool { return s.Phase == game.PhasePlaying })

	if len(state.MyHand) != 5 {
		t.Fatalf("expected 5 cards dealt, got %d", len(state.MyHand))
	}
	if state.Players[1].HandCount != 5 {
		t.Fatalf("expected opponent count 5, got %d", state.Players[1].HandCount)
	}
	if state.Discard.TopCard == nil || state.Discard.TopCard.IsJoker() {
		t.Fatalf("expected a non-joker opening card, got %+v", state.Discard.TopCard)
	}

	// Alice opens round 1. Discard a matching non-joker if she has one,
	// otherwise build her display; either way a card_played must reach bob.
	top := state.Discard.TopCard
	var discardable *game.Card
	for i, c := range state.MyHand {
		if !c.IsJoker() && (c.Color == top.Color || c.Number == top.Number) {
			discardable = &state.MyHand[i]
			break
		}
	}
	if discardable != nil {
		wsSend(ctx, t, alice, "play_to_discard", playToDiscardPayload{CardID: discardable.ID, From: "hand"})
	} else {
		for _, c := range state.MyHand {
			if !c.IsJoker() {
				wsSend(ctx, t, alice, "play_to_display", playToDisplayPayload{CardID: c.ID})
				break
			}
		}
	}

	ev := readUntil(ctx, t, bob, "card_played")
	var cp struct {
		PlayerID string    `json:"playerId"`
		Card     game.Card `json:"card"`
	}
	if err := json.Unmarshal(ev.Payload, &cp); err != nil {
		t.Fatalf("unmarshal card_played: %v", err)
	}
	if cp.PlayerID != "alice" {
		t.Fatalf("expected alice's play, got %s", cp.PlayerID)
	}

	bobState := readState(ctx, t, bob, func(s game.ClientState) bool { return s.CurrentPlayerIndex == 1 })
	if bobState.MyPlayerIndex != 1 {
		t.Fatalf("expected bob at seat 1, got %d", bobState.MyPlayerIndex)
	}
}

func TestWSReconnectKeepsSeat(t *testing.T) {
	env := setupTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rm, _ := env.mgr.Create()
	conn := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, conn, "join", joinPayload{PlayerID: "alice", Name: "Alice"})
	readState(ctx, t, conn, func(s game.ClientState) bool { return s.MyPlayerIndex == 0 })
	conn.Close(websocket.StatusNormalClosure, "")

	conn2 := wsDial(ctx, t, env.ts.URL, rm.Code)
	wsSend(ctx, t, conn2, "join", joinPayload{PlayerID: "alice", Name: "Alicia"})
	state := readState(ctx, t, conn2, func(s game.ClientState) bool {
		return s.MyPlayerIndex == 0 && s.Players[0].Name == "Alicia"
	})
	if len(state.Players) != 1 {
		t.Fatalf("expected exactly one seat after reconnect, got %d", len(state.Players))
	}
}
