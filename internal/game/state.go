package game

import "fmt"

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the active state where cards are played.
	PhasePlaying Phase = "playing"
	// PhaseRoundEnd is the pause between rounds with scores shown.
	PhaseRoundEnd Phase = "round_end"
	// PhaseGameOver is the terminal state after a player crosses the target score.
	PhaseGameOver Phase = "game_over"
)

// WishType distinguishes the two kinds of joker wish.
type WishType string

const (
	WishColor  WishType = "color"
	WishNumber WishType = "number"
)

// Wish is the constraint a joker player attaches to the discard pile.
// Exactly one of Color or Number is meaningful, per Type.
type Wish struct {
	Type   WishType `json:"type"`
	Color  Color    `json:"color,omitempty"`
	Number int      `json:"number,omitempty"`
}

func (w Wish) validate() error {
	switch w.Type {
	case WishColor:
		for _, c := range Colors {
			if w.Color == c {
				return nil
			}
		}
		return fmt.Errorf("%w: cannot wish for color %q", ErrIllegalMove, w.Color)
	case WishNumber:
		if w.Number >= 1 && w.Number <= NumbersPerColor {
			return nil
		}
		return fmt.Errorf("%w: cannot wish for number %d", ErrIllegalMove, w.Number)
	default:
		return fmt.Errorf("%w: unknown wish type %q", ErrIllegalMove, w.Type)
	}
}

// DiscardPile is the single visible top card plus the active wish.
// Wish is nil whenever the top card is not a joker.
type DiscardPile struct {
	TopCard *Card `json:"topCard"`
	Wish    *Wish `json:"wish"`
}

// Display is a player's face-up per-color stacking area. The last element of
// a stack is its visible top card. An exhausted stack is deleted from the
// map, never kept as an empty slice.
type Display struct {
	Stacks map[Color][]Card `json:"stacks"`
}

// NewDisplay returns an empty display.
func NewDisplay() Display {
	return Display{Stacks: make(map[Color][]Card)}
}

// Top returns the visible card of the given color's stack, if any.
func (d Display) Top(color Color) (Card, bool) {
	stack := d.Stacks[color]
	if len(stack) == 0 {
		return Card{}, false
	}
	return stack[len(stack)-1], true
}

// Player holds one seat's state. Seats persist across rounds within a game
// (hand and display reset, score carries) and survive disconnects.
type Player struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Hand      []Card  `json:"hand"`
	Display   Display `json:"display"`
	Score     int     `json:"score"`
	Connected bool    `json:"connected"`
}

// State is the full authoritative game state for one room.
type State struct {
	Phase              Phase       `json:"phase"`
	Players            []*Player   `json:"players"` // index = seat order
	DrawPile           []Card      `json:"drawPile"`
	Discard            DiscardPile `json:"discardPile"`
	CurrentPlayerIndex int         `json:"currentPlayerIndex"`
	RoundNumber        int         `json:"roundNumber"`
	TargetScore        int         `json:"targetScore"`
	HostID             string      `json:"hostId"`
}

// NewState returns an empty lobby-phase state. The first player to join
// becomes host.
func NewState(targetScore int) *State {
	return &State{
		Phase:       PhaseLobby,
		Players:     []*Player{},
		Discard:     DiscardPile{},
		TargetScore: targetScore,
	}
}

// PlayerByID returns the seated player with the given id, with its seat index,
// or nil and -1.
func (s *State) PlayerByID(id string) (*Player, int) {
	for i, p := range s.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}
