package game

import (
	"fmt"
	"math/rand"
)

// Source names the container a discard play takes its card from.
type Source string

const (
	SourceHand    Source = "hand"
	SourceDisplay Source = "display"
)

const handSize = 5

// jokerHandPenalty is what an unplayed joker costs at round end. Higher than
// its discard value of 0, so holding one is a risk.
const jokerHandPenalty = 5

// RoundScore is one player's outcome of a finished round.
type RoundScore struct {
	PlayerID    string `json:"playerId"`
	RoundPoints int    `json:"roundPoints"`
	TotalScore  int    `json:"totalScore"`
}

// PlayResult reports what a successful play transition did.
type PlayResult struct {
	Card        Card
	NeedsWish   bool         // a joker landed on the discard pile and awaits its wish
	RoundOver   bool         // the play emptied the acting player's hand
	GameOver    bool         // round end pushed a score past the target
	RoundScores []RoundScore // set when RoundOver
}

// StartRound deals a fresh shuffled deck and enters the playing phase.
// Every player's hand and display are reset; scores carry over. The caller
// guarantees at least two seated players.
func (s *State) StartRound() {
	deck := ShuffleDeck(NewDeck())

	for _, p := range s.Players {
		p.Hand = nil
		p.Display = NewDisplay()
	}

	// Deal 5 cards round-robin starting from seat 0.
	idx := 0
	for i := 0; i < handSize; i++ {
		for _, p := range s.Players {
			p.Hand = append(p.Hand, deck[idx])
			idx++
		}
	}
	draw := deck[idx:]

	// The opening discard card may not be a joker. A drawn joker goes back
	// into the remaining deck at a random later position and we draw again.
	top := draw[0]
	draw = draw[1:]
	for top.IsJoker() {
		at := rand.Intn(len(draw) + 1)
		draw = append(draw[:at], append([]Card{top}, draw[at:]...)...)
		top = draw[0]
		draw = draw[1:]
	}

	s.Phase = PhasePlaying
	s.DrawPile = draw
	s.Discard = DiscardPile{TopCard: &top}
	s.CurrentPlayerIndex = s.RoundNumber % len(s.Players)
	s.RoundNumber++
}

// CardMatchesDiscard is the legal-play predicate: may card be placed on a
// pile whose visible top is top with the given active wish?
func CardMatchesDiscard(card Card, top *Card, wish *Wish) bool {
	if top == nil {
		return true // empty pile, anything goes
	}
	if card.IsJoker() {
		return true // jokers are wild
	}

	// An active wish replaces matching against the physical top card.
	if wish != nil {
		switch wish.Type {
		case WishColor:
			return card.Color == wish.Color
		case WishNumber:
			return card.Number == wish.Number
		}
	}

	if top.IsJoker() {
		// Joker on top with no wish resolved yet: nothing matches. The
		// controller flow keeps the joker player in control until the wish
		// is set, so this is only reachable by that same player.
		return false
	}
	return card.Color == top.Color || card.Number == top.Number
}

// PlayableCards returns, for client hinting, the cards the player could
// legally discard right now: from their hand, and from the tops of their
// display stacks. Advisory only; PlayToDiscard re-checks.
func (s *State) PlayableCards(playerID string) (fromHand, fromDisplay []Card) {
	p, _ := s.PlayerByID(playerID)
	if p == nil {
		return nil, nil
	}
	top, wish := s.Discard.TopCard, s.Discard.Wish
	for _, c := range p.Hand {
		if CardMatchesDiscard(c, top, wish) {
			fromHand = append(fromHand, c)
		}
	}
	for _, color := range Colors {
		if c, ok := p.Display.Top(color); ok && CardMatchesDiscard(c, top, wish) {
			fromDisplay = append(fromDisplay, c)
		}
	}
	return fromHand, fromDisplay
}

// PlayToDiscard moves the named card from the player's hand or display onto
// the discard pile. A play that empties the hand ends the round; a joker play
// leaves the acting player in control until they submit a wish.
func (s *State) PlayToDiscard(playerID, cardID string, from Source) (PlayResult, error) {
	p, idx := s.PlayerByID(playerID)
	if p == nil {
		return PlayResult{}, ErrInvalidPlayer
	}
	if idx != s.CurrentPlayerIndex {
		return PlayResult{}, ErrOutOfTurn
	}
	if s.Phase != PhasePlaying {
		return PlayResult{}, ErrWrongPhase
	}

	// Locate the card before touching anything so rejections stay
	// side-effect-free.
	var card Card
	handIdx := -1
	var stackColor Color
	switch from {
	case SourceDisplay:
		found := false
		for color, stack := range p.Display.Stacks {
			if top := stack[len(stack)-1]; top.ID == cardID {
				card, stackColor, found = top, color, true
				break
			}
		}
		if !found {
			return PlayResult{}, fmt.Errorf("%w: card not on top of any display stack", ErrCardNotFound)
		}
	default:
		for i, c := range p.Hand {
			if c.ID == cardID {
				card, handIdx = c, i
				break
			}
		}
		if handIdx == -1 {
			return PlayResult{}, fmt.Errorf("%w: card not in hand", ErrCardNotFound)
		}
	}

	if !CardMatchesDiscard(card, s.Discard.TopCard, s.Discard.Wish) {
		return PlayResult{}, fmt.Errorf("%w: card does not match the discard pile", ErrIllegalMove)
	}

	if from == SourceDisplay {
		stack := p.Display.Stacks[stackColor]
		if len(stack) == 1 {
			delete(p.Display.Stacks, stackColor)
		} else {
			p.Display.Stacks[stackColor] = stack[:len(stack)-1]
		}
	} else {
		p.Hand = append(p.Hand[:handIdx], p.Hand[handIdx+1:]...)
	}

	s.Discard = DiscardPile{TopCard: &card}
	res := PlayResult{Card: card}

	if len(p.Hand) == 0 {
		// Round over. The turn index stays where it is.
		res.RoundOver = true
		res.RoundScores = s.endRound()
		res.GameOver = s.Phase == PhaseGameOver
		return res, nil
	}

	if card.IsJoker() {
		// The player keeps the turn until the wish arrives.
		res.NeedsWish = true
		return res, nil
	}

	s.CurrentPlayerIndex = s.nextPlayerIndex()
	return res, nil
}

// PlayToDisplay moves the named card from the player's hand onto its color's
// display stack and replenishes the hand from the draw pile if possible.
// Always advances the turn.
func (s *State) PlayToDisplay(playerID, cardID string) (PlayResult, error) {
	p, idx := s.PlayerByID(playerID)
	if p == nil {
		return PlayResult{}, ErrInvalidPlayer
	}
	if idx != s.CurrentPlayerIndex {
		return PlayResult{}, ErrOutOfTurn
	}
	if s.Phase != PhasePlaying {
		return PlayResult{}, ErrWrongPhase
	}

	handIdx := -1
	var card Card
	for i, c := range p.Hand {
		if c.ID == cardID {
			card, handIdx = c, i
			break
		}
	}
	if handIdx == -1 {
		return PlayResult{}, fmt.Errorf("%w: card not in hand", ErrCardNotFound)
	}
	if card.IsJoker() {
		// The display is keyed by color and jokers have none.
		return PlayResult{}, fmt.Errorf("%w: jokers cannot be placed in your display", ErrIllegalMove)
	}

	p.Hand = append(p.Hand[:handIdx], p.Hand[handIdx+1:]...)
	p.Display.Stacks[card.Color] = append(p.Display.Stacks[card.Color], card)

	if len(s.DrawPile) > 0 {
		p.Hand = append(p.Hand, s.DrawPile[0])
		s.DrawPile = s.DrawPile[1:]
	}

	s.CurrentPlayerIndex = s.nextPlayerIndex()
	return PlayResult{Card: card}, nil
}

// ApplyJokerWish sets the wish for a freshly played joker and releases the
// turn. Only the player who played the joker can reach this: they still hold
// the turn index.
func (s *State) ApplyJokerWish(playerID string, wish Wish) error {
	p, idx := s.PlayerByID(playerID)
	if p == nil {
		return ErrInvalidPlayer
	}
	if idx != s.CurrentPlayerIndex {
		return ErrOutOfTurn
	}
	if s.Phase != PhasePlaying {
		return ErrWrongPhase
	}
	if s.Discard.TopCard == nil || !s.Discard.TopCard.IsJoker() {
		return ErrNoActiveJoker
	}
	if err := wish.validate(); err != nil {
		return err
	}

	w := wish
	s.Discard.Wish = &w
	s.CurrentPlayerIndex = s.nextPlayerIndex()
	return nil
}

// endRound scores every player and moves the game to round_end, or game_over
// if someone crossed the target. Display cards count for, hand cards against.
func (s *State) endRound() []RoundScore {
	scores := make([]RoundScore, len(s.Players))
	gameOver := false
	for i, p := range s.Players {
		delta := 0
		for _, stack := range p.Display.Stacks {
			for _, c := range stack {
				delta += c.Number // jokers are 0 and never stack here anyway
			}
		}
		for _, c := range p.Hand {
			if c.IsJoker() {
				delta -= jokerHandPenalty
			} else {
				delta -= c.Number
			}
		}
		p.Score += delta
		scores[i] = RoundScore{PlayerID: p.ID, RoundPoints: delta, TotalScore: p.Score}
		if p.Score >= s.TargetScore {
			gameOver = true
		}
	}

	if gameOver {
		s.Phase = PhaseGameOver
	} else {
		s.Phase = PhaseRoundEnd
	}
	return scores
}

// Winner returns the seat with the strictly highest cumulative score, ties
// broken by seat order. Meaningful once the game is over.
func (s *State) Winner() *Player {
	var best *Player
	for _, p := range s.Players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

// nextPlayerIndex walks forward from the current seat, skipping disconnected
// players. If every other seat is disconnected the turn stays put.
func (s *State) nextPlayerIndex() int {
	n := len(s.Players)
	next := (s.CurrentPlayerIndex + 1) % n
	for i := 0; i < n; i++ {
		if s.Players[next].Connected {
			return next
		}
		next = (next + 1) % n
	}
	return s.CurrentPlayerIndex
}
