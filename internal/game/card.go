package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Color is a card color. Jokers carry ColorJoker and number 0.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorJoker  Color = "joker"
)

// Colors lists the four playable colors, excluding joker.
var Colors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

const (
	// NumbersPerColor is the highest card number; cards run 1..NumbersPerColor.
	NumbersPerColor = 10
	// CopiesPerCard is how many copies of each (color, number) pair the deck holds.
	CopiesPerCard = 2
	// JokerCount is the number of jokers in the deck.
	JokerCount = 4
	// DeckSize is the full deck: 4 colors x 10 numbers x 2 copies + 4 jokers.
	DeckSize = 4*NumbersPerColor*CopiesPerCard + JokerCount
)

// Card is a single immutable playing card. Identity is stable for the
// lifetime of one round; only the container a card sits in ever changes.
type Card struct {
	ID     string `json:"id"`
	Color  Color  `json:"color"`
	Number int    `json:"number"` // 1..10, or 0 for jokers
}

// IsJoker reports whether the card is one of the four jokers.
func (c Card) IsJoker() bool {
	return c.Color == ColorJoker
}

// NewDeck returns the canonical 84-card deck with fresh unique ids.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, color := range Colors {
		for n := 1; n <= NumbersPerColor; n++ {
			for i := 0; i < CopiesPerCard; i++ {
				deck = append(deck, Card{ID: uuid.NewString(), Color: color, Number: n})
			}
		}
	}
	for i := 0; i < JokerCount; i++ {
		deck = append(deck, Card{ID: uuid.NewString(), Color: ColorJoker})
	}
	return deck
}

// ShuffleDeck returns a uniformly shuffled copy of the given deck.
func ShuffleDeck(deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
