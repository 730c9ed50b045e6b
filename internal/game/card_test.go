package game

import "testing"

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}

	ids := make(map[string]bool)
	counts := make(map[Card]int) // keyed by (color, number) with ID zeroed
	jokers := 0
	for _, c := range deck {
		if ids[c.ID] {
			t.Fatalf("duplicate card id %s", c.ID)
		}
		ids[c.ID] = true
		if c.IsJoker() {
			jokers++
			if c.Number != 0 {
				t.Fatalf("joker with number %d", c.Number)
			}
			continue
		}
		counts[Card{Color: c.Color, Number: c.Number}]++
	}

	if jokers != JokerCount {
		t.Fatalf("expected %d jokers, got %d", JokerCount, jokers)
	}
	for _, color := range Colors {
		for n := 1; n <= NumbersPerColor; n++ {
			if got := counts[Card{Color: color, Number: n}]; got != CopiesPerCard {
				t.Fatalf("expected %d copies of %s %d, got %d", CopiesPerCard, color, n, got)
			}
		}
	}
}

func TestNewDeckFreshIDs(t *testing.T) {
	a, b := NewDeck(), NewDeck()
	seen := make(map[string]bool, len(a))
	for _, c := range a {
		seen[c.ID] = true
	}
	for _, c := range b {
		if seen[c.ID] {
			t.Fatalf("id %s reused across deck constructions", c.ID)
		}
	}
}

func TestShuffleDeckDoesNotMutate(t *testing.T) {
	deck := NewDeck()
	orig := make([]Card, len(deck))
	copy(orig, deck)

	shuffled := ShuffleDeck(deck)

	for i := range deck {
		if deck[i] != orig[i] {
			t.Fatalf("ShuffleDeck mutated its input at %d", i)
		}
	}
	if len(shuffled) != len(deck) {
		t.Fatalf("expected %d cards after shuffle, got %d", len(deck), len(shuffled))
	}
	// Same multiset of ids
	ids := make(map[string]int)
	for _, c := range deck {
		ids[c.ID]++
	}
	for _, c := range shuffled {
		ids[c.ID]--
	}
	for id, n := range ids {
		if n != 0 {
			t.Fatalf("shuffle is not a permutation: id %s off by %d", id, n)
		}
	}
}
