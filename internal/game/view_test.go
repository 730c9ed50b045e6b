package game

import "testing"

func TestClientViewHidesOtherHands(t *testing.T) {
	s := playingState(
		[]Card{tc(ColorRed, 1), tc(ColorBlue, 2)},
		[]Card{tc(ColorGreen, 3)},
	)
	discardTop(s, tc(ColorYellow, 9))
	s.DrawPile = []Card{tc(ColorRed, 4)}
	s.Players[1].Display.Stacks[ColorGreen] = []Card{tc(ColorGreen, 7)}

	view := s.ClientView("p0")

	if view.MyPlayerIndex != 0 {
		t.Fatalf("expected index 0, got %d", view.MyPlayerIndex)
	}
	if len(view.MyHand) != 2 {
		t.Fatalf("expected own hand in full, got %d cards", len(view.MyHand))
	}
	if view.Players[1].HandCount != 1 {
		t.Fatalf("expected hand count 1 for p1, got %d", view.Players[1].HandCount)
	}
	// Opponents expose displays but never hand contents.
	if len(view.Players[1].Display.Stacks[ColorGreen]) != 1 {
		t.Fatal("opponent display must be fully visible")
	}
	if view.DrawPileCount != 1 {
		t.Fatalf("expected draw pile count 1, got %d", view.DrawPileCount)
	}
	if view.Discard.TopCard == nil {
		t.Fatal("discard top must be visible")
	}
}

func TestClientViewForUnseatedViewer(t *testing.T) {
	s := playingState([]Card{tc(ColorRed, 1)}, []Card{tc(ColorBlue, 2)})
	view := s.ClientView("stranger")
	if view.MyPlayerIndex != -1 {
		t.Fatalf("expected -1 for unseated viewer, got %d", view.MyPlayerIndex)
	}
	if len(view.MyHand) != 0 {
		t.Fatal("unseated viewer must not receive a hand")
	}
	if len(view.Players) != 2 {
		t.Fatalf("expected public roster of 2, got %d", len(view.Players))
	}
}
