package game

// PublicPlayer is what everyone can see about a seat: hand count instead of
// hand contents. Displays are face-up by rule.
type PublicPlayer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	HandCount int     `json:"handCount"`
	Display   Display `json:"display"`
	Score     int     `json:"score"`
	Connected bool    `json:"connected"`
}

// ClientState is the per-viewer projection of the authoritative state: the
// viewer's own hand and display in full, everyone else reduced to their
// public shape. Derived fresh on every broadcast, never stored.
type ClientState struct {
	Phase              Phase          `json:"phase"`
	Players            []PublicPlayer `json:"players"`
	MyHand             []Card         `json:"myHand"`
	MyDisplay          Display        `json:"myDisplay"`
	Discard            DiscardPile    `json:"discardPile"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	MyPlayerIndex      int            `json:"myPlayerIndex"`
	RoundNumber        int            `json:"roundNumber"`
	TargetScore        int            `json:"targetScore"`
	DrawPileCount      int            `json:"drawPileCount"`
	HostID             string         `json:"hostId"`
}

// ClientView projects the state for one viewer. A viewer with no seat gets
// MyPlayerIndex -1 and an empty hand, which lets late websockets watch the
// lobby.
func (s *State) ClientView(playerID string) ClientState {
	me, myIdx := s.PlayerByID(playerID)

	players := make([]PublicPlayer, len(s.Players))
	for i, p := range s.Players {
		players[i] = PublicPlayer{
			ID:        p.ID,
			Name:      p.Name,
			HandCount: len(p.Hand),
			Display:   p.Display,
			Score:     p.Score,
			Connected: p.Connected,
		}
	}

	view := ClientState{
		Phase:              s.Phase,
		Players:            players,
		MyDisplay:          NewDisplay(),
		Discard:            s.Discard,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		MyPlayerIndex:      myIdx,
		RoundNumber:        s.RoundNumber,
		TargetScore:        s.TargetScore,
		DrawPileCount:      len(s.DrawPile),
		HostID:             s.HostID,
	}
	if me != nil {
		view.MyHand = me.Hand
		view.MyDisplay = me.Display
	}
	return view
}
