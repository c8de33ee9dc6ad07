package game

// Auction countdown defaults; the opening window is longer than the
// post-bid reset.
const (
	AuctionOpenSeconds = 20
	AuctionBidSeconds  = 10
)

// Auction is the single active sale. TileIDs usually holds one tile but
// supports bundles; resolution transfers the whole set atomically.
type Auction struct {
	TileIDs       []int `json:"tileIds"`
	CurrentBid    int   `json:"currentBid"`
	HighestBidder int   `json:"highestBidder"` // Unowned = nobody yet
	Eligible      []int `json:"eligible"`
	SecondsLeft   int   `json:"secondsLeft"`
	Open          bool  `json:"open"`
}

func (a *Auction) isEligible(playerID int) bool {
	for _, id := range a.Eligible {
		if id == playerID {
			return true
		}
	}
	return false
}

// startAuction opens an auction over the given tiles. The opening bid is
// the combined list price (100 minimum).
func (e *Engine) startAuction(s *State, tileIDs []int) {
	if s.Auction != nil && s.Auction.Open {
		s.logf("Ya hay una subasta en curso.")
		return
	}
	var valid []int
	opening := 0
	for _, id := range tileIDs {
		if id < 0 || id >= len(s.Tiles) {
			continue
		}
		if !e.board.Tile(id).IsProperty() {
			continue
		}
		if s.Tiles[id].Owner != Unowned && s.Tiles[id].Owner != BankOwner {
			continue
		}
		valid = append(valid, id)
		opening += e.board.Tile(id).Price
	}
	if len(valid) == 0 {
		s.logf("Nada que subastar.")
		return
	}
	if opening == 0 {
		opening = 100
	}

	eligible := make([]int, 0, len(s.Players))
	for i := range s.Players {
		if s.Players[i].Alive {
			eligible = append(eligible, s.Players[i].ID)
		}
	}

	s.Auction = &Auction{
		TileIDs:       valid,
		CurrentBid:    opening,
		HighestBidder: Unowned,
		Eligible:      eligible,
		SecondsLeft:   e.auctionOpenSecs,
		Open:          true,
	}
	if len(valid) == 1 {
		s.logf("Subasta abierta: %s desde $%d.", e.board.Tile(valid[0]).Name, opening)
	} else {
		s.logf("Subasta de lote abierta: %d propiedades desde $%d.", len(valid), opening)
	}
}

// bidAuction records a bid. It must strictly exceed the current bid, the
// bidder must still be eligible, and must be able to afford it; each
// accepted bid resets the countdown.
func (e *Engine) bidAuction(s *State, playerID, amount int) {
	a := s.Auction
	if a == nil || !a.Open {
		s.logf("No hay subasta abierta.")
		return
	}
	p := s.player(playerID)
	if p == nil || !p.Alive {
		return
	}
	if !a.isEligible(playerID) {
		s.logf("%s ya no participa en la subasta.", p.Name)
		return
	}
	if amount <= a.CurrentBid {
		s.logf("La puja de %s no supera $%d.", p.Name, a.CurrentBid)
		return
	}
	if p.Cash < amount {
		s.logf("%s no puede cubrir una puja de $%d.", p.Name, amount)
		return
	}
	a.CurrentBid = amount
	a.HighestBidder = playerID
	a.SecondsLeft = e.auctionBidSecs
	s.logf("%s puja $%d.", p.Name, amount)
}

// withdrawAuction removes a bidder; an empty eligible set resolves the
// auction immediately, timer notwithstanding.
func (e *Engine) withdrawAuction(s *State, playerID int) {
	a := s.Auction
	if a == nil || !a.Open {
		return
	}
	kept := a.Eligible[:0]
	for _, id := range a.Eligible {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	a.Eligible = kept
	if p := s.player(playerID); p != nil {
		s.logf("%s se retira de la subasta.", p.Name)
	}
	if len(a.Eligible) == 0 {
		e.resolveAuction(s)
	}
}

// tickAuction advances the countdown one second; zero resolves.
func (e *Engine) tickAuction(s *State) {
	a := s.Auction
	if a == nil || !a.Open {
		return
	}
	if a.SecondsLeft > 0 {
		a.SecondsLeft--
	}
	if a.SecondsLeft == 0 {
		e.resolveAuction(s)
	}
}

// resolveAuction closes the auction and settles it. Resolving when no
// auction exists is a no-op, so duplicate END_AUCTION dispatches and
// stale ticks are harmless.
func (e *Engine) resolveAuction(s *State) {
	a := s.Auction
	if a == nil {
		return
	}
	s.Auction = nil

	winner := s.player(a.HighestBidder)
	if winner == nil || !winner.Alive || winner.Cash < a.CurrentBid {
		if winner != nil {
			s.logf("Subasta anulada: %s ya no puede pagar $%d.", winner.Name, a.CurrentBid)
		} else {
			s.logf("Subasta desierta: sin pujas.")
		}
		return
	}

	winner.Cash -= a.CurrentBid
	s.BankCash += a.CurrentBid
	for _, id := range a.TileIDs {
		s.setOwner(id, winner.ID)
	}
	if len(a.TileIDs) == 1 {
		s.logf("%s gana la subasta de %s por $%d.",
			winner.Name, e.board.Tile(a.TileIDs[0]).Name, a.CurrentBid)
	} else {
		s.logf("%s gana el lote de %d propiedades por $%d.",
			winner.Name, len(a.TileIDs), a.CurrentBid)
	}
}
