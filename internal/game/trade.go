package game

// TradeOffer is the single in-flight bilateral proposal. Proposing while
// one is open overwrites it; there is no queue.
type TradeOffer struct {
	InitiatorID    int   `json:"initiatorId"`
	TargetID       int   `json:"targetId"`
	OfferedCash    int   `json:"offeredCash"`
	OfferedTiles   []int `json:"offeredTiles"`
	RequestedCash  int   `json:"requestedCash"`
	RequestedTiles []int `json:"requestedTiles"`
	Open           bool  `json:"open"`
}

// proposeTrade installs (or overwrites) the trade slot.
func (e *Engine) proposeTrade(s *State, offer TradeOffer) {
	init := s.player(offer.InitiatorID)
	target := s.player(offer.TargetID)
	if init == nil || target == nil || !init.Alive || !target.Alive {
		s.logf("Propuesta de trato inválida.")
		return
	}
	if offer.InitiatorID == offer.TargetID {
		s.logf("No puedes comerciar contigo mismo.")
		return
	}
	offer.Open = true
	s.Trade = &offer
	s.logf("%s propone un trato a %s.", init.Name, target.Name)
}

// acceptTrade applies the open trade as one atomic four-part transfer.
// Everything is revalidated at accept time: both sides must still own
// every listed tile and neither balance may go negative. Any violation
// turns the accept into a logged no-op with the offer left open.
func (e *Engine) acceptTrade(s *State) {
	t := s.Trade
	if t == nil || !t.Open {
		s.logf("No hay trato que aceptar.")
		return
	}
	init := s.player(t.InitiatorID)
	target := s.player(t.TargetID)
	if init == nil || target == nil || !init.Alive || !target.Alive {
		s.Trade = nil
		s.logf("Trato descartado: participante no disponible.")
		return
	}

	for _, id := range t.OfferedTiles {
		if !s.ownsTile(t.InitiatorID, id) {
			s.logf("Trato rechazado: %s ya no posee %s.", init.Name, e.board.Tile(id).Name)
			return
		}
	}
	for _, id := range t.RequestedTiles {
		if !s.ownsTile(t.TargetID, id) {
			s.logf("Trato rechazado: %s ya no posee %s.", target.Name, e.board.Tile(id).Name)
			return
		}
	}
	if init.Cash-t.OfferedCash+t.RequestedCash < 0 {
		s.logf("Trato rechazado: %s quedaría en números rojos.", init.Name)
		return
	}
	if target.Cash-t.RequestedCash+t.OfferedCash < 0 {
		s.logf("Trato rechazado: %s quedaría en números rojos.", target.Name)
		return
	}

	init.Cash += t.RequestedCash - t.OfferedCash
	target.Cash += t.OfferedCash - t.RequestedCash
	for _, id := range t.OfferedTiles {
		s.setOwner(id, t.TargetID)
	}
	for _, id := range t.RequestedTiles {
		s.setOwner(id, t.InitiatorID)
	}
	s.Trade = nil
	s.logf("Trato aceptado entre %s y %s.", init.Name, target.Name)
}

// rejectTrade discards the open trade with no state change.
func (e *Engine) rejectTrade(s *State) {
	if s.Trade == nil {
		return
	}
	s.Trade = nil
	s.logf("Trato rechazado.")
}
