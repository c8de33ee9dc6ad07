package game

import (
	"math"

	"github.com/artiako/landak-server/internal/board"
)

// Bot trade heuristic weights.
const (
	botBreakMonopolyWeight  = 3.0
	botCompleteGroupWeight  = 2.5
	botPartialGroupWeight   = 1.2
	botAcceptMargin         = 1.1
	botOfferPriceFactor     = 1.5
	botOfferCashCap         = 0.40
	botMaxOfferedTiles      = 2
	botBuyCashReserve       = 200
)

// EvaluateTradeAsBot decides whether the bot on the receiving end of the
// offer should accept it. It weighs what it gives against what it gets,
// pricing monopoly-breaking tiles high and group-completing tiles higher
// than their list value.
func (e *Engine) EvaluateTradeAsBot(s *State, offer TradeOffer) bool {
	bot := s.player(offer.TargetID)
	if bot == nil {
		return false
	}

	giveValue := float64(offer.RequestedCash)
	for _, id := range offer.RequestedTiles {
		giveValue += float64(e.board.Tile(id).Price) * e.giveWeight(s, bot.ID, id)
	}

	getValue := float64(offer.OfferedCash)
	for _, id := range offer.OfferedTiles {
		getValue += float64(e.board.Tile(id).Price) * e.getWeight(s, bot.ID, id)
	}

	return getValue >= giveValue*botAcceptMargin
}

// giveWeight prices a tile the bot would hand over.
func (e *Engine) giveWeight(s *State, botID, tileID int) float64 {
	group := e.board.GroupOf(tileID)
	if len(group) == 0 {
		return 1
	}
	owned := 0
	for _, id := range group {
		if s.Tiles[id].Owner == botID {
			owned++
		}
	}
	switch {
	case owned == len(group) && len(group) >= 2:
		return botBreakMonopolyWeight
	case owned >= 2:
		return botPartialGroupWeight
	}
	return 1
}

// getWeight prices a tile the bot would receive.
func (e *Engine) getWeight(s *State, botID, tileID int) float64 {
	group := e.board.GroupOf(tileID)
	if len(group) == 0 {
		return 1
	}
	ownedOthers := 0
	for _, id := range group {
		if id != tileID && s.Tiles[id].Owner == botID {
			ownedOthers++
		}
	}
	switch {
	case ownedOthers == len(group)-1 && len(group) >= 2:
		return botCompleteGroupWeight
	case ownedOthers >= 1:
		return botPartialGroupWeight
	}
	return 1
}

// BotTradeProposal builds a trade the bot would like to make: it hunts
// for a color group it can complete where the one missing tile sits with
// a single other player, and offers redundant single-held tiles plus a
// cash top-up. Returns nil when no target exists or the bot cannot fund
// the offer.
func (e *Engine) BotTradeProposal(s *State, botID int) *TradeOffer {
	bot := s.player(botID)
	if bot == nil || !bot.Alive {
		return nil
	}

	targetTile, targetOwner := e.findCompletableGroupTarget(s, botID)
	if targetTile < 0 {
		return nil
	}

	offered := e.redundantTiles(s, botID, targetTile, botMaxOfferedTiles)
	offeredValue := 0
	for _, id := range offered {
		offeredValue += e.board.Tile(id).Price
	}

	want := int(math.Floor(float64(e.board.Tile(targetTile).Price) * botOfferPriceFactor))
	cash := want - offeredValue
	if cash < 0 {
		cash = 0
	}
	maxCash := int(math.Floor(float64(bot.Cash) * botOfferCashCap))
	if cash > maxCash {
		cash = maxCash
	}
	if cash == 0 && len(offered) == 0 {
		return nil
	}

	return &TradeOffer{
		InitiatorID:    botID,
		TargetID:       targetOwner,
		OfferedCash:    cash,
		OfferedTiles:   offered,
		RequestedTiles: []int{targetTile},
	}
}

// findCompletableGroupTarget returns a tile that would complete one of
// the bot's color groups and is held by exactly one other player.
func (e *Engine) findCompletableGroupTarget(s *State, botID int) (tileID, ownerID int) {
	for _, tile := range e.board.Tiles() {
		if !tile.IsProperty() || tile.Color == "" || tile.Subtype != board.SubPlain {
			continue
		}
		group := e.board.Group(tile.Color)
		botOwned, missing, missingOwner := 0, -1, -1
		ok := true
		for _, id := range group {
			owner := s.Tiles[id].Owner
			switch {
			case owner == botID:
				botOwned++
			case missing == -1:
				missing, missingOwner = id, owner
			default:
				ok = false
			}
		}
		if !ok || botOwned == 0 || missing == -1 {
			continue
		}
		p := s.player(missingOwner)
		if p == nil || p.IsBot || !p.Alive {
			continue
		}
		return missing, missingOwner
	}
	return -1, -1
}

// redundantTiles returns up to max tiles from groups where the bot holds
// only that single tile, excluding the group it is trying to complete.
func (e *Engine) redundantTiles(s *State, botID, targetTile, max int) []int {
	var out []int
	bot := s.player(botID)
	targetColor := e.board.Tile(targetTile).Color
	for _, id := range bot.OwnedTiles {
		if len(out) >= max {
			break
		}
		if e.board.Tile(id).Color == targetColor {
			continue
		}
		group := e.board.GroupOf(id)
		if len(group) == 0 {
			continue
		}
		owned := 0
		for _, gid := range group {
			if s.Tiles[gid].Owner == botID {
				owned++
			}
		}
		if owned == 1 {
			out = append(out, id)
		}
	}
	return out
}

// botResolve settles the current bot's landing: pay rent it owes, then
// buy the tile it stands on when it is unowned and comfortably
// affordable. Under a left government the bot sometimes holds off,
// fearing expropriation.
func (e *Engine) botResolve(s *State) {
	p := s.current()
	if !p.IsBot {
		s.logf("%s no es un bot.", p.Name)
		return
	}
	tile := e.board.Tile(p.Pos)
	if !tile.IsProperty() {
		return
	}
	ts := s.Tiles[p.Pos]

	if ts.Owner != Unowned && ts.Owner != BankOwner && ts.Owner != p.ID && !ts.Mortgaged {
		e.payRent(s)
		return
	}

	if ts.Owner == Unowned && p.Cash > tile.Price+botBuyCashReserve {
		if s.Government.Type == GovLeft && e.rng.Float64() > 0.5 {
			return
		}
		e.buyProperty(s)
	}
}
