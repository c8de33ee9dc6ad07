package game

import (
	"fmt"
	"math"

	"github.com/artiako/landak-server/internal/board"
)

// startGame seats the roster and opens play. Player IDs are the roster
// indexes: humans first in the order given, bots after.
func (e *Engine) startGame(s *State, humans []HumanSeat, bots int) {
	if s.Started {
		s.logf("La partida ya está en marcha.")
		return
	}
	if len(humans)+bots < 2 {
		s.logf("Hacen falta al menos dos jugadores.")
		return
	}

	for _, h := range humans {
		g := h.Gender
		if g == "" {
			g = GenderMale
		}
		s.Players = append(s.Players, Player{
			ID:     len(s.Players),
			Name:   h.Name,
			Cash:   e.startingCash,
			Alive:  true,
			Role:   RoleCivil,
			Gender: g,
		})
	}
	for i := 0; i < bots; i++ {
		s.Players = append(s.Players, Player{
			ID:     len(s.Players),
			Name:   fmt.Sprintf("Bot %d", i+1),
			Cash:   e.startingCash,
			Alive:  true,
			IsBot:  true,
			Role:   RoleCivil,
			Gender: GenderMale,
		})
	}

	s.Government = Government{
		Type:      allGovernments[e.rng.Intn(len(allGovernments))],
		TurnsLeft: e.governmentTerm,
	}
	s.Government.Config = ConfigFor(s.Government.Type)

	s.Started = true
	s.CurrentPlayer = 0
	s.logf("Gobierno inicial: %s.", s.Government.Type)
	s.logf("Partida iniciada con %d jugadores.", len(s.Players))
}

// rollDice rolls (or takes injected dice), resolves jail, moves the
// current player and fires the landing effect of the destination tile.
func (e *Engine) rollDice(s *State, injected *[2]int) {
	if !s.Started {
		s.logf("La partida no ha empezado.")
		return
	}
	p := s.current()
	if s.Rolled {
		s.logf("%s ya ha tirado este turno.", p.Name)
		return
	}

	var d [2]int
	if injected != nil {
		d = *injected
	} else {
		d = [2]int{e.rng.Intn(6) + 1, e.rng.Intn(6) + 1}
	}
	s.Dice = d
	s.Rolled = true
	doubles := d[0] == d[1]

	if p.JailTurns > 0 {
		if doubles {
			p.JailTurns = 0
			p.DoubleStreak = 0
			s.logf("%s saca dobles y sale de la cárcel.", p.Name)
			e.movePlayer(s, p, d[0]+d[1])
			return
		}
		p.JailTurns--
		if p.JailTurns == 0 {
			s.logf("%s cumple condena y saldrá el próximo turno.", p.Name)
		} else {
			s.logf("%s sigue en la cárcel (%d turnos restantes).", p.Name, p.JailTurns)
		}
		return
	}

	if doubles {
		p.DoubleStreak++
		if p.DoubleStreak >= 3 {
			s.logf("%s saca dobles tres veces seguidas. ¡A la cárcel!", p.Name)
			e.sendToJail(s, p)
			return
		}
		s.Rolled = false // doubles grant another roll
	} else {
		p.DoubleStreak = 0
	}

	e.movePlayer(s, p, d[0]+d[1])
}

// movePlayer advances p by steps, pays the start salary on wrap and
// resolves the landing tile.
func (e *Engine) movePlayer(s *State, p *Player, steps int) {
	size := e.board.Size()
	newPos := ((p.Pos+steps)%size + size) % size
	if newPos < p.Pos {
		p.Cash += PassStartSalary
		s.BankCash -= PassStartSalary
		s.logf("%s pasa por la salida y cobra $%d.", p.Name, PassStartSalary)
	}
	p.Pos = newPos
	s.Heatmap[newPos]++

	tile := e.board.Tile(newPos)
	s.logf("%s cae en %s.", p.Name, tile.Name)
	e.landOn(s, p, tile)
}

// landOn fires the immediate effect of the tile. Property settlement
// (rent, purchase) stays explicit so players and bots decide it with
// their own actions.
func (e *Engine) landOn(s *State, p *Player, tile board.Tile) {
	switch tile.Type {
	case board.TypeTax:
		amount := taxTileAmount(s)
		if amount <= 0 {
			s.logf("Sin impuestos bajo este régimen.")
			return
		}
		p.Cash -= amount
		s.BankCash += amount
		s.logf("%s paga $%d de impuestos.", p.Name, amount)
	case board.TypeEvent:
		e.drawEvent(s, p.ID)
	case board.TypeGoToJail:
		e.sendToJail(s, p)
	}
}

func (e *Engine) sendToJail(s *State, p *Player) {
	p.Pos = e.board.JailTile()
	p.JailTurns = JailSentence
	p.DoubleStreak = 0
	s.logf("%s entra en la cárcel.", p.Name)
}

// payRent settles the rent of the tile the current player stands on.
// The VAT surcharge is additive: the payer covers rent plus VAT, the
// owner receives the full rent and the State keeps the VAT.
func (e *Engine) payRent(s *State) {
	p := s.current()
	ts := s.Tiles[p.Pos]
	tile := e.board.Tile(p.Pos)

	if !tile.IsProperty() || ts.Owner == Unowned || ts.Owner == p.ID {
		s.logf("No hay alquiler que pagar en %s.", tile.Name)
		return
	}
	rent := ComputeRent(e.board, s, p.Pos, s.Dice[0]+s.Dice[1])
	if rent <= 0 {
		s.logf("%s está libre de alquiler.", tile.Name)
		return
	}
	vat := RentVAT(s, rent)
	p.Cash -= rent + vat

	if ts.Owner == BankOwner {
		s.BankCash += rent + vat
		s.logf("%s paga $%d (+$%d IVA) al Estado por %s.", p.Name, rent, vat, tile.Name)
		return
	}
	owner := s.player(ts.Owner)
	owner.Cash += rent
	s.BankCash += vat
	if vat > 0 {
		s.logf("%s paga $%d a %s por %s (+$%d IVA al Estado).", p.Name, rent, owner.Name, tile.Name, vat)
	} else {
		s.logf("%s paga $%d a %s por %s.", p.Name, rent, owner.Name, tile.Name)
	}
}

// buyProperty buys the unowned tile the current player stands on.
func (e *Engine) buyProperty(s *State) {
	p := s.current()
	tile := e.board.Tile(p.Pos)
	ts := s.Tiles[p.Pos]

	if !tile.IsProperty() || tile.Price <= 0 {
		s.logf("%s no está en venta.", tile.Name)
		return
	}
	if ts.Owner != Unowned {
		s.logf("%s ya tiene dueño.", tile.Name)
		return
	}
	if p.Cash < tile.Price {
		s.logf("%s no puede pagar $%d por %s.", p.Name, tile.Price, tile.Name)
		return
	}
	p.Cash -= tile.Price
	s.BankCash += tile.Price
	s.setOwner(p.Pos, p.ID)
	s.logf("%s compra %s por $%d.", p.Name, tile.Name, tile.Price)
}

// payJailBail pays the fixed bail and releases the current player.
func (e *Engine) payJailBail(s *State) {
	p := s.current()
	if p.JailTurns <= 0 {
		s.logf("%s no está en la cárcel.", p.Name)
		return
	}
	if p.Cash < JailBail {
		s.logf("%s no puede pagar la fianza de $%d.", p.Name, JailBail)
		return
	}
	p.Cash -= JailBail
	s.BankCash += JailBail
	p.JailTurns = 0
	s.logf("%s paga $%d de fianza y queda libre.", p.Name, JailBail)
}

// travelTransport hops the current player between transport tiles for a
// flat fare, once per turn.
func (e *Engine) travelTransport(s *State, destID int) {
	p := s.current()
	if s.UsedTransport {
		s.logf("%s ya ha viajado este turno.", p.Name)
		return
	}
	if destID < 0 || destID >= e.board.Size() || destID == p.Pos {
		s.logf("Destino de viaje inválido.")
		return
	}
	from := e.board.Tile(p.Pos)
	dest := e.board.Tile(destID)
	if !from.Subtype.IsTransport() || !dest.Subtype.IsTransport() {
		s.logf("Solo se puede viajar entre estaciones.")
		return
	}
	if p.Cash < TransportFare {
		s.logf("%s no puede pagar el billete de $%d.", p.Name, TransportFare)
		return
	}
	p.Cash -= TransportFare
	s.BankCash += TransportFare
	s.UsedTransport = true
	p.Pos = destID
	s.Heatmap[destID]++
	s.logf("%s viaja de %s a %s por $%d.", p.Name, from.Name, dest.Name, TransportFare)
}

// buildImprovement adds one house (or hires one fiore worker) on a tile
// the current player holds as part of a complete color group. Four
// houses convert atomically into a hotel.
func (e *Engine) buildImprovement(s *State, tileID int) {
	p := s.current()
	if tileID < 0 || tileID >= e.board.Size() {
		s.logf("Casilla inválida.")
		return
	}
	tile := e.board.Tile(tileID)
	ts := &s.Tiles[tileID]

	if ts.Owner != p.ID {
		s.logf("%s no posee %s.", p.Name, tile.Name)
		return
	}
	if ts.Mortgaged {
		s.logf("%s está hipotecada.", tile.Name)
		return
	}
	if tile.Subtype != board.SubPlain && tile.Subtype != board.SubFiore {
		s.logf("No se puede edificar en %s.", tile.Name)
		return
	}
	if !s.ownsFullGroup(e.board, p.ID, tileID) {
		s.logf("%s necesita el grupo completo para edificar en %s.", p.Name, tile.Name)
		return
	}

	if tile.Subtype == board.SubFiore {
		if p.Cash < FioreWorkerCost {
			s.logf("%s no puede pagar $%d por una trabajadora.", p.Name, FioreWorkerCost)
			return
		}
		p.Cash -= FioreWorkerCost
		s.BankCash += FioreWorkerCost
		ts.Workers++
		s.logf("%s contrata una trabajadora en %s (%d en total).", p.Name, tile.Name, ts.Workers)
		return
	}

	cost := tile.HouseCost()
	switch {
	case ts.Hotel:
		s.logf("%s ya tiene hotel.", tile.Name)
	case ts.Houses >= 4:
		if s.HotelsAvail <= 0 {
			s.logf("No quedan hoteles en el banco.")
			return
		}
		if p.Cash < cost {
			s.logf("%s no puede pagar $%d por el hotel.", p.Name, cost)
			return
		}
		p.Cash -= cost
		s.BankCash += cost
		ts.Houses = 0
		ts.Hotel = true
		s.HousesAvail += 4
		s.HotelsAvail--
		s.logf("%s construye un hotel en %s.", p.Name, tile.Name)
	default:
		if s.HousesAvail <= 0 {
			s.logf("No quedan casas en el banco.")
			return
		}
		if p.Cash < cost {
			s.logf("%s no puede pagar $%d por la casa.", p.Name, cost)
			return
		}
		p.Cash -= cost
		s.BankCash += cost
		ts.Houses++
		s.HousesAvail--
		s.logf("%s construye una casa en %s (%d).", p.Name, tile.Name, ts.Houses)
	}
}

// mortgage pawns an unimproved owned tile for half its price.
func (e *Engine) mortgage(s *State, tileID int) {
	p := s.current()
	if tileID < 0 || tileID >= e.board.Size() {
		s.logf("Casilla inválida.")
		return
	}
	tile := e.board.Tile(tileID)
	ts := &s.Tiles[tileID]
	if ts.Owner != p.ID {
		s.logf("%s no posee %s.", p.Name, tile.Name)
		return
	}
	if ts.Mortgaged {
		s.logf("%s ya está hipotecada.", tile.Name)
		return
	}
	if ts.Houses > 0 || ts.Hotel || ts.Workers > 0 {
		s.logf("%s tiene mejoras, no se puede hipotecar.", tile.Name)
		return
	}
	value := tile.Price / 2
	p.Cash += value
	s.BankCash -= value
	ts.Mortgaged = true
	s.logf("%s hipoteca %s por $%d.", p.Name, tile.Name, value)
}

// unmortgage lifts a mortgage for 55% of the tile price.
func (e *Engine) unmortgage(s *State, tileID int) {
	p := s.current()
	if tileID < 0 || tileID >= e.board.Size() {
		s.logf("Casilla inválida.")
		return
	}
	tile := e.board.Tile(tileID)
	ts := &s.Tiles[tileID]
	if ts.Owner != p.ID || !ts.Mortgaged {
		s.logf("%s no tiene una hipoteca de %s que levantar.", p.Name, tile.Name)
		return
	}
	cost := int(math.Floor(float64(tile.Price) * 0.55))
	if p.Cash < cost {
		s.logf("%s no puede pagar $%d para levantar la hipoteca.", p.Name, cost)
		return
	}
	p.Cash -= cost
	s.BankCash += cost
	ts.Mortgaged = false
	s.logf("%s levanta la hipoteca de %s por $%d.", p.Name, tile.Name, cost)
}

// endTurn passes play to the next alive player. When play wraps back to
// the start of the roster a full round has elapsed and all the per-round
// economy runs.
func (e *Engine) endTurn(s *State) {
	if !s.Started {
		s.logf("La partida no ha empezado.")
		return
	}
	p := s.current()
	s.Rolled = false
	s.UsedTransport = false
	p.DoubleStreak = 0

	next, wrapped := s.nextAlive(s.CurrentPlayer)
	if next < 0 {
		s.logf("No quedan jugadores vivos.")
		return
	}
	s.CurrentPlayer = next
	if wrapped {
		e.closeRound(s)
	}
	s.logf("Turno de %s.", s.current().Name)
}

// nextAlive returns the index of the next alive player after from, and
// whether the scan wrapped past the end of the roster.
func (s *State) nextAlive(from int) (idx int, wrapped bool) {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		j := (from + i) % n
		if s.Players[j].Alive {
			return j, j <= from
		}
	}
	return -1, false
}

// closeRound runs the per-round economy in fixed order: regime policy,
// regime rotation, loan amortization, pool dividends, event decay,
// bankruptcy sweep and the State's estate policy.
func (e *Engine) closeRound(s *State) {
	s.TurnCount++
	s.logf("── Ronda %d ──", s.TurnCount)

	e.applyGovernmentPolicies(s)
	e.tickGovernment(s)
	e.amortizeLoans(s)
	e.distributePoolDividends(s)
	decayEventModifiers(s)
	e.sweepBankruptcies(s)
	e.bankEstatePolicy(s)
}

// sweepBankruptcies eliminates every player whose cash is negative at
// the round boundary. Their tiles revert to the State with improvements
// cleared and returned to supply.
func (e *Engine) sweepBankruptcies(s *State) {
	for i := range s.Players {
		p := &s.Players[i]
		if !p.Alive || p.Cash >= 0 {
			continue
		}
		p.Alive = false
		s.logf("%s quiebra con $%d y abandona la partida.", p.Name, p.Cash)
		for _, id := range append([]int(nil), p.OwnedTiles...) {
			ts := &s.Tiles[id]
			s.HousesAvail += ts.Houses
			if ts.Hotel {
				s.HotelsAvail++
			}
			ts.Houses, ts.Hotel, ts.Mortgaged, ts.Workers = 0, false, false, 0
			s.setOwner(id, BankOwner)
		}
	}
	if s.aliveCount() == 1 {
		for i := range s.Players {
			if s.Players[i].Alive {
				s.logf("¡%s gana la partida!", s.Players[i].Name)
			}
		}
	}
}

// bankEstatePolicy is what the State does with its own tiles each round.
// A libertarian government divests one tile to the richest solvent
// player; any other regime improves one of its complete groups when it
// can afford to.
func (e *Engine) bankEstatePolicy(s *State) {
	if s.Government.Type == GovLibertarian {
		e.divestStateTile(s)
		return
	}
	e.improveStateEstate(s)
}

func (e *Engine) divestStateTile(s *State) {
	buyer := -1
	for i := range s.Players {
		p := &s.Players[i]
		if !p.Alive || p.Cash <= 0 {
			continue
		}
		if buyer < 0 || p.Cash > s.Players[buyer].Cash {
			buyer = i
		}
	}
	if buyer < 0 {
		return
	}
	for id, ts := range s.Tiles {
		if ts.Owner != BankOwner {
			continue
		}
		price := e.board.Tile(id).Price
		if price <= 0 || s.Players[buyer].Cash < price {
			continue
		}
		s.Players[buyer].Cash -= price
		s.BankCash += price
		s.setOwner(id, buyer)
		s.logf("El Estado privatiza %s: lo compra %s por $%d.", e.board.Tile(id).Name, s.Players[buyer].Name, price)
		return
	}
}

func (e *Engine) improveStateEstate(s *State) {
	for id, ts := range s.Tiles {
		tile := e.board.Tile(id)
		if ts.Owner != BankOwner || tile.Subtype != board.SubPlain || ts.Hotel {
			continue
		}
		if !s.ownsFullGroup(e.board, BankOwner, id) {
			continue
		}
		cost := tile.HouseCost()
		if s.BankCash < cost || s.HousesAvail <= 0 || ts.Houses >= 4 {
			continue
		}
		s.BankCash -= cost
		s.Tiles[id].Houses++
		s.HousesAvail--
		s.logf("El Estado construye vivienda pública en %s.", tile.Name)
		return
	}
}
