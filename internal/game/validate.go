package game

import "go.uber.org/zap"

// cashSanityBound is far beyond anything the economy can produce; a
// balance outside it means a corrupted action slipped through.
const cashSanityBound = 10_000_000

// repairState runs after every dispatch and clamps anything a buggy or
// hostile action could have left out of bounds. Repairs are rare and
// always logged at warn level.
func (e *Engine) repairState(s *State) {
	size := e.board.Size()

	for i := range s.Players {
		p := &s.Players[i]
		if p.Pos < 0 || p.Pos >= size {
			e.logger.Warn("repaired out-of-bounds position",
				zap.Int("player", p.ID), zap.Int("pos", p.Pos))
			p.Pos = ((p.Pos % size) + size) % size
		}
		if p.Cash > cashSanityBound || p.Cash < -cashSanityBound {
			e.logger.Warn("repaired absurd cash balance",
				zap.Int("player", p.ID), zap.Int("cash", p.Cash))
			p.Cash = 0
		}
		if p.JailTurns < 0 {
			p.JailTurns = 0
		}
	}

	if len(s.Players) > 0 && (s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players)) {
		e.logger.Warn("repaired current player index",
			zap.Int("currentPlayer", s.CurrentPlayer))
		s.CurrentPlayer = 0
	}

	if s.HousesAvail < 0 {
		s.HousesAvail = 0
	}
	if s.HotelsAvail < 0 {
		s.HotelsAvail = 0
	}
}
