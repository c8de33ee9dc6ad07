package game

import (
	"math"

	"github.com/artiako/landak-server/internal/board"
)

// ComputeRent returns the rent owed for landing on tileID with the given
// dice total. Mortgaged tiles yield nothing regardless of modifiers.
func ComputeRent(b *board.Board, s *State, tileID, diceTotal int) int {
	tile := b.Tile(tileID)
	if !tile.IsProperty() {
		return 0
	}
	ts := s.Tiles[tileID]
	if ts.Mortgaged {
		return 0
	}
	if ts.Owner == Unowned {
		return 0
	}

	var rent int
	switch {
	case tile.Subtype == board.SubUtility:
		mul := 4
		if s.countOwnedSubtype(b, ts.Owner, board.SubUtility) >= 2 {
			mul = 10
		}
		rent = diceTotal * mul

	case tile.Subtype == board.SubRail || tile.Subtype == board.SubBus:
		owned := s.countOwnedSubtype(b, ts.Owner, tile.Subtype)
		if owned < 1 {
			owned = 1
		}
		rent = 25 << (owned - 1)

	case tile.Subtype == board.SubFiore:
		rent = ts.Workers * FioreWorkerRent

	case tile.Subtype.IsCasino():
		return 0

	default:
		base := tile.BaseRent
		if base == 0 {
			base = tile.Price / 10
		}
		// Unimproved monopoly doubles the base.
		if ts.Houses == 0 && !ts.Hotel && ts.Owner != Unowned {
			if s.ownsFullGroup(b, ts.Owner, tileID) {
				base *= 2
			}
		}
		if ts.Hotel {
			base *= 5
		} else if ts.Houses > 0 {
			base *= ts.Houses + 1
		}
		rent = base
	}

	rent = applyRentModifiers(b, s, tile, ts.Owner, rent)
	if rent < 0 {
		rent = 0
	}
	return rent
}

// applyRentModifiers applies, in order: the global event multiplier, any
// matching targeted filters, then the rent cap.
func applyRentModifiers(b *board.Board, s *State, tile board.Tile, owner, rent int) int {
	if s.RentMul != 1.0 && s.RentMulRounds > 0 {
		rent = int(math.Floor(float64(rent) * s.RentMul))
	}
	for _, f := range s.RentFilters {
		if f.Rounds <= 0 {
			continue
		}
		if filterMatches(f, tile, owner) {
			rent = int(math.Floor(float64(rent) * f.Mul))
		}
	}
	if s.RentCap != nil && s.RentCap.Rounds > 0 && rent > s.RentCap.Amount {
		rent = s.RentCap.Amount
	}
	return rent
}

func filterMatches(f RentFilter, tile board.Tile, owner int) bool {
	switch f.Kind {
	case FilterLeisure:
		return tile.Subtype.IsCasino() || tile.Subtype == board.SubFiore
	case FilterTransport:
		return tile.Subtype.IsTransport()
	case FilterFamily:
		return tile.Family == f.Family
	case FilterOwner:
		return owner == f.Owner
	}
	return false
}

// RentVAT returns the State's cut of a rent payment under the active
// regime. The payer owes rent+VAT; the owner keeps the rent.
func RentVAT(s *State, rent int) int {
	rate := s.Government.Config.RentVAT
	if rate < 0 {
		rate = 0
	}
	return int(math.Floor(float64(rent) * rate))
}
