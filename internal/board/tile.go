package board

import "fmt"

// TileType identifies the kind of board cell.
type TileType int

const (
	TypeStart TileType = iota
	TypeProperty
	TypeTax
	TypeJail
	TypeGoToJail
	TypePark
	TypeEvent
	TypeSlots
	TypeBank
)

var tileTypeNames = map[TileType]string{
	TypeStart:    "START",
	TypeProperty: "PROPERTY",
	TypeTax:      "TAX",
	TypeJail:     "JAIL",
	TypeGoToJail: "GO_TO_JAIL",
	TypePark:     "PARK",
	TypeEvent:    "EVENT",
	TypeSlots:    "SLOTS",
	TypeBank:     "BANK",
}

func (t TileType) String() string {
	if name, ok := tileTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TILE_TYPE_%d", int(t))
}

// Subtype refines property tiles into their economic class.
type Subtype int

const (
	SubPlain Subtype = iota
	SubRail
	SubBus
	SubFerry
	SubAir
	SubUtility
	SubFiore
	SubCasinoBJ
	SubCasinoRoulette
)

var subtypeNames = map[Subtype]string{
	SubPlain:          "PLAIN",
	SubRail:           "RAIL",
	SubBus:            "BUS",
	SubFerry:          "FERRY",
	SubAir:            "AIR",
	SubUtility:        "UTILITY",
	SubFiore:          "FIORE",
	SubCasinoBJ:       "CASINO_BJ",
	SubCasinoRoulette: "CASINO_ROULETTE",
}

func (s Subtype) String() string {
	if name, ok := subtypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SUBTYPE_%d", int(s))
}

// IsTransport reports whether the subtype participates in the transport
// network (rail/bus/ferry/air), which enables the paid transport hop.
func (s Subtype) IsTransport() bool {
	switch s {
	case SubRail, SubBus, SubFerry, SubAir:
		return true
	}
	return false
}

// IsCasino reports whether the subtype is a casino floor. Casino tiles
// never yield passive rent.
func (s Subtype) IsCasino() bool {
	return s == SubCasinoBJ || s == SubCasinoRoulette
}

// Tile is the immutable definition of one board cell. Mutable per-game
// fields (owner, houses, mortgage) live in game.TileState, keyed by ID.
type Tile struct {
	ID       int
	Type     TileType
	Name     string
	Price    int
	Color    string // color group tag; empty for non-group tiles
	Family   string // display family, used by family rent filters
	Subtype  Subtype
	BaseRent int // 0 = derive from price
}

// IsProperty reports whether the tile can be owned.
func (t Tile) IsProperty() bool {
	return t.Type == TypeProperty
}

// HouseCost returns the cost of one improvement step on this tile.
func (t Tile) HouseCost() int {
	if t.Price == 0 {
		return 50
	}
	return t.Price / 2
}
