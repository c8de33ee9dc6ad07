package game

import (
	"fmt"

	"github.com/artiako/landak-server/internal/board"
)

// Ownership sentinels for TileState.Owner.
const (
	Unowned   = -1
	BankOwner = -2 // "the State" holds the tile
)

// Game-wide economic constants shared by the reducer and its subsystems.
const (
	StartingCash     = 1500
	PassStartSalary  = 200
	JailSentence     = 3
	JailBail         = 50
	TransportFare    = 50
	BaseTaxAmount    = 200
	FioreWorkerCost  = 200
	FioreWorkerRent  = 70
	LoanInterestRate = 0.20
	HousesSupply     = 32
	HotelsSupply     = 12
)

// Role is a cosmetic/ability tag carried by players.
type Role string

const (
	RoleCivil     Role = "civil"
	RoleProxeneta Role = "proxeneta"
	RoleFlorentino Role = "florentino"
	RoleFBI       Role = "fbi"
	RoleOkupa     Role = "okupa"
)

// Gender is the demographic tag that regime policies target.
type Gender string

const (
	GenderMale       Gender = "male"
	GenderFemale     Gender = "female"
	GenderHelicopter Gender = "helicoptero"
	GenderMartian    Gender = "marcianito"
)

// Player is one seat in the roster. IDs are assigned at game start and
// never reused; eliminated players stay in the roster with Alive=false.
type Player struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Cash         int      `json:"cash"`
	Pos          int      `json:"pos"`
	JailTurns    int      `json:"jailTurns"`
	OwnedTiles   []int    `json:"ownedTiles"` // sorted; mirrors TileState.Owner
	IsBot        bool     `json:"isBot"`
	Alive        bool     `json:"alive"`
	Role         Role     `json:"role"`
	Gender       Gender   `json:"gender"`
	DoubleStreak int      `json:"doubleStreak"`
}

// TileState carries the mutable per-game fields of one tile. A tile with
// Hotel=true always has Houses=0; the upgrade from 4 houses converts
// atomically.
type TileState struct {
	Owner     int  `json:"owner"` // player id, BankOwner, or Unowned
	Houses    int  `json:"houses"`
	Hotel     bool `json:"hotel"`
	Mortgaged bool `json:"mortgaged"`
	Workers   int  `json:"workers"` // fiore tiles only
}

// RentFilter is a targeted temporary rent multiplier.
type RentFilter struct {
	ID     string           `json:"id"`
	Mul    float64          `json:"mul"`
	Rounds int              `json:"rounds"`
	Kind   RentFilterKind   `json:"kind"`
	Family string           `json:"family,omitempty"` // for KindFamily
	Owner  int              `json:"owner,omitempty"`  // for KindOwner
}

// RentFilterKind selects which tiles a RentFilter applies to.
type RentFilterKind string

const (
	FilterLeisure   RentFilterKind = "leisure"
	FilterTransport RentFilterKind = "transport"
	FilterFamily    RentFilterKind = "family"
	FilterOwner     RentFilterKind = "owner"
)

// RentCap is a temporary ceiling on any single rent payment.
type RentCap struct {
	Amount int `json:"amount"`
	Rounds int `json:"rounds"`
}

// State is the root aggregate. The reducer never mutates a State it was
// given: every dispatch works on a Clone.
type State struct {
	Players       []Player            `json:"players"`
	Tiles         []TileState         `json:"tiles"`
	CurrentPlayer int                 `json:"currentPlayer"`
	Dice          [2]int              `json:"dice"`
	Rolled        bool                `json:"rolled"`
	TurnCount     int                 `json:"turnCount"`
	BankCash      int                 `json:"bankCash"`
	Government    Government          `json:"government"`
	Auction       *Auction            `json:"auction,omitempty"`
	Trade         *TradeOffer         `json:"trade,omitempty"`
	Loans         []Loan              `json:"loans"`
	Pools         []LoanPool          `json:"pools"`
	EventLog      []string            `json:"eventLog"` // newest first
	Heatmap       map[int]int         `json:"heatmap"`
	HousesAvail   int                 `json:"housesAvail"`
	HotelsAvail   int                 `json:"hotelsAvail"`
	RentMul       float64             `json:"rentMul"`
	RentMulRounds int                 `json:"rentMulRounds"`
	RentFilters   []RentFilter        `json:"rentFilters"`
	RentCap       *RentCap            `json:"rentCap,omitempty"`
	UsedTransport bool                `json:"usedTransport"`
	Started       bool                `json:"started"`
}

// NewState creates the pre-game state for the given board.
func NewState(b *board.Board) *State {
	return &State{
		Tiles:       newTileStates(b.Size()),
		Dice:        [2]int{1, 1},
		TurnCount:   1,
		BankCash:    0, // the State starts broke
		HousesAvail: HousesSupply,
		HotelsAvail: HotelsSupply,
		RentMul:     1.0,
		Heatmap:     make(map[int]int),
		EventLog:    []string{"Ongi etorri Artiako Landak-era!"},
	}
}

func newTileStates(n int) []TileState {
	ts := make([]TileState, n)
	for i := range ts {
		ts[i].Owner = Unowned
	}
	return ts
}

// Clone returns a deep copy of the state. Every dispatch operates on a
// clone so callers can hold old snapshots for history and undo.
func (s *State) Clone() *State {
	c := *s

	c.Players = make([]Player, len(s.Players))
	copy(c.Players, s.Players)
	for i := range c.Players {
		owned := make([]int, len(s.Players[i].OwnedTiles))
		copy(owned, s.Players[i].OwnedTiles)
		c.Players[i].OwnedTiles = owned
	}

	c.Tiles = make([]TileState, len(s.Tiles))
	copy(c.Tiles, s.Tiles)

	c.EventLog = make([]string, len(s.EventLog))
	copy(c.EventLog, s.EventLog)

	c.Heatmap = make(map[int]int, len(s.Heatmap))
	for k, v := range s.Heatmap {
		c.Heatmap[k] = v
	}

	if s.Auction != nil {
		a := *s.Auction
		a.TileIDs = append([]int(nil), s.Auction.TileIDs...)
		a.Eligible = append([]int(nil), s.Auction.Eligible...)
		c.Auction = &a
	}
	if s.Trade != nil {
		t := *s.Trade
		t.OfferedTiles = append([]int(nil), s.Trade.OfferedTiles...)
		t.RequestedTiles = append([]int(nil), s.Trade.RequestedTiles...)
		c.Trade = &t
	}
	if s.RentCap != nil {
		cap := *s.RentCap
		c.RentCap = &cap
	}

	c.Loans = make([]Loan, len(s.Loans))
	copy(c.Loans, s.Loans)

	c.Pools = make([]LoanPool, len(s.Pools))
	copy(c.Pools, s.Pools)
	for i := range c.Pools {
		c.Pools[i].LoanIDs = append([]string(nil), s.Pools[i].LoanIDs...)
		holdings := make(map[int]int, len(s.Pools[i].Holdings))
		for k, v := range s.Pools[i].Holdings {
			holdings[k] = v
		}
		c.Pools[i].Holdings = holdings
	}

	c.RentFilters = make([]RentFilter, len(s.RentFilters))
	copy(c.RentFilters, s.RentFilters)

	return &c
}

// logf prepends a formatted entry to the event log (newest first).
func (s *State) logf(format string, args ...interface{}) {
	s.EventLog = append([]string{fmt.Sprintf(format, args...)}, s.EventLog...)
}

// player returns the roster entry with the given id, or nil.
func (s *State) player(id int) *Player {
	if id < 0 || id >= len(s.Players) {
		return nil
	}
	return &s.Players[id]
}

// current returns the player whose turn it is.
func (s *State) current() *Player {
	return &s.Players[s.CurrentPlayer]
}

// ownsTile reports whether the player id appears as owner of the tile.
func (s *State) ownsTile(playerID, tileID int) bool {
	return tileID >= 0 && tileID < len(s.Tiles) && s.Tiles[tileID].Owner == playerID
}

// setOwner is the single mutation point for the tile.Owner and
// player.OwnedTiles projections. Every ownership change in the engine
// goes through here so the two views can never drift.
func (s *State) setOwner(tileID, newOwner int) {
	old := s.Tiles[tileID].Owner
	if old == newOwner {
		return
	}
	if p := s.player(old); p != nil {
		p.OwnedTiles = removeTileID(p.OwnedTiles, tileID)
	}
	s.Tiles[tileID].Owner = newOwner
	if p := s.player(newOwner); p != nil {
		p.OwnedTiles = insertTileID(p.OwnedTiles, tileID)
	}
}

func removeTileID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func insertTileID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return ids
		}
		if v > id {
			ids = append(ids, 0)
			copy(ids[i+1:], ids[i:])
			ids[i] = id
			return ids
		}
	}
	return append(ids, id)
}

// countOwnedSubtype counts tiles of the given subtype held by owner.
func (s *State) countOwnedSubtype(b *board.Board, owner int, st board.Subtype) int {
	n := 0
	for id, ts := range s.Tiles {
		if ts.Owner == owner && b.Tile(id).Subtype == st {
			n++
		}
	}
	return n
}

// ownsFullGroup reports whether owner holds every tile of the color group
// that tileID belongs to.
func (s *State) ownsFullGroup(b *board.Board, owner, tileID int) bool {
	group := b.GroupOf(tileID)
	if len(group) == 0 {
		return false
	}
	for _, id := range group {
		if s.Tiles[id].Owner != owner {
			return false
		}
	}
	return true
}

// aliveCount returns the number of players still in the game.
func (s *State) aliveCount() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].Alive {
			n++
		}
	}
	return n
}
