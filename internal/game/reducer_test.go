package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artiako/landak-server/internal/board"
)

// ownBrownGroup hands the full brown group (San Lorenzo ermitie and
// Santa Maria Elizie) to the given player.
func ownBrownGroup(s *State, playerID int) []int {
	group := testBoard.Group("brown")
	for _, id := range group {
		s.setOwner(id, playerID)
	}
	return group
}

func TestBuildImprovementRequiresFullGroup(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	s.setOwner(1, 0)

	s = e.Reduce(s, BuildImprovement{TileID: 1})
	assert.Equal(t, 0, s.Tiles[1].Houses)
	assert.Equal(t, StartingCash, s.Players[0].Cash)
}

func TestBuildHousesThenHotel(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	ownBrownGroup(s, 0)
	s.Players[0].Cash = 1000

	for i := 1; i <= 4; i++ {
		s = e.Reduce(s, BuildImprovement{TileID: 1})
		assert.Equal(t, i, s.Tiles[1].Houses)
		assert.Equal(t, HousesSupply-i, s.HousesAvail)
	}
	assert.Equal(t, 1000-4*30, s.Players[0].Cash, "brown houses cost $30")

	// fifth build converts the four houses into a hotel
	s = e.Reduce(s, BuildImprovement{TileID: 1})
	assert.True(t, s.Tiles[1].Hotel)
	assert.Equal(t, 0, s.Tiles[1].Houses)
	assert.Equal(t, HousesSupply, s.HousesAvail, "houses return to supply")
	assert.Equal(t, HotelsSupply-1, s.HotelsAvail)

	// building past the hotel is a no-op
	cash := s.Players[0].Cash
	s = e.Reduce(s, BuildImprovement{TileID: 1})
	assert.Equal(t, cash, s.Players[0].Cash)
}

func TestBuildBlockedByMortgageAndStock(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	ownBrownGroup(s, 0)

	s.Tiles[1].Mortgaged = true
	s = e.Reduce(s, BuildImprovement{TileID: 1})
	assert.Equal(t, 0, s.Tiles[1].Houses)
	s.Tiles[1].Mortgaged = false

	s.HousesAvail = 0
	s = e.Reduce(s, BuildImprovement{TileID: 1})
	assert.Equal(t, 0, s.Tiles[1].Houses)
}

func TestFioreHiresWorkers(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	fiore := firstOfSubtype(t, board.SubFiore)
	for _, id := range testBoard.Group(testBoard.Tile(fiore).Color) {
		s.setOwner(id, 0)
	}

	s = e.Reduce(s, BuildImprovement{TileID: fiore})
	assert.Equal(t, 1, s.Tiles[fiore].Workers)
	assert.Equal(t, StartingCash-FioreWorkerCost, s.Players[0].Cash)
}

func TestMortgageAndUnmortgage(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	s.setOwner(2, 0) // Santa Maria Elizie, $70

	s = e.Reduce(s, Mortgage{TileID: 2})
	assert.True(t, s.Tiles[2].Mortgaged)
	assert.Equal(t, StartingCash+35, s.Players[0].Cash)

	// double mortgage is a no-op
	s = e.Reduce(s, Mortgage{TileID: 2})
	assert.Equal(t, StartingCash+35, s.Players[0].Cash)

	s = e.Reduce(s, Unmortgage{TileID: 2})
	assert.False(t, s.Tiles[2].Mortgaged)
	// 55% of 70 floors to 38
	assert.Equal(t, StartingCash+35-38, s.Players[0].Cash)
}

func TestMortgageRejectsImprovedTile(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	ownBrownGroup(s, 0)
	s.Tiles[1].Houses = 2

	s = e.Reduce(s, Mortgage{TileID: 1})
	assert.False(t, s.Tiles[1].Mortgaged)
	assert.Equal(t, StartingCash, s.Players[0].Cash)
}

func TestCloseRoundRunsOnWrap(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)

	s = e.Reduce(s, EndTurn{}) // to player 1, no wrap
	assert.Equal(t, 1, s.TurnCount)
	term := s.Government.TurnsLeft

	s = e.Reduce(s, EndTurn{}) // wraps back to player 0
	assert.Equal(t, 2, s.TurnCount)
	assert.Equal(t, term-1, s.Government.TurnsLeft)
}

func TestBankruptcySweepReturnsEstate(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)
	group := ownBrownGroup(s, 1)
	s.Tiles[group[0]].Houses = 2
	s.Tiles[group[1]].Hotel = true
	s.HousesAvail -= 2
	s.HotelsAvail--
	s.Players[1].Cash = -10

	e.sweepBankruptcies(s)

	require.False(t, s.Players[1].Alive)
	assert.Empty(t, s.Players[1].OwnedTiles)
	for _, id := range group {
		assert.Equal(t, BankOwner, s.Tiles[id].Owner)
		assert.Equal(t, 0, s.Tiles[id].Houses)
		assert.False(t, s.Tiles[id].Hotel)
	}
	assert.Equal(t, HousesSupply, s.HousesAvail)
	assert.Equal(t, HotelsSupply, s.HotelsAvail)
}

func TestLibertarianDivestsToRichest(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	setGovernment(s, GovLibertarian)
	s.setOwner(1, BankOwner) // $60 tile held by the State
	s.Players[1].Cash = 5000 // richest

	bank := s.BankCash
	e.bankEstatePolicy(s)

	assert.Equal(t, 1, s.Tiles[1].Owner)
	assert.Equal(t, 5000-60, s.Players[1].Cash)
	assert.Equal(t, bank+60, s.BankCash)
}

func TestStateBuildsPublicHousing(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	setGovernment(s, GovLeft)
	group := ownBrownGroup(s, BankOwner)
	s.BankCash = 1000

	e.bankEstatePolicy(s)

	built := 0
	for _, id := range group {
		built += s.Tiles[id].Houses
	}
	assert.Equal(t, 1, built, "one house per round")
	assert.Equal(t, HousesSupply-1, s.HousesAvail)
	assert.Equal(t, 1000-30, s.BankCash)
}

func TestLandAndBuyFromStart(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)

	s = e.Reduce(s, RollDice{Dice: &[2]int{4, 3}})
	require.Equal(t, 7, s.Players[0].Pos)

	price := testBoard.Tile(7).Price
	s = e.Reduce(s, BuyProperty{})
	assert.Equal(t, 0, s.Tiles[7].Owner)
	assert.Equal(t, StartingCash-price, s.Players[0].Cash)
	assertOwnershipDuality(t, s)
}

func TestLastPlayerStandingWins(t *testing.T) {
	e := newTestEngine(11)
	s := startTwoPlayers(e)
	s.Players[1].Cash = -500

	e.sweepBankruptcies(s)

	assert.False(t, s.Players[1].Alive)
	assert.Equal(t, 1, s.aliveCount())
}
