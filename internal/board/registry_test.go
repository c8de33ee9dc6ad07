package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardSize(t *testing.T) {
	b := New()
	// 26 per side, perfect square layout
	assert.Equal(t, 104, b.Size())
}

func TestTileIDsArePositional(t *testing.T) {
	b := New()
	for i, tile := range b.Tiles() {
		assert.Equal(t, i, tile.ID)
	}
}

func TestStartAndJail(t *testing.T) {
	b := New()
	assert.Equal(t, TypeStart, b.Tile(0).Type)

	jail := b.JailTile()
	require.GreaterOrEqual(t, jail, 0)
	assert.Equal(t, TypeJail, b.Tile(jail).Type)
}

func TestGroupIntegrity(t *testing.T) {
	b := New()

	// every grouped tile appears in its own group, and groups are
	// color-homogeneous
	seen := make(map[int]string)
	for _, tile := range b.Tiles() {
		if !tile.IsProperty() || tile.Color == "" {
			continue
		}
		group := b.GroupOf(tile.ID)
		require.NotEmpty(t, group, "tile %d (%s) has empty group", tile.ID, tile.Name)

		found := false
		for _, id := range group {
			assert.Equal(t, tile.Color, b.Tile(id).Color)
			if id == tile.ID {
				found = true
			}
		}
		assert.True(t, found, "tile %d missing from its own group", tile.ID)
		seen[tile.ID] = tile.Color
	}
	assert.NotEmpty(t, seen)
}

func TestBrownGroup(t *testing.T) {
	b := New()
	brown := b.Group("brown")
	require.Len(t, brown, 2)
	assert.Equal(t, "San Lorenzo ermitie", b.Tile(brown[0]).Name)
	assert.Equal(t, 60, b.Tile(brown[0]).Price)
	assert.Equal(t, "Santa Maria Elizie", b.Tile(brown[1]).Name)
	assert.Equal(t, 70, b.Tile(brown[1]).Price)
}

func TestColorCollisionsAreOneGroup(t *testing.T) {
	b := New()
	// the red tag is shared by Itsaso and Txistorra; monopoly spans both
	red := b.Group("red")
	assert.Len(t, red, 4)
	// casino tiles carry the pink tag alongside Kalea
	pink := b.Group("pink")
	casinos := 0
	for _, id := range pink {
		if b.Tile(id).Subtype.IsCasino() {
			casinos++
		}
	}
	assert.Equal(t, 2, casinos)
}

func TestTransportTiles(t *testing.T) {
	b := New()
	transports := b.TransportTiles()
	assert.NotEmpty(t, transports)
	for _, id := range transports {
		tile := b.Tile(id)
		assert.True(t, tile.Subtype.IsTransport(), "tile %d (%s)", id, tile.Name)
		assert.True(t, tile.IsProperty())
	}
}

func TestSubtypeClasses(t *testing.T) {
	assert.True(t, SubRail.IsTransport())
	assert.True(t, SubBus.IsTransport())
	assert.True(t, SubFerry.IsTransport())
	assert.True(t, SubAir.IsTransport())
	assert.False(t, SubUtility.IsTransport())
	assert.False(t, SubPlain.IsTransport())

	assert.True(t, SubCasinoBJ.IsCasino())
	assert.True(t, SubCasinoRoulette.IsCasino())
	assert.False(t, SubFiore.IsCasino())
}

func TestHouseCost(t *testing.T) {
	b := New()
	brown := b.Group("brown")
	assert.Equal(t, 30, b.Tile(brown[0]).HouseCost())

	free := Tile{}
	assert.Equal(t, 50, free.HouseCost())
}
