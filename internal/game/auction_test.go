package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAuctionOpensAtListPrice(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)

	s = e.Reduce(s, StartAuction{TileIDs: []int{1}}) // $60
	require.NotNil(t, s.Auction)
	assert.True(t, s.Auction.Open)
	assert.Equal(t, 60, s.Auction.CurrentBid)
	assert.Equal(t, Unowned, s.Auction.HighestBidder)
	assert.Equal(t, AuctionOpenSeconds, s.Auction.SecondsLeft)
	assert.ElementsMatch(t, []int{0, 1}, s.Auction.Eligible)
}

func TestStartAuctionRejectsOwnedTiles(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s.setOwner(1, 0)

	s = e.Reduce(s, StartAuction{TileIDs: []int{1}})
	assert.Nil(t, s.Auction)
}

func TestBidRules(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s = e.Reduce(s, StartAuction{TileIDs: []int{1}})

	// equal bid is rejected
	s = e.Reduce(s, BidAuction{PlayerID: 0, Amount: 60})
	assert.Equal(t, Unowned, s.Auction.HighestBidder)

	// higher bid accepted, countdown resets to the bid window
	s = e.Reduce(s, BidAuction{PlayerID: 0, Amount: 80})
	assert.Equal(t, 0, s.Auction.HighestBidder)
	assert.Equal(t, 80, s.Auction.CurrentBid)
	assert.Equal(t, AuctionBidSeconds, s.Auction.SecondsLeft)

	// unaffordable bid rejected
	s = e.Reduce(s, BidAuction{PlayerID: 1, Amount: 99999})
	assert.Equal(t, 0, s.Auction.HighestBidder)
}

func TestAuctionResolvesOnTimer(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s = e.Reduce(s, StartAuction{TileIDs: []int{1}})
	s = e.Reduce(s, BidAuction{PlayerID: 1, Amount: 70})

	for i := 0; i < AuctionBidSeconds; i++ {
		s = e.Reduce(s, TickAuction{})
	}

	assert.Nil(t, s.Auction)
	assert.Equal(t, 1, s.Tiles[1].Owner)
	assert.Equal(t, StartingCash-70, s.Players[1].Cash)
	assert.Equal(t, 70, s.BankCash)
}

func TestAuctionDesertedWithoutBids(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s = e.Reduce(s, StartAuction{TileIDs: []int{1}})

	s = e.Reduce(s, EndAuction{})
	assert.Nil(t, s.Auction)
	assert.Equal(t, Unowned, s.Tiles[1].Owner)
}

func TestEndAuctionIsIdempotent(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s = e.Reduce(s, StartAuction{TileIDs: []int{1}})
	s = e.Reduce(s, BidAuction{PlayerID: 0, Amount: 65})

	s = e.Reduce(s, EndAuction{})
	cash := s.Players[0].Cash
	bank := s.BankCash

	// a duplicate resolve must not charge twice
	s = e.Reduce(s, EndAuction{})
	assert.Equal(t, cash, s.Players[0].Cash)
	assert.Equal(t, bank, s.BankCash)
	assert.Equal(t, 0, s.Tiles[1].Owner)
}

func TestWithdrawLastBidderResolves(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s = e.Reduce(s, StartAuction{TileIDs: []int{1}})
	s = e.Reduce(s, BidAuction{PlayerID: 0, Amount: 65})

	s = e.Reduce(s, WithdrawAuction{PlayerID: 1})
	require.NotNil(t, s.Auction, "one bidder left, auction stays open")

	s = e.Reduce(s, WithdrawAuction{PlayerID: 0})
	assert.Nil(t, s.Auction, "empty eligible set resolves immediately")
	// player 0 had the highest bid when withdrawing, so the sale stands
	assert.Equal(t, 0, s.Tiles[1].Owner)
}

func TestBundleAuctionTransfersAtomically(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s = e.Reduce(s, StartAuction{TileIDs: []int{1, 2}}) // $60 + $70

	require.Equal(t, 130, s.Auction.CurrentBid)
	s = e.Reduce(s, BidAuction{PlayerID: 0, Amount: 140})
	s = e.Reduce(s, EndAuction{})

	assert.Equal(t, 0, s.Tiles[1].Owner)
	assert.Equal(t, 0, s.Tiles[2].Owner)
	assert.Equal(t, []int{1, 2}, s.Players[0].OwnedTiles)
	assert.Equal(t, StartingCash-140, s.Players[0].Cash)
}

func TestWithdrawnBidderCannotRejoin(t *testing.T) {
	e := newTestEngine(2)
	s := startTwoPlayers(e)
	s = e.Reduce(s, StartAuction{TileIDs: []int{1}})

	s = e.Reduce(s, WithdrawAuction{PlayerID: 1})
	s = e.Reduce(s, BidAuction{PlayerID: 1, Amount: 100})
	assert.Equal(t, Unowned, s.Auction.HighestBidder)
}
