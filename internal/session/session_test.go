package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artiako/landak-server/internal/board"
	"github.com/artiako/landak-server/internal/game"
)

func newTestSession(t *testing.T, historyDepth int) *Session {
	t.Helper()
	e := game.NewEngine(board.New(), zap.NewNop(), game.Tuning{Seed: 1, AuctionOpenSecs: 1, AuctionBidSecs: 1})
	s := New("test", e, zap.NewNop(), historyDepth, 10*time.Millisecond)
	t.Cleanup(s.Close)
	return s
}

func startHumans(s *Session) *game.State {
	return s.Dispatch(game.StartGame{Humans: []game.HumanSeat{
		{Name: "Amaia", Gender: game.GenderFemale},
		{Name: "Jon", Gender: game.GenderMale},
	}})
}

func TestDispatchReturnsSnapshot(t *testing.T) {
	s := newTestSession(t, 0)
	st := startHumans(s)

	require.Len(t, st.Players, 2)
	assert.True(t, st.Started)

	// the returned snapshot is detached from the session state
	st.Players[0].Cash = 0
	assert.Equal(t, game.StartingCash, s.Snapshot().Players[0].Cash)
}

func TestUndoRollsBack(t *testing.T) {
	s := newTestSession(t, 0)
	startHumans(s)
	before := s.Snapshot().Checksum()

	s.Dispatch(game.RollDice{Dice: &[2]int{1, 2}})
	require.NotEqual(t, before, s.Snapshot().Checksum())

	st := s.Undo()
	assert.Equal(t, before, st.Checksum())
}

func TestUndoHistoryIsBounded(t *testing.T) {
	s := newTestSession(t, 2)
	startHumans(s)
	s.Dispatch(game.RollDice{Dice: &[2]int{1, 2}})
	mid := s.Snapshot().Checksum()
	s.Dispatch(game.EndTurn{})
	s.Dispatch(game.RollDice{Dice: &[2]int{2, 3}})

	s.Undo()
	st := s.Undo()
	assert.Equal(t, mid, st.Checksum())

	// history is exhausted; a further undo stays put
	assert.Equal(t, mid, s.Undo().Checksum())
}

func TestRestoreClearsHistory(t *testing.T) {
	s := newTestSession(t, 0)
	startHumans(s)
	s.Dispatch(game.RollDice{Dice: &[2]int{1, 2}})

	saved := s.Snapshot()
	s.Dispatch(game.EndTurn{})
	s.Restore(saved)

	restored := s.Snapshot().Checksum()
	assert.Equal(t, saved.Checksum(), restored)
	assert.Equal(t, restored, s.Undo().Checksum(), "undo never crosses a restore")
}

func TestClosedSessionIgnoresDispatch(t *testing.T) {
	s := newTestSession(t, 0)
	startHumans(s)
	before := s.Snapshot().Checksum()

	s.Close()
	st := s.Dispatch(game.RollDice{Dice: &[2]int{1, 2}})
	assert.Equal(t, before, st.Checksum())
}

func TestListenersGetSnapshots(t *testing.T) {
	s := newTestSession(t, 0)
	got := make(chan *game.State, 8)
	s.Subscribe(func(st *game.State) { got <- st })

	startHumans(s)

	select {
	case st := <-got:
		assert.True(t, st.Started)
	case <-time.After(2 * time.Second):
		t.Fatal("listener never notified")
	}
}

func TestBotsPlayUnattended(t *testing.T) {
	s := newTestSession(t, 0)
	start := s.Dispatch(game.StartGame{Bots: 2}).TurnCount

	require.Eventually(t, func() bool {
		return s.Snapshot().TurnCount > start
	}, 5*time.Second, 20*time.Millisecond, "bots never completed a round")
}

func TestAuctionResolvesOnTimer(t *testing.T) {
	s := newTestSession(t, 0)
	startHumans(s)
	s.Dispatch(game.StartAuction{TileIDs: []int{1}})
	s.Dispatch(game.BidAuction{PlayerID: 1, Amount: 80})

	require.Eventually(t, func() bool {
		st := s.Snapshot()
		return st.Auction == nil && st.Tiles[1].Owner == 1
	}, 5*time.Second, 50*time.Millisecond, "auction never resolved")
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Hour)
	defer m.Shutdown()

	e := game.NewEngine(board.New(), zap.NewNop(), game.Tuning{Seed: 1})
	s := m.Create(e, 0, time.Second)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	m.Remove(s.ID)
	assert.Equal(t, 0, m.Count())
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}
