package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/artiako/landak-server/internal/game"
)

// Listener receives the new state after every dispatch.
type Listener func(*game.State)

// Session owns one running game: the engine, the current state, a
// bounded undo history and the timers that drive auctions and bots.
// All access goes through the session mutex; the engine itself is pure.
type Session struct {
	ID     string
	engine *game.Engine
	logger *zap.Logger

	mu           sync.Mutex
	state        *game.State
	history      []*game.State
	historyDepth int

	// generation invalidates in-flight timers: every dispatch bumps it,
	// and a timer fired for an older generation is a no-op.
	generation int

	botDelay  time.Duration
	listeners []Listener

	lastActivity time.Time
	closed       bool
}

// New creates a session around a fresh game state.
func New(id string, engine *game.Engine, logger *zap.Logger, historyDepth int, botDelay time.Duration) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if historyDepth <= 0 {
		historyDepth = 32
	}
	if botDelay <= 0 {
		botDelay = time.Second
	}
	return &Session{
		ID:           id,
		engine:       engine,
		logger:       logger,
		state:        engine.NewGame(),
		historyDepth: historyDepth,
		botDelay:     botDelay,
		lastActivity: time.Now(),
	}
}

// Subscribe registers a listener for post-dispatch snapshots.
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() *game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Restore replaces the session state, e.g. after loading a save slot.
// History is cleared: undo never crosses a restore.
func (s *Session) Restore(st *game.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.Clone()
	s.history = nil
	s.generation++
	s.lastActivity = time.Now()
	s.notifyLocked()
	s.armTimersLocked()
}

// Dispatch applies one action and returns the resulting snapshot.
func (s *Session) Dispatch(a game.Action) *game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(a)
}

func (s *Session) dispatchLocked(a game.Action) *game.State {
	if s.closed {
		return s.state.Clone()
	}

	s.history = append(s.history, s.state)
	if len(s.history) > s.historyDepth {
		s.history = s.history[len(s.history)-s.historyDepth:]
	}

	s.state = s.engine.Reduce(s.state, a)
	s.generation++
	s.lastActivity = time.Now()

	s.notifyLocked()
	s.armTimersLocked()
	return s.state.Clone()
}

// Undo rolls back to the previous snapshot, if any.
func (s *Session) Undo() *game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.history); n > 0 {
		s.state = s.history[n-1]
		s.history = s.history[:n-1]
		s.generation++
		s.lastActivity = time.Now()
		s.notifyLocked()
	}
	return s.state.Clone()
}

// LastActivity reports when the session was last dispatched to.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Close stops every timer the session may still have armed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
}

func (s *Session) notifyLocked() {
	snap := s.state.Clone()
	for _, l := range s.listeners {
		go l(snap)
	}
}

// armTimersLocked schedules whatever automatic follow-up the new state
// calls for: the auction countdown, a pending bot turn, or a trade
// answer from a bot. Each timer captures the current generation and
// gives up if the state moved on before it fired.
func (s *Session) armTimersLocked() {
	gen := s.generation
	st := s.state

	if st.Auction != nil && st.Auction.Open {
		time.AfterFunc(time.Second, func() { s.fireIfCurrent(gen, game.TickAuction{}) })
	}

	if st.Trade != nil && st.Trade.Open {
		if target := targetPlayer(st); target != nil && target.IsBot {
			offer := *st.Trade
			time.AfterFunc(s.botDelay, func() {
				s.answerTradeAsBot(gen, offer)
			})
			return
		}
	}

	if st.Started && st.Auction == nil {
		if cur := currentPlayer(st); cur != nil && cur.IsBot && cur.Alive {
			time.AfterFunc(s.botDelay, func() { s.playBotTurn(gen) })
		}
	}
}

// fireIfCurrent dispatches the action only if the state has not moved
// on since the timer was armed.
func (s *Session) fireIfCurrent(gen int, a game.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.generation != gen {
		return
	}
	s.dispatchLocked(a)
}

// playBotTurn runs the whole bot turn in one locked sequence: roll,
// settle the landing, end the turn. The roll may chain (doubles), so it
// loops until the bot has actually rolled.
func (s *Session) playBotTurn(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.generation != gen {
		return
	}
	st := s.state
	cur := currentPlayer(st)
	if cur == nil || !cur.IsBot || !cur.Alive {
		return
	}

	for i := 0; i < 4 && !s.state.Rolled; i++ {
		s.dispatchLocked(game.RollDice{})
		if p := currentPlayer(s.state); p != nil && p.JailTurns > 0 {
			break
		}
	}
	s.dispatchLocked(game.BotResolve{})
	s.dispatchLocked(game.EndTurn{})
}

// answerTradeAsBot accepts or rejects the open trade on behalf of the
// bot it targets.
func (s *Session) answerTradeAsBot(gen int, offer game.TradeOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.generation != gen {
		return
	}
	if s.state.Trade == nil || !s.state.Trade.Open {
		return
	}
	if s.engine.EvaluateTradeAsBot(s.state, offer) {
		s.dispatchLocked(game.AcceptTrade{})
	} else {
		s.dispatchLocked(game.RejectTrade{})
	}
}

func currentPlayer(st *game.State) *game.Player {
	if !st.Started || st.CurrentPlayer < 0 || st.CurrentPlayer >= len(st.Players) {
		return nil
	}
	return &st.Players[st.CurrentPlayer]
}

func targetPlayer(st *game.State) *game.Player {
	if st.Trade == nil || st.Trade.TargetID < 0 || st.Trade.TargetID >= len(st.Players) {
		return nil
	}
	return &st.Players[st.Trade.TargetID]
}
