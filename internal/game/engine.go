package game

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/artiako/landak-server/internal/board"
)

// Tuning carries the knobs a session can override. Zero values fall back
// to the canonical defaults.
type Tuning struct {
	Seed            int64
	StartingCash    int
	GovernmentTerm  int
	AuctionOpenSecs int
	AuctionBidSecs  int
}

func (t *Tuning) fillDefaults() {
	if t.StartingCash == 0 {
		t.StartingCash = StartingCash
	}
	if t.GovernmentTerm == 0 {
		t.GovernmentTerm = GovernmentTermRounds
	}
	if t.AuctionOpenSecs == 0 {
		t.AuctionOpenSecs = AuctionOpenSeconds
	}
	if t.AuctionBidSecs == 0 {
		t.AuctionBidSecs = AuctionBidSeconds
	}
}

// Engine is the pure rule core. It holds no game state of its own: every
// Reduce call takes a State, clones it, applies one Action and returns
// the clone. The only nondeterminism is the seeded RNG, so a fixed seed
// plus a fixed action sequence replays to an identical state.
type Engine struct {
	board  *board.Board
	rng    *rand.Rand
	logger *zap.Logger

	startingCash    int
	governmentTerm  int
	auctionOpenSecs int
	auctionBidSecs  int
}

// NewEngine builds an engine over the given board. A nil logger is
// replaced with a no-op one.
func NewEngine(b *board.Board, logger *zap.Logger, tn Tuning) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	tn.fillDefaults()
	return &Engine{
		board:           b,
		rng:             rand.New(rand.NewSource(tn.Seed)),
		logger:          logger,
		startingCash:    tn.StartingCash,
		governmentTerm:  tn.GovernmentTerm,
		auctionOpenSecs: tn.AuctionOpenSecs,
		auctionBidSecs:  tn.AuctionBidSecs,
	}
}

// Board exposes the immutable board the engine plays on.
func (e *Engine) Board() *board.Board { return e.board }

// NewGame returns the pre-seating state for this engine's board.
func (e *Engine) NewGame() *State { return NewState(e.board) }

// Reduce applies one action to a clone of s and returns the clone. The
// input state is never touched. Unknown or precondition-failing actions
// come back as the clone with only a log entry, never a panic.
func (e *Engine) Reduce(s *State, a Action) *State {
	next := s.Clone()

	e.logger.Debug("dispatch",
		zap.String("action", a.actionName()),
		zap.Int("currentPlayer", next.CurrentPlayer),
		zap.Int("turn", next.TurnCount))

	switch act := a.(type) {
	case StartGame:
		e.startGame(next, act.Humans, act.Bots)
	case RollDice:
		e.rollDice(next, act.Dice)
	case EndTurn:
		e.endTurn(next)
	case BuyProperty:
		e.buyProperty(next)
	case PayRent:
		e.payRent(next)
	case PayJailBail:
		e.payJailBail(next)
	case TravelTransport:
		e.travelTransport(next, act.DestID)
	case StartAuction:
		e.startAuction(next, act.TileIDs)
	case BidAuction:
		e.bidAuction(next, act.PlayerID, act.Amount)
	case WithdrawAuction:
		e.withdrawAuction(next, act.PlayerID)
	case TickAuction:
		e.tickAuction(next)
	case EndAuction:
		e.resolveAuction(next)
	case ProposeTrade:
		e.proposeTrade(next, act.Offer)
	case AcceptTrade:
		e.acceptTrade(next)
	case RejectTrade:
		e.rejectTrade(next)
	case BuildImprovement:
		e.buildImprovement(next, act.TileID)
	case Mortgage:
		e.mortgage(next, act.TileID)
	case Unmortgage:
		e.unmortgage(next, act.TileID)
	case TakeLoan:
		e.takeLoan(next, act.Amount, act.Rounds)
	case PoolLoans:
		e.poolLoans(next, act.Name, act.LoanIDs)
	case BotResolve:
		e.botResolve(next)
	default:
		next.logf("Acción desconocida: %s", a.actionName())
	}

	e.repairState(next)
	return next
}
