package game

import (
	"encoding/json"
	"fmt"
)

// Action is the closed set of state transitions the reducer accepts.
// Each variant carries a strongly-typed payload; dispatch is exhaustive
// over this union. An action whose preconditions fail leaves the state
// unchanged apart from a log entry.
type Action interface {
	actionName() string
}

// HumanSeat configures one human player at game start.
type HumanSeat struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// StartGame seats humans and bots and opens play.
type StartGame struct {
	Humans []HumanSeat `json:"humans"`
	Bots   int         `json:"bots"`
}

// RollDice rolls for the current player. Dice may be pre-supplied for
// deterministic replays and tests; nil draws from the engine RNG.
type RollDice struct {
	Dice *[2]int `json:"dice,omitempty"`
}

// EndTurn passes play to the next alive player.
type EndTurn struct{}

// BuyProperty buys the unowned tile the current player stands on.
type BuyProperty struct{}

// PayRent settles rent for the tile the current player stands on.
type PayRent struct{}

// PayJailBail pays the fixed bail and releases the current player.
type PayJailBail struct{}

// TravelTransport hops between transport tiles for a flat fare.
type TravelTransport struct {
	DestID int `json:"destId"`
}

// StartAuction opens an auction for one or more tiles.
type StartAuction struct {
	TileIDs []int `json:"tileIds"`
}

// BidAuction places a bid in the open auction.
type BidAuction struct {
	PlayerID int `json:"playerId"`
	Amount   int `json:"amount"`
}

// WithdrawAuction removes a bidder from the eligible set.
type WithdrawAuction struct {
	PlayerID int `json:"playerId"`
}

// TickAuction advances the auction countdown by one second.
type TickAuction struct{}

// EndAuction resolves the open auction immediately.
type EndAuction struct{}

// ProposeTrade opens (or overwrites) the single trade slot.
type ProposeTrade struct {
	Offer TradeOffer `json:"offer"`
}

// AcceptTrade applies the open trade after revalidation.
type AcceptTrade struct{}

// RejectTrade discards the open trade.
type RejectTrade struct{}

// BuildImprovement adds a house (or hires a fiore worker) on a tile the
// current player holds as part of a full color group.
type BuildImprovement struct {
	TileID int `json:"tileId"`
}

// Mortgage mortgages an owned tile for half its price.
type Mortgage struct {
	TileID int `json:"tileId"`
}

// Unmortgage lifts a mortgage for 55% of the price.
type Unmortgage struct {
	TileID int `json:"tileId"`
}

// TakeLoan borrows from the bank at the flat loan interest rate.
type TakeLoan struct {
	Amount int `json:"amount"`
	Rounds int `json:"rounds"`
}

// PoolLoans securitizes active loans into a tradable unit pool.
type PoolLoans struct {
	Name    string   `json:"name"`
	LoanIDs []string `json:"loanIds"`
}

// BotResolve lets the current bot settle its landing (rent, purchase)
// before ending its turn.
type BotResolve struct{}

func (StartGame) actionName() string       { return "START_GAME" }
func (RollDice) actionName() string        { return "ROLL_DICE" }
func (EndTurn) actionName() string         { return "END_TURN" }
func (BuyProperty) actionName() string     { return "BUY_PROPERTY" }
func (PayRent) actionName() string         { return "PAY_RENT" }
func (PayJailBail) actionName() string     { return "PAY_JAIL" }
func (TravelTransport) actionName() string { return "TRAVEL_TRANSPORT" }
func (StartAuction) actionName() string    { return "START_AUCTION" }
func (BidAuction) actionName() string      { return "BID_AUCTION" }
func (WithdrawAuction) actionName() string { return "WITHDRAW_AUCTION" }
func (TickAuction) actionName() string     { return "TICK_AUCTION" }
func (EndAuction) actionName() string      { return "END_AUCTION" }
func (ProposeTrade) actionName() string    { return "PROPOSE_TRADE" }
func (AcceptTrade) actionName() string     { return "ACCEPT_TRADE" }
func (RejectTrade) actionName() string     { return "REJECT_TRADE" }
func (BuildImprovement) actionName() string { return "BUILD_IMPROVEMENT" }
func (Mortgage) actionName() string        { return "MORTGAGE" }
func (Unmortgage) actionName() string      { return "UNMORTGAGE" }
func (TakeLoan) actionName() string        { return "TAKE_LOAN" }
func (PoolLoans) actionName() string       { return "POOL_LOANS" }
func (BotResolve) actionName() string      { return "BOT_RESOLVE" }

// ActionName returns the wire name of an action.
func ActionName(a Action) string { return a.actionName() }

// DecodeAction turns a wire envelope (type name + JSON payload) into a
// typed action. Unknown names are an error; the transport rejects them
// before they reach the reducer.
func DecodeAction(name string, payload json.RawMessage) (Action, error) {
	decode := func(dst Action) (Action, error) {
		if len(payload) == 0 {
			return dst, nil
		}
		if err := json.Unmarshal(payload, dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", name, err)
		}
		return dst, nil
	}

	switch name {
	case "START_GAME":
		a, err := decode(&StartGame{})
		if err != nil {
			return nil, err
		}
		return *a.(*StartGame), nil
	case "ROLL_DICE":
		a, err := decode(&RollDice{})
		if err != nil {
			return nil, err
		}
		return *a.(*RollDice), nil
	case "END_TURN":
		return EndTurn{}, nil
	case "BUY_PROPERTY":
		return BuyProperty{}, nil
	case "PAY_RENT":
		return PayRent{}, nil
	case "PAY_JAIL":
		return PayJailBail{}, nil
	case "TRAVEL_TRANSPORT":
		a, err := decode(&TravelTransport{})
		if err != nil {
			return nil, err
		}
		return *a.(*TravelTransport), nil
	case "START_AUCTION":
		a, err := decode(&StartAuction{})
		if err != nil {
			return nil, err
		}
		return *a.(*StartAuction), nil
	case "BID_AUCTION":
		a, err := decode(&BidAuction{})
		if err != nil {
			return nil, err
		}
		return *a.(*BidAuction), nil
	case "WITHDRAW_AUCTION":
		a, err := decode(&WithdrawAuction{})
		if err != nil {
			return nil, err
		}
		return *a.(*WithdrawAuction), nil
	case "TICK_AUCTION":
		return TickAuction{}, nil
	case "END_AUCTION":
		return EndAuction{}, nil
	case "PROPOSE_TRADE":
		a, err := decode(&ProposeTrade{})
		if err != nil {
			return nil, err
		}
		return *a.(*ProposeTrade), nil
	case "ACCEPT_TRADE":
		return AcceptTrade{}, nil
	case "REJECT_TRADE":
		return RejectTrade{}, nil
	case "BUILD_IMPROVEMENT":
		a, err := decode(&BuildImprovement{})
		if err != nil {
			return nil, err
		}
		return *a.(*BuildImprovement), nil
	case "MORTGAGE":
		a, err := decode(&Mortgage{})
		if err != nil {
			return nil, err
		}
		return *a.(*Mortgage), nil
	case "UNMORTGAGE":
		a, err := decode(&Unmortgage{})
		if err != nil {
			return nil, err
		}
		return *a.(*Unmortgage), nil
	case "TAKE_LOAN":
		a, err := decode(&TakeLoan{})
		if err != nil {
			return nil, err
		}
		return *a.(*TakeLoan), nil
	case "POOL_LOANS":
		a, err := decode(&PoolLoans{})
		if err != nil {
			return nil, err
		}
		return *a.(*PoolLoans), nil
	case "BOT_RESOLVE":
		return BotResolve{}, nil
	}
	return nil, fmt.Errorf("unknown action %q", name)
}
