package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeLoan(t *testing.T) {
	e := newTestEngine(6)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy) // interest modifier 0, flat 20% applies

	s = e.Reduce(s, TakeLoan{Amount: 500, Rounds: 5})

	require.Len(t, s.Loans, 1)
	loan := s.Loans[0]
	assert.Equal(t, 0, loan.BorrowerID)
	assert.Equal(t, 500, loan.Principal)
	assert.Equal(t, 100, loan.Interest, "20%% of 500")
	assert.Equal(t, 120, loan.PerRound, "(500+100)/5")
	assert.Equal(t, LoanActive, loan.Status)
	assert.Equal(t, StartingCash+500, s.Players[0].Cash)
	assert.Equal(t, -500, s.BankCash)
}

func TestLoanRateFollowsRegime(t *testing.T) {
	e := newTestEngine(6)
	s := startTwoPlayers(e)
	setGovernment(s, GovAuthoritarian) // +0.20 on top of the flat rate

	s = e.Reduce(s, TakeLoan{Amount: 500, Rounds: 5})
	require.Len(t, s.Loans, 1)
	assert.Equal(t, 200, s.Loans[0].Interest, "40%% of 500")
}

func TestAmortizeLoan(t *testing.T) {
	e := newTestEngine(6)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)
	s = e.Reduce(s, TakeLoan{Amount: 500, Rounds: 5})

	cash := s.Players[0].Cash
	bank := s.BankCash
	e.amortizeLoans(s)

	assert.Equal(t, cash-120, s.Players[0].Cash)
	assert.Equal(t, bank+120, s.BankCash)
	assert.Equal(t, 4, s.Loans[0].RoundsLeft)

	for i := 0; i < 4; i++ {
		e.amortizeLoans(s)
	}
	assert.Equal(t, LoanPaid, s.Loans[0].Status)
}

func TestLoanDefaultsWhenBroke(t *testing.T) {
	e := newTestEngine(6)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)
	s = e.Reduce(s, TakeLoan{Amount: 500, Rounds: 5})

	s.Players[0].Cash = 50 // below the 120 per-round payment
	e.amortizeLoans(s)

	assert.Equal(t, LoanDefaulted, s.Loans[0].Status)
	assert.Equal(t, 50, s.Players[0].Cash, "no partial collection")
}

func TestPoolLoans(t *testing.T) {
	e := newTestEngine(6)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)
	s = e.Reduce(s, TakeLoan{Amount: 500, Rounds: 5})
	loanID := s.Loans[0].ID

	s = e.Reduce(s, PoolLoans{Name: "Cesta Norte", LoanIDs: []string{loanID}})

	require.Len(t, s.Pools, 1)
	pool := s.Pools[0]
	assert.Equal(t, poolUnits, pool.UnitsTotal)
	assert.Equal(t, poolUnits, pool.Holdings[0], "creator holds every unit")
	assert.Equal(t, pool.ID, s.Loans[0].PoolID)
}

func TestPoolRejectsUnavailableLoans(t *testing.T) {
	e := newTestEngine(6)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)
	s = e.Reduce(s, TakeLoan{Amount: 500, Rounds: 5})
	loanID := s.Loans[0].ID
	s.Loans[0].Status = LoanDefaulted

	s = e.Reduce(s, PoolLoans{Name: "Cesta", LoanIDs: []string{loanID}})
	assert.Empty(t, s.Pools)
}

func TestPooledPaymentsFlowToHolders(t *testing.T) {
	e := newTestEngine(6)
	s := startTwoPlayers(e)
	setGovernment(s, GovAnarchy)
	s = e.Reduce(s, TakeLoan{Amount: 500, Rounds: 5})
	s = e.Reduce(s, PoolLoans{Name: "Cesta", LoanIDs: []string{s.Loans[0].ID}})

	bank := s.BankCash
	e.amortizeLoans(s)
	assert.Equal(t, bank, s.BankCash, "pooled payment bypasses the bank")
	assert.Equal(t, 120, s.Pools[0].Cash)

	holderCash := s.Players[0].Cash
	e.distributePoolDividends(s)
	// 120 / 100 units = 1 per unit, creator holds 100 units
	assert.Equal(t, holderCash+100, s.Players[0].Cash)
	assert.Equal(t, 20, s.Pools[0].Cash, "remainder stays in the pool")
}
