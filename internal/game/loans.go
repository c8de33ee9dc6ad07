package game

import (
	"math"

	"github.com/google/uuid"
)

// LoanStatus is the lifecycle of a bank loan.
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanPaid      LoanStatus = "paid"
	LoanDefaulted LoanStatus = "defaulted"
)

// Loan is one player debt to the State, amortized linearly once per full
// round.
type Loan struct {
	ID         string     `json:"id"`
	BorrowerID int        `json:"borrowerId"`
	Principal  int        `json:"principal"`
	Interest   int        `json:"interest"`
	TermRounds int        `json:"termRounds"`
	RoundsLeft int        `json:"roundsLeft"`
	PerRound   int        `json:"perRound"`
	Status     LoanStatus `json:"status"`
	PoolID     string     `json:"poolId,omitempty"`
}

// LoanPool is a securitized bundle of loans. Repayments on pooled loans
// accrue to the pool's cash and are distributed pro-rata to unit holders
// at the round boundary.
type LoanPool struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	LoanIDs    []string       `json:"loanIds"`
	UnitsTotal int            `json:"unitsTotal"`
	Holdings   map[int]int    `json:"holdings"` // playerID -> units
	Cash       int            `json:"cash"`
}

const poolUnits = 100

// takeLoan lends bank money to the current player. The rate is the flat
// loan interest adjusted by the regime's interest modifier.
func (e *Engine) takeLoan(s *State, amount, rounds int) {
	p := s.current()
	if amount <= 0 || rounds <= 0 {
		s.logf("Préstamo inválido.")
		return
	}
	rate := LoanInterestRate + s.Government.Config.Interest
	if rate < 0 {
		rate = 0
	}
	interest := int(math.Floor(float64(amount) * rate))
	loan := Loan{
		ID:         uuid.NewString(),
		BorrowerID: p.ID,
		Principal:  amount,
		Interest:   interest,
		TermRounds: rounds,
		RoundsLeft: rounds,
		PerRound:   (amount + interest) / rounds,
		Status:     LoanActive,
	}
	p.Cash += amount
	s.BankCash -= amount
	s.Loans = append(s.Loans, loan)
	s.logf("%s toma un préstamo de $%d (interés $%d, %d rondas).",
		p.Name, amount, interest, rounds)
}

// poolLoans securitizes the listed active, unpooled loans of any
// borrower into a unit pool held entirely by the current player.
func (e *Engine) poolLoans(s *State, name string, loanIDs []string) {
	if len(loanIDs) == 0 {
		s.logf("Pool vacío: nada que titulizar.")
		return
	}
	creator := s.current()
	pool := LoanPool{
		ID:         uuid.NewString(),
		Name:       name,
		UnitsTotal: poolUnits,
		Holdings:   map[int]int{creator.ID: poolUnits},
	}
	for _, id := range loanIDs {
		loan := s.loan(id)
		if loan == nil || loan.Status != LoanActive || loan.PoolID != "" {
			s.logf("Pool rechazado: préstamo %s no disponible.", id)
			return
		}
	}
	for _, id := range loanIDs {
		loan := s.loan(id)
		loan.PoolID = pool.ID
		pool.LoanIDs = append(pool.LoanIDs, id)
	}
	s.Pools = append(s.Pools, pool)
	s.logf("%s crea el pool %q con %d préstamos.", creator.Name, name, len(pool.LoanIDs))
}

func (s *State) loan(id string) *Loan {
	for i := range s.Loans {
		if s.Loans[i].ID == id {
			return &s.Loans[i]
		}
	}
	return nil
}

func (s *State) pool(id string) *LoanPool {
	for i := range s.Pools {
		if s.Pools[i].ID == id {
			return &s.Pools[i]
		}
	}
	return nil
}

// amortizeLoans collects one round's payment on every active loan. A
// borrower who cannot cover the payment defaults and stops paying.
// Payments on pooled loans accrue to the pool instead of the bank.
func (e *Engine) amortizeLoans(s *State) {
	for i := range s.Loans {
		loan := &s.Loans[i]
		if loan.Status != LoanActive {
			continue
		}
		p := s.player(loan.BorrowerID)
		if p == nil || !p.Alive {
			loan.Status = LoanDefaulted
			continue
		}
		if p.Cash < loan.PerRound {
			loan.Status = LoanDefaulted
			s.logf("%s entra en impago del préstamo de $%d.", p.Name, loan.Principal)
			continue
		}
		p.Cash -= loan.PerRound
		if pool := s.pool(loan.PoolID); pool != nil {
			pool.Cash += loan.PerRound
		} else {
			s.BankCash += loan.PerRound
		}
		loan.RoundsLeft--
		if loan.RoundsLeft <= 0 {
			loan.Status = LoanPaid
			s.logf("%s liquida su préstamo de $%d.", p.Name, loan.Principal)
		}
	}
}

// distributePoolDividends pays out each pool's accrued cash pro-rata to
// its unit holders. Remainders stay in the pool.
func (e *Engine) distributePoolDividends(s *State) {
	for i := range s.Pools {
		pool := &s.Pools[i]
		if pool.Cash <= 0 || pool.UnitsTotal == 0 {
			continue
		}
		perUnit := pool.Cash / pool.UnitsTotal
		if perUnit == 0 {
			continue
		}
		for holderID, units := range pool.Holdings {
			h := s.player(holderID)
			if h == nil || !h.Alive {
				continue
			}
			payout := perUnit * units
			h.Cash += payout
			pool.Cash -= payout
		}
	}
}
