package game

import (
	"fmt"
	"math"
	"strings"
)

// GovernmentType is one of the five regimes the economy cycles through.
type GovernmentType int

const (
	GovLeft GovernmentType = iota
	GovRight
	GovAuthoritarian
	GovLibertarian
	GovAnarchy
)

var governmentNames = map[GovernmentType]string{
	GovLeft:          "left",
	GovRight:         "right",
	GovAuthoritarian: "authoritarian",
	GovLibertarian:   "libertarian",
	GovAnarchy:       "anarchy",
}

func (g GovernmentType) String() string {
	if name, ok := governmentNames[g]; ok {
		return name
	}
	return fmt.Sprintf("GOV_%d", int(g))
}

// GovConfig is the numeric regime tuple: how hard the State taxes, how
// much it hands out, what it charges on credit, and its cut of rents.
type GovConfig struct {
	Tax      float64 `json:"tax"`
	Welfare  float64 `json:"welfare"`
	Interest float64 `json:"interest"`
	RentVAT  float64 `json:"rentVAT"`
}

// govConfigs is the canonical rule set (the reconciled one; the softer
// divergent variant was discarded).
var govConfigs = map[GovernmentType]GovConfig{
	GovLeft:          {Tax: 0.50, Welfare: 0.50, Interest: 0.15, RentVAT: 0.30},
	GovRight:         {Tax: -0.20, Welfare: -0.50, Interest: 0.05, RentVAT: 0.10},
	GovAuthoritarian: {Tax: 0.80, Welfare: -0.20, Interest: 0.20, RentVAT: 0.50},
	GovLibertarian:   {Tax: -1, Welfare: -1, Interest: -0.05, RentVAT: 0},
	GovAnarchy:       {Tax: 0, Welfare: 0, Interest: 0, RentVAT: 0},
}

// allGovernments lists every regime for uniform rotation draws.
var allGovernments = []GovernmentType{
	GovLeft, GovRight, GovAuthoritarian, GovLibertarian, GovAnarchy,
}

// Policy tuning constants.
const (
	GovernmentTermRounds = 7
	wealthTaxThreshold   = 1000
	wealthTaxFactor      = 0.1 // applied on top of the regime tax rate
	welfareThreshold     = 500
	welfareSubsidy       = 100
	demographicBonus     = 20
	anarchyLossChance    = 0.30
	anarchyLossAmount    = 50
)

// Government is the active regime plus its countdown.
type Government struct {
	Type      GovernmentType `json:"type"`
	Config    GovConfig      `json:"config"`
	TurnsLeft int            `json:"turnsLeft"`
}

// ConfigFor returns the canonical config tuple for a regime.
func ConfigFor(t GovernmentType) GovConfig { return govConfigs[t] }

// applyGovernmentPolicies runs the per-round lump effects on every alive
// player. All transfers are double entries against the bank except the
// anarchy loss, which vanishes.
func (e *Engine) applyGovernmentPolicies(s *State) {
	gov := s.Government.Type
	cfg := s.Government.Config
	govLabel := strings.ToUpper(gov.String())

	for i := range s.Players {
		p := &s.Players[i]
		if !p.Alive {
			continue
		}

		if cfg.Tax > 0 && p.Cash > wealthTaxThreshold {
			tax := int(math.Floor(float64(p.Cash) * cfg.Tax * wealthTaxFactor))
			if tax > 0 {
				p.Cash -= tax
				s.BankCash += tax
				s.logf("%s: %s paga impuesto patrimonio $%d.", govLabel, p.Name, tax)
			}
		}

		if cfg.Welfare > 0 && p.Cash < welfareThreshold {
			p.Cash += welfareSubsidy
			s.BankCash -= welfareSubsidy
			s.logf("%s: ayuda social de $%d para %s.", govLabel, welfareSubsidy, p.Name)
		}

		switch gov {
		case GovLeft:
			if p.Gender == GenderFemale || p.Gender == GenderMartian {
				p.Cash += demographicBonus
				s.BankCash -= demographicBonus
			}
		case GovRight:
			if p.Gender == GenderMale || p.Gender == GenderHelicopter {
				p.Cash += demographicBonus
				s.BankCash -= demographicBonus
			}
		case GovAnarchy:
			if e.rng.Float64() < anarchyLossChance {
				p.Cash -= anarchyLossAmount
				// The money disappears in the chaos; no bank entry.
				s.logf("ANARQUÍA: %s fue asaltado y perdió $%d.", p.Name, anarchyLossAmount)
			}
		}
	}
}

// tickGovernment decrements the regime countdown and rotates on zero.
// The replacement is a uniform draw over all five regimes; repeats are
// allowed.
func (e *Engine) tickGovernment(s *State) {
	if s.Government.TurnsLeft > 0 {
		s.Government.TurnsLeft--
	}
	if s.Government.TurnsLeft > 0 {
		return
	}
	next := allGovernments[e.rng.Intn(len(allGovernments))]
	s.Government = Government{
		Type:      next,
		Config:    govConfigs[next],
		TurnsLeft: e.governmentTerm,
	}
	s.logf("¡GOLPE DE TIMÓN! Nuevo gobierno: %s (duración: %d rondas)",
		strings.ToUpper(next.String()), e.governmentTerm)
}

// taxTileAmount returns what a tax tile charges under the active regime.
func taxTileAmount(s *State) int {
	switch s.Government.Type {
	case GovLibertarian, GovAnarchy:
		return 0
	}
	rate := s.Government.Config.Tax
	if rate < 0 {
		rate = 0
	}
	return int(math.Floor(float64(BaseTaxAmount) * (1 + rate)))
}
