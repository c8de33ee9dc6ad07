package game

import "math"

// EventDef is one entry of the chance deck. Effects are applied
// atomically inside the same transition as the landing that drew them.
type EventDef struct {
	ID          string
	Title       string
	Description string
	Apply       func(e *Engine, s *State, playerIdx int)
}

// eventRoundDuration is how many rounds temporary modifiers last.
const eventRoundDuration = 3

// EventDeck is the fixed table of drawable events; draws are uniform.
var EventDeck = []EventDef{
	{
		ID:          "ev_bank_error",
		Title:       "Error Bancario",
		Description: "El sistema falla a tu favor. El Estado pierde dinero, tú ganas.",
		Apply: func(e *Engine, s *State, idx int) {
			p := &s.Players[idx]
			p.Cash += 200
			s.BankCash -= 200
			s.logf("%s recibe $200 por error del sistema.", p.Name)
		},
	},
	{
		ID:          "ev_speeding",
		Title:       "Radar de Tráfico",
		Description: "Multa por exceso de velocidad.",
		Apply: func(e *Engine, s *State, idx int) {
			p := &s.Players[idx]
			p.Cash -= 100
			s.BankCash += 100
			s.logf("%s paga multa de $100 al Estado.", p.Name)
		},
	},
	{
		ID:          "ev_tax_inspection",
		Title:       "Inspección de Hacienda",
		Description: "Si tienes más de $2000, pagas un 20% de tu efectivo al Estado.",
		Apply: func(e *Engine, s *State, idx int) {
			p := &s.Players[idx]
			if p.Cash > 2000 {
				tax := int(math.Floor(float64(p.Cash) * 0.20))
				p.Cash -= tax
				s.BankCash += tax
				s.logf("Hacienda inspecciona a %s: paga $%d.", p.Name, tax)
			} else {
				s.logf("Hacienda inspecciona a %s: está limpio (o pobre).", p.Name)
			}
		},
	},
	{
		ID:          "ev_subsidy",
		Title:       "Subvención Cultural",
		Description: "El gobierno te da una ayuda para promover la cultura.",
		Apply: func(e *Engine, s *State, idx int) {
			p := &s.Players[idx]
			p.Cash += 150
			s.BankCash -= 150
			s.logf("%s recibe subvención de $150.", p.Name)
		},
	},
	{
		ID:          "ev_repairs",
		Title:       "Derrama en Propiedades",
		Description: "Pagas $40 por cada casa y $115 por cada hotel.",
		Apply: func(e *Engine, s *State, idx int) {
			p := &s.Players[idx]
			cost := 0
			for id := range s.Tiles {
				ts := s.Tiles[id]
				if ts.Owner != p.ID {
					continue
				}
				if ts.Hotel {
					cost += 115
				} else {
					cost += ts.Houses * 40
				}
			}
			if cost > 0 {
				p.Cash -= cost
				// Half the spend reaches the State as works VAT; the
				// rest burns in repairs.
				s.BankCash += cost / 2
				s.logf("%s paga $%d por reparaciones.", p.Name, cost)
			} else {
				s.logf("%s no tiene edificios que reparar.", p.Name)
			}
		},
	},
	{
		ID:          "ev_corruption",
		Title:       "Escándalo de Corrupción",
		Description: "Pagas $50 a cada otro jugador para silenciarlos.",
		Apply: func(e *Engine, s *State, idx int) {
			payer := &s.Players[idx]
			for i := range s.Players {
				if i == idx || !s.Players[i].Alive {
					continue
				}
				payer.Cash -= 50
				s.Players[i].Cash += 50
			}
			s.logf("%s reparte sobornos a todos.", payer.Name)
		},
	},
	{
		ID:          "ev_trip",
		Title:       "Viaje a las Bahamas",
		Description: "Avanza hasta la Salida (cobras $200).",
		Apply: func(e *Engine, s *State, idx int) {
			p := &s.Players[idx]
			p.Pos = 0
			p.Cash += PassStartSalary
			s.BankCash -= PassStartSalary
			s.logf("%s viaja a la Salida.", p.Name)
		},
	},
	{
		ID:          "ev_back3",
		Title:       "Resaca Monumental",
		Description: "Retrocede 3 casillas.",
		Apply: func(e *Engine, s *State, idx int) {
			p := &s.Players[idx]
			p.Pos = (p.Pos - 3 + len(s.Tiles)) % len(s.Tiles)
			s.logf("%s retrocede 3 casillas.", p.Name)
		},
	},
	{
		ID:          "ev_inflation",
		Title:       "Inflación Galopante",
		Description: "Todos los alquileres suben un 50% durante 3 rondas.",
		Apply: func(e *Engine, s *State, idx int) {
			s.RentMul = 1.5
			s.RentMulRounds = eventRoundDuration
			s.logf("Inflación: alquileres x1.5 durante %d rondas.", eventRoundDuration)
		},
	},
	{
		ID:          "ev_crash",
		Title:       "Crack Bursátil",
		Description: "Todos los alquileres caen a la mitad durante 3 rondas.",
		Apply: func(e *Engine, s *State, idx int) {
			s.RentMul = 0.5
			s.RentMulRounds = eventRoundDuration
			s.logf("Crack: alquileres x0.5 durante %d rondas.", eventRoundDuration)
		},
	},
	{
		ID:          "ev_rent_freeze",
		Title:       "Congelación de Alquileres",
		Description: "Ningún alquiler puede superar $100 durante 3 rondas.",
		Apply: func(e *Engine, s *State, idx int) {
			s.RentCap = &RentCap{Amount: 100, Rounds: eventRoundDuration}
			s.logf("Alquileres congelados: tope $100 durante %d rondas.", eventRoundDuration)
		},
	},
	{
		ID:          "ev_tourism",
		Title:       "Turismo Masivo",
		Description: "El ocio factura un 50% más durante 3 rondas.",
		Apply: func(e *Engine, s *State, idx int) {
			s.RentFilters = append(s.RentFilters, RentFilter{
				ID:     "tourism",
				Mul:    1.5,
				Rounds: eventRoundDuration,
				Kind:   FilterLeisure,
			})
			s.logf("Turismo masivo: ocio x1.5 durante %d rondas.", eventRoundDuration)
		},
	},
}

// drawEvent picks a uniform random event and applies it.
func (e *Engine) drawEvent(s *State, playerIdx int) {
	evt := EventDeck[e.rng.Intn(len(EventDeck))]
	s.logf("SUERTE: %s", evt.Title)
	evt.Apply(e, s, playerIdx)
}

// decayEventModifiers ages temporary modifiers by one round and resets
// expired ones to neutral.
func decayEventModifiers(s *State) {
	if s.RentMulRounds > 0 {
		s.RentMulRounds--
		if s.RentMulRounds == 0 {
			s.RentMul = 1.0
		}
	}
	kept := s.RentFilters[:0]
	for _, f := range s.RentFilters {
		f.Rounds--
		if f.Rounds > 0 {
			kept = append(kept, f)
		}
	}
	s.RentFilters = kept
	if s.RentCap != nil {
		s.RentCap.Rounds--
		if s.RentCap.Rounds <= 0 {
			s.RentCap = nil
		}
	}
}
