package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SaveDocument is the on-disk / in-database form of one game. The
// checksum guards against divergent states across replays or storage.
type SaveDocument struct {
	Version   int       `json:"version"`
	SavedAt   time.Time `json:"savedAt"`
	Checksum  string    `json:"checksum"`
	State     *State    `json:"state"`
}

const saveVersion = 1

// Checksum computes a deterministic SHA-256 over a canonical
// representation of the state. Fields whose order is unstable (the
// heatmap, pool holdings) are emitted sorted; everything positional is
// emitted in order.
func (s *State) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonicalRepresentation()))
	return hex.EncodeToString(sum[:])
}

// canonicalRepresentation renders the state as a stable line-oriented
// string, independent of map iteration order.
func (s *State) canonicalRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%d|%d|%d,%d|%t|%d|%t\n",
		s.CurrentPlayer, s.TurnCount, s.Dice[0], s.Dice[1], s.Rolled, s.BankCash, s.Started)
	fmt.Fprintf(&buf, "GOV:%s|%d\n", s.Government.Type, s.Government.TurnsLeft)
	fmt.Fprintf(&buf, "SUPPLY:%d|%d\n", s.HousesAvail, s.HotelsAvail)
	fmt.Fprintf(&buf, "RENTMOD:%.4f|%d\n", s.RentMul, s.RentMulRounds)
	if s.RentCap != nil {
		fmt.Fprintf(&buf, "RENTCAP:%d|%d\n", s.RentCap.Amount, s.RentCap.Rounds)
	}
	for _, f := range s.RentFilters {
		fmt.Fprintf(&buf, "FILTER:%s|%s|%.4f|%d|%s|%d\n", f.ID, f.Kind, f.Mul, f.Rounds, f.Family, f.Owner)
	}

	for i := range s.Players {
		p := &s.Players[i]
		owned := make([]string, len(p.OwnedTiles))
		for j, id := range p.OwnedTiles {
			owned[j] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%d|%d|%d|%t|%t|%s|%s|%d|%s\n",
			p.ID, p.Name, p.Cash, p.Pos, p.JailTurns, p.IsBot, p.Alive,
			p.Role, p.Gender, p.DoubleStreak, strings.Join(owned, ","))
	}

	for id, ts := range s.Tiles {
		if ts.Owner == Unowned && ts.Houses == 0 && !ts.Hotel && !ts.Mortgaged && ts.Workers == 0 {
			continue
		}
		fmt.Fprintf(&buf, "TILE:%d|%d|%d|%t|%t|%d\n",
			id, ts.Owner, ts.Houses, ts.Hotel, ts.Mortgaged, ts.Workers)
	}

	if s.Auction != nil {
		a := s.Auction
		tiles := joinInts(a.TileIDs)
		eligible := joinInts(a.Eligible)
		fmt.Fprintf(&buf, "AUCTION:%s|%d|%d|%s|%d|%t\n",
			tiles, a.CurrentBid, a.HighestBidder, eligible, a.SecondsLeft, a.Open)
	}
	if s.Trade != nil {
		t := s.Trade
		fmt.Fprintf(&buf, "TRADE:%d|%d|%d|%s|%d|%s|%t\n",
			t.InitiatorID, t.TargetID, t.OfferedCash, joinInts(t.OfferedTiles),
			t.RequestedCash, joinInts(t.RequestedTiles), t.Open)
	}

	for i := range s.Loans {
		l := &s.Loans[i]
		fmt.Fprintf(&buf, "LOAN:%s|%d|%d|%d|%d|%s|%s\n",
			l.ID, l.BorrowerID, l.Principal, l.PerRound, l.RoundsLeft, l.Status, l.PoolID)
	}
	for i := range s.Pools {
		p := &s.Pools[i]
		holders := make([]int, 0, len(p.Holdings))
		for h := range p.Holdings {
			holders = append(holders, h)
		}
		sort.Ints(holders)
		hparts := make([]string, len(holders))
		for j, h := range holders {
			hparts[j] = fmt.Sprintf("%d=%d", h, p.Holdings[h])
		}
		fmt.Fprintf(&buf, "POOL:%s|%s|%d|%d|%s|%s\n",
			p.ID, p.Name, p.UnitsTotal, p.Cash,
			strings.Join(p.LoanIDs, ","), strings.Join(hparts, ","))
	}

	heatKeys := make([]int, 0, len(s.Heatmap))
	for k := range s.Heatmap {
		heatKeys = append(heatKeys, k)
	}
	sort.Ints(heatKeys)
	for _, k := range heatKeys {
		fmt.Fprintf(&buf, "HEAT:%d=%d\n", k, s.Heatmap[k])
	}

	return buf.String()
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// Save wraps the state in a versioned document with its checksum.
func (s *State) Save() (*SaveDocument, error) {
	return &SaveDocument{
		Version:  saveVersion,
		SavedAt:  time.Now().UTC(),
		Checksum: s.Checksum(),
		State:    s,
	}, nil
}

// Marshal renders the save document as JSON.
func (d *SaveDocument) Marshal() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal save document: %w", err)
	}
	return data, nil
}

// LoadSaveDocument parses a save document and verifies its checksum.
func LoadSaveDocument(data []byte) (*SaveDocument, error) {
	var doc SaveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal save document: %w", err)
	}
	if doc.State == nil {
		return nil, fmt.Errorf("save document has no state")
	}
	if doc.Checksum != "" && doc.Checksum != doc.State.Checksum() {
		return nil, fmt.Errorf("save document checksum mismatch")
	}
	return &doc, nil
}
