package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/artiako/landak-server/internal/game"
)

// ErrStorageDisabled is returned by every repository call when the
// server runs without a database.
var ErrStorageDisabled = errors.New("storage disabled")

// ErrSlotNotFound is returned when a save slot does not exist.
var ErrSlotNotFound = errors.New("save slot not found")

// SlotInfo describes one save slot without its state payload.
type SlotInfo struct {
	Slot     string    `json:"slot"`
	Checksum string    `json:"checksum"`
	SavedAt  time.Time `json:"savedAt"`
}

// GameRepository persists game states by named slot.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates the repository. db may be nil.
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// Save upserts the state into the slot.
func (r *GameRepository) Save(ctx context.Context, slot string, st *game.State) error {
	if r.db == nil {
		return ErrStorageDisabled
	}
	doc, err := st.Save()
	if err != nil {
		return fmt.Errorf("build save document: %w", err)
	}
	payload, err := doc.Marshal()
	if err != nil {
		return err
	}

	const q = `
INSERT INTO game_saves (slot, checksum, state, saved_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (slot) DO UPDATE
SET checksum = EXCLUDED.checksum, state = EXCLUDED.state, saved_at = now();`
	if _, err := r.db.pool.Exec(ctx, q, slot, doc.Checksum, payload); err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	r.db.logger.Info("game saved", zap.String("slot", slot), zap.String("checksum", doc.Checksum))
	return nil
}

// Load reads a slot back and verifies its checksum.
func (r *GameRepository) Load(ctx context.Context, slot string) (*game.State, error) {
	if r.db == nil {
		return nil, ErrStorageDisabled
	}

	const q = `SELECT state FROM game_saves WHERE slot = $1;`
	var payload []byte
	if err := r.db.pool.QueryRow(ctx, q, slot).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("load slot %q: %w", slot, err)
	}

	doc, err := game.LoadSaveDocument(payload)
	if err != nil {
		return nil, fmt.Errorf("decode slot %q: %w", slot, err)
	}
	return doc.State, nil
}

// List returns every slot, newest first.
func (r *GameRepository) List(ctx context.Context) ([]SlotInfo, error) {
	if r.db == nil {
		return nil, ErrStorageDisabled
	}

	const q = `SELECT slot, checksum, saved_at FROM game_saves ORDER BY saved_at DESC;`
	rows, err := r.db.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.Checksum, &info.SavedAt); err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a slot.
func (r *GameRepository) Delete(ctx context.Context, slot string) error {
	if r.db == nil {
		return ErrStorageDisabled
	}
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM game_saves WHERE slot = $1;`, slot)
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}
