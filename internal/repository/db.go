package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DB wraps the pgx pool. A nil DB is the storage-disabled mode: every
// repository call fails with ErrStorageDisabled and the server keeps
// running on in-memory sessions only.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect opens the pool and pings it once.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("connected to database")
	return &DB{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the tables the repositories need.
func (db *DB) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS game_saves (
    slot      TEXT PRIMARY KEY,
    checksum  TEXT NOT NULL,
    state     JSONB NOT NULL,
    saved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (db *DB) Close() {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
}
