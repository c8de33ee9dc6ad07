package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the landak server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
	Replay   ReplayConfig   `mapstructure:"replay"`
}

// ServerConfig holds the websocket transport settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// DatabaseConfig holds the save-slot repository settings.
// The repository is optional; with Enabled=false the server runs purely
// in-memory.
type DatabaseConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	URL      string        `mapstructure:"url"`
	MaxConns int32         `mapstructure:"max_conns"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// GameConfig tunes the game rules that are deployment-adjustable.
type GameConfig struct {
	Seed              int64 `mapstructure:"seed"` // 0 = derive from clock
	StartingCash      int   `mapstructure:"starting_cash"`
	GovernmentTerm    int   `mapstructure:"government_term"`     // rounds per regime
	AuctionOpenSecs   int   `mapstructure:"auction_open_secs"`   // countdown when auction opens
	AuctionBidSecs    int   `mapstructure:"auction_bid_secs"`    // countdown reset after a bid
	BotThinkDelay     time.Duration `mapstructure:"bot_think_delay"`
	HistoryDepth      int   `mapstructure:"history_depth"` // undo snapshots kept
}

// ReplayConfig controls replay recording.
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

// Load reads configuration from the given file path, applying defaults
// for anything unset. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.timeout", 5*time.Second)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.starting_cash", 1500)
	v.SetDefault("game.government_term", 7)
	v.SetDefault("game.auction_open_secs", 20)
	v.SetDefault("game.auction_bid_secs", 10)
	v.SetDefault("game.bot_think_delay", 1500*time.Millisecond)
	v.SetDefault("game.history_depth", 32)
	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.directory", "replays")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("database enabled but no url configured")
	}
	if c.Game.GovernmentTerm <= 0 {
		return fmt.Errorf("government_term must be positive, got %d", c.Game.GovernmentTerm)
	}
	if c.Game.StartingCash < 0 {
		return fmt.Errorf("starting_cash must not be negative, got %d", c.Game.StartingCash)
	}
	return nil
}
