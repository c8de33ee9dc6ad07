package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/artiako/landak-server/internal/board"
	"github.com/artiako/landak-server/internal/config"
	"github.com/artiako/landak-server/internal/game"
	"github.com/artiako/landak-server/internal/repository"
	"github.com/artiako/landak-server/internal/server"
	"github.com/artiako/landak-server/internal/session"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting landak server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var db *repository.DB
	if cfg.Database.Enabled {
		db, err = repository.Connect(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure database schema", zap.Error(err))
		}
	} else {
		logger.Info("database disabled; save slots unavailable")
	}
	games := repository.NewGameRepository(db)

	b := board.New()
	logger.Info("board loaded", zap.Int("tiles", b.Size()))

	sessions := session.NewManager(logger, 2*time.Hour)
	defer sessions.Shutdown()

	recorder := game.NewReplayRecorder(logger, cfg.Replay.Directory)

	srv := server.New(cfg, logger, b, sessions, games, recorder)

	go func() {
		if serveErr := srv.ListenAndServe(); serveErr != nil {
			logger.Error("server error", zap.Error(serveErr))
		}
	}()

	logger.Info("landak server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
		zap.Bool("storage", cfg.Database.Enabled),
		zap.Bool("replays", cfg.Replay.Enabled),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", zap.Error(err))
	}

	logger.Info("landak server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
