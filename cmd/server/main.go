package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zappabad/bullrun/internal/api"
	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/config"
	"github.com/zappabad/bullrun/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	sessionDefaults := session.Config{
		Difficulty:     catalog.Difficulty(cfg.Game.Difficulty),
		Seed:           cfg.Game.Seed,
		TimerInterval:  cfg.Game.TimerInterval,
		MarketInterval: cfg.Game.MarketInterval,
		ImpactDelay:    cfg.Game.ImpactDelay,
		OpportunityTTL: cfg.Game.OpportunityTTL,
	}

	apiSrv := api.New(api.Options{
		SessionDefaults: sessionDefaults,
		MaxSessions:     cfg.Game.MaxSessions,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      apiSrv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("bullrun listening", "addr", cfg.Server.Addr, "difficulty", cfg.Game.Difficulty)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down...")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	apiSrv.Shutdown()
	logger.Info("stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
