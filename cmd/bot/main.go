package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/app"
	"github.com/hazel/mudae-tracker-go/internal/config"
	"github.com/hazel/mudae-tracker-go/internal/util"
)

const buildTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mudae-tracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Mudae tracker starting...",
		zap.String("log_level", cfg.Logging.Level),
		zap.String("channel_id", cfg.Discord.ChannelID),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), buildTimeout)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		return fmt.Errorf("assemble services: %w", err)
	}
	defer container.Close()

	trackerBot, err := container.NewBot()
	if err != nil {
		return fmt.Errorf("init bot: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if startErr := trackerBot.Start(ctx); startErr != nil {
			errCh <- startErr
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("Bot error", zap.Error(err))
	}

	logger.Info("Shutting down gracefully...")
	cancel()
	trackerBot.Stop()
	logger.Info("Shutdown complete")
	return nil
}
