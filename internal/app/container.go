package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/adapter"
	"github.com/hazel/mudae-tracker-go/internal/bot"
	"github.com/hazel/mudae-tracker-go/internal/command"
	"github.com/hazel/mudae-tracker-go/internal/config"
	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/service/cache"
	"github.com/hazel/mudae-tracker-go/internal/service/database"
	"github.com/hazel/mudae-tracker-go/internal/service/member"
	"github.com/hazel/mudae-tracker-go/internal/tracker"
)

// Container bundles assembled services for constructing runtime components
// like Bot.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
	closers []func()
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Close releases infrastructure in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles all infrastructure services and returns a container
// capable of creating fully-wired bots. Heavy initialization (DB, cache,
// roster warm-up) happens here so bot.NewBot stays focused on orchestration.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Messaging primitives
	client := discord.NewClient(cfg.Discord.Token, logger)
	gateway := discord.NewGateway(
		cfg.Discord.GatewayURL,
		cfg.Discord.Token,
		constants.WebSocketConfig.MaxReconnectAttempts,
		constants.WebSocketConfig.ReconnectDelay,
		logger,
	)
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	// Roster setup
	memberRepo := member.NewRepository(postgresSvc, logger)
	memberCache, err := member.NewCache(memberRepo, cacheSvc.GetRedisClient(), logger, member.CacheConfig{
		WarmUp:   true,
		RedisTTL: constants.CacheTTL.Member,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create member cache: %w", err)
	}

	// Cooldown timing: an explicit env value wins and is persisted; otherwise
	// fall back to whatever a previous run stored.
	timing := cfg.Mudae.Timing
	if timing != 0 {
		if err := cacheSvc.SaveTiming(ctx, timing); err != nil {
			logger.Warn("Failed to persist cooldown timing", zap.Error(err))
		}
	} else {
		stored, ok, loadErr := cacheSvc.LoadTiming(ctx)
		if loadErr != nil {
			logger.Warn("Failed to load stored cooldown timing", zap.Error(loadErr))
		} else if ok {
			timing = stored
			logger.Info("Cooldown timing restored from cache")
		}
	}

	trackerSvc := tracker.New(tracker.Config{
		BotID:     cfg.Mudae.UserID,
		Timing:    timing,
		ClaimWait: constants.ScanConfig.ClaimWaitTimeout,
	}, client, gateway, memberCache, logger)

	// Command layer
	cmdDeps := &command.Dependencies{
		Cooldowns: trackerSvc,
		Wishes:    cfg.Mudae.Wishes,
		Formatter: formatter,
		SendMessage: client.SendMessage,
		Logger: logger,
	}

	registry := command.NewRegistry()
	cmdDeps.Registry = registry
	registry.Register(command.NewTimersCommand(cmdDeps))
	registry.Register(command.NewWishesCommand(cmdDeps))
	registry.Register(command.NewHelpCommand(cmdDeps))

	deps := &bot.Dependencies{
		Config:         cfg,
		Logger:         logger,
		Client:         client,
		Gateway:        gateway,
		MessageAdapter: messageAdapter,
		Formatter:      formatter,
		Registry:       registry,
		Tracker:        trackerSvc,
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		botDeps: deps,
		closers: closers,
	}, nil
}
