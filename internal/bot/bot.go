package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/adapter"
	"github.com/hazel/mudae-tracker-go/internal/command"
	"github.com/hazel/mudae-tracker-go/internal/config"
	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/internal/tracker"
	"github.com/hazel/mudae-tracker-go/pkg/errors"
)

// Dependencies bundles everything a running bot needs. app.Build assembles
// one of these.
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Client         *discord.Client
	Gateway        *discord.Gateway
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Registry       *command.Registry
	Tracker        *tracker.Tracker
}

// Bot watches one channel: Mudae rolls go through the tracker pipeline,
// prefixed human messages go through the command registry.
type Bot struct {
	deps *Dependencies

	ctx    context.Context
	cancel context.CancelFunc

	enrich *pool.Pool

	mu           sync.Mutex
	unsubscribes []func()
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("dependencies must not be nil")
	}
	for name, missing := range map[string]bool{
		"config":    deps.Config == nil,
		"logger":    deps.Logger == nil,
		"client":    deps.Client == nil,
		"gateway":   deps.Gateway == nil,
		"adapter":   deps.MessageAdapter == nil,
		"formatter": deps.Formatter == nil,
		"registry":  deps.Registry == nil,
		"tracker":   deps.Tracker == nil,
	} {
		if missing {
			return nil, fmt.Errorf("%s must not be nil", name)
		}
	}
	return &Bot{deps: deps}, nil
}

// Start connects the gateway and begins handling messages. It returns once
// the connection is up; message handling continues in the background until
// Stop.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.enrich = pool.New().WithMaxGoroutines(constants.BotConfig.EnrichWorkers)

	unsubMessages := b.deps.Gateway.OnMessage(b.handleMessage)
	unsubState := b.deps.Gateway.OnStateChange(func(state discord.GatewayState) {
		if state == discord.GatewayStateFailed {
			b.deps.Logger.Error("Gateway gave up reconnecting; restart required")
		}
	})
	b.mu.Lock()
	b.unsubscribes = []func(){unsubMessages, unsubState}
	b.mu.Unlock()

	if err := b.deps.Gateway.Connect(b.ctx); err != nil {
		unsubMessages()
		unsubState()
		b.cancel()
		return fmt.Errorf("failed to connect gateway: %w", err)
	}

	b.deps.Logger.Info("Bot started",
		zap.String("channel_id", b.deps.Config.Discord.ChannelID),
		zap.String("gateway_state", b.deps.Gateway.GetState().String()),
		zap.Int("commands", b.deps.Registry.Count()),
		zap.Int("wishes", len(b.deps.Config.Mudae.Wishes)),
	)
	return nil
}

// Stop tears the bot down: no new messages are handled, in-flight
// enrichment is drained, then the gateway closes.
func (b *Bot) Stop() {
	b.mu.Lock()
	for _, unsubscribe := range b.unsubscribes {
		unsubscribe()
	}
	b.unsubscribes = nil
	b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
	if b.enrich != nil {
		b.enrich.Wait()
	}
	if err := b.deps.Gateway.Disconnect(); err != nil {
		b.deps.Logger.Warn("Gateway close error", zap.Error(err))
	}
	b.deps.Logger.Info("Bot stopped")
}

func (b *Bot) handleMessage(msg *discord.Message) {
	if msg == nil || msg.Author == nil {
		return
	}
	if guildID := b.deps.Config.Discord.GuildID; guildID != "" && msg.GuildID != guildID {
		return
	}
	if channelID := b.deps.Config.Discord.ChannelID; channelID != "" && msg.ChannelID != channelID {
		return
	}

	if msg.Author.ID == b.deps.Config.Mudae.UserID {
		b.handleMudaeMessage(msg)
		return
	}
	if msg.Author.Bot {
		return
	}
	b.handleChatMessage(msg)
}

// handleMudaeMessage feeds a bot message through the wish pipeline. Most
// messages are not waifu announcements; those fall out quietly.
func (b *Bot) handleMudaeMessage(msg *discord.Message) {
	wishes := b.deps.Config.Mudae.Wishes
	waifu, wished, err := b.deps.Tracker.FromWish(b.ctx, msg, wishes, true, true)
	if err != nil {
		if !errors.IsValidation(err) {
			b.deps.Logger.Error("Failed to extract waifu", zap.Error(err))
		}
		return
	}

	b.deps.Logger.Info("Waifu rolled",
		zap.String("name", waifu.Name),
		zap.String("series", waifu.Series),
		zap.Bool("wished", wished),
		zap.Bool("claimed", waifu.IsClaimed),
	)

	if !wished || waifu.Kind != domain.KindRoll {
		return
	}

	b.sendMessage(msg.ChannelID, b.deps.Formatter.FormatWishAlert(waifu))

	if waifu.IsClaimed {
		return
	}

	b.enrich.Go(func() {
		b.enrichAndAwait(waifu)
	})
}

// enrichAndAwait runs on the worker pool: attribute the roll, then hold the
// single claim window open and report how it ended.
func (b *Bot) enrichAndAwait(waifu *domain.Waifu) {
	if err := b.deps.Tracker.FetchExtra(b.ctx, waifu); err != nil {
		b.deps.Logger.Warn("History scan failed",
			zap.String("waifu", waifu.Name),
			zap.Error(err),
		)
	}

	if _, err := b.deps.Tracker.AwaitClaim(b.ctx, waifu); err != nil {
		if b.ctx.Err() == nil {
			b.deps.Logger.Error("Claim wait failed",
				zap.String("waifu", waifu.Name),
				zap.Error(err),
			)
		}
		return
	}

	b.sendMessage(waifu.Source.ChannelID, b.deps.Formatter.FormatClaim(waifu))
}

func (b *Bot) handleChatMessage(msg *discord.Message) {
	parsed := b.deps.MessageAdapter.ParseMessage(msg.Content)
	if parsed.Type == domain.CommandUnknown {
		return
	}

	cmdCtx := domain.NewCommandContext(msg.ChannelID, msg.Author.Username, msg.Content)
	if err := b.deps.Registry.Execute(b.ctx, cmdCtx, parsed.Type.String(), parsed.Params); err != nil {
		b.deps.Logger.Error("Command failed",
			zap.String("command", parsed.Type.String()),
			zap.String("sender", cmdCtx.Sender),
			zap.Error(err),
		)
	}
}

func (b *Bot) sendMessage(channelID, content string) {
	if err := b.deps.Client.SendMessage(b.ctx, channelID, content); err != nil {
		b.deps.Logger.Error("Failed to send message",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
	}
}
