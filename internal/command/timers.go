package command

import (
	"context"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/domain"
)

type TimersCommand struct {
	deps *Dependencies
}

func NewTimersCommand(deps *Dependencies) *TimersCommand {
	return &TimersCommand{deps: deps}
}

func (c *TimersCommand) Name() string {
	return "timers"
}

func (c *TimersCommand) Description() string {
	return "Shows time until the next roll and claim resets"
}

func (c *TimersCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if !c.deps.Cooldowns.HasTiming() {
		return c.deps.SendMessage(ctx, cmdCtx.ChannelID, c.deps.Formatter.FormatTimersUnavailable())
	}

	untilRoll, err := c.deps.Cooldowns.UntilRoll()
	if err != nil {
		return err
	}
	untilClaim, err := c.deps.Cooldowns.UntilClaim()
	if err != nil {
		return err
	}

	c.deps.Logger.Debug("Timers queried",
		zap.Duration("until_roll", untilRoll),
		zap.Duration("until_claim", untilClaim),
	)

	return c.deps.SendMessage(ctx, cmdCtx.ChannelID, c.deps.Formatter.FormatTimers(untilRoll, untilClaim))
}
