package command

import (
	"context"

	"github.com/hazel/mudae-tracker-go/internal/domain"
)

type WishesCommand struct {
	deps *Dependencies
}

func NewWishesCommand(deps *Dependencies) *WishesCommand {
	return &WishesCommand{deps: deps}
}

func (c *WishesCommand) Name() string {
	return "wishes"
}

func (c *WishesCommand) Description() string {
	return "Lists the wishes being watched"
}

func (c *WishesCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	return c.deps.SendMessage(ctx, cmdCtx.ChannelID, c.deps.Formatter.FormatWishes(c.deps.Wishes))
}
