package command

import (
	"context"

	"github.com/hazel/mudae-tracker-go/internal/adapter"
	"github.com/hazel/mudae-tracker-go/internal/domain"
)

type HelpCommand struct {
	deps *Dependencies
}

func NewHelpCommand(deps *Dependencies) *HelpCommand {
	return &HelpCommand{deps: deps}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Shows the available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	handlers := c.deps.Registry.Handlers()
	entries := make([]adapter.CommandHelp, 0, len(handlers))
	for _, handler := range handlers {
		entries = append(entries, adapter.CommandHelp{
			Name:        handler.Name(),
			Description: handler.Description(),
		})
	}
	return c.deps.SendMessage(ctx, cmdCtx.ChannelID, c.deps.Formatter.FormatHelp(entries))
}
