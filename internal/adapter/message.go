package adapter

import (
	"strings"

	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/internal/util"
)

// MessageAdapter turns chat lines into bot commands. Anything without the
// configured prefix, and anything from a bot account, is not a command.
type MessageAdapter struct {
	prefix string
}

func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand is the result of parsing one chat line.
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

// ParseMessage maps a chat line onto a command type. Unknown input comes
// back as CommandUnknown rather than an error; the caller just ignores it.
func (ma *MessageAdapter) ParseMessage(text string) *ParsedCommand {
	text = strings.TrimSpace(text)
	if text == "" || !strings.HasPrefix(text, ma.prefix) {
		return ma.unknown(text)
	}

	parts := strings.Fields(strings.TrimSpace(text[len(ma.prefix):]))
	if len(parts) == 0 {
		return ma.unknown(text)
	}

	command := util.Normalize(parts[0])

	switch {
	case isTimersCommand(command):
		return &ParsedCommand{
			Type:       domain.CommandTimers,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	case isWishesCommand(command):
		return &ParsedCommand{
			Type:       domain.CommandWishes,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	case isHelpCommand(command):
		return &ParsedCommand{
			Type:       domain.CommandHelp,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	return ma.unknown(text)
}

func (ma *MessageAdapter) unknown(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}

func isTimersCommand(command string) bool {
	return command == "timers" || command == "tu" || command == "cooldowns"
}

func isWishesCommand(command string) bool {
	return command == "wishes" || command == "wishlist"
}

func isHelpCommand(command string) bool {
	return command == "help" || command == "commands"
}
