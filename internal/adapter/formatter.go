package adapter

import (
	"fmt"
	"strings"
	"time"

	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/internal/util"
)

// ResponseFormatter formats bot responses
type ResponseFormatter struct {
	prefix string
}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "!"
	}
	return &ResponseFormatter{prefix: prefix}
}

// FormatTimers formats the two cooldowns into a message.
func (f *ResponseFormatter) FormatTimers(untilRoll, untilClaim time.Duration) string {
	var sb strings.Builder
	sb.WriteString("⏱️ Mudae cooldowns\n\n")
	sb.WriteString(fmt.Sprintf("🎲 Next rolls: %s\n", util.FormatMinutes(untilRoll)))
	sb.WriteString(fmt.Sprintf("💍 Next claim: %s", util.FormatMinutes(untilClaim)))
	return sb.String()
}

// FormatTimersUnavailable is the reply when no packed timing was configured.
func (f *ResponseFormatter) FormatTimersUnavailable() string {
	return "⏱️ Cooldown timing is not configured. Set MUDAE_TIMING and restart."
}

// FormatWishes formats the configured wish list.
func (f *ResponseFormatter) FormatWishes(wishes []string) string {
	if len(wishes) == 0 {
		return "💫 No wishes configured."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💫 Watching %d wishes\n", len(wishes)))
	for _, wish := range wishes {
		sb.WriteString(fmt.Sprintf("\n• %s", wish))
	}
	return sb.String()
}

// FormatWishAlert announces a rolled waifu from the wish list.
func (f *ResponseFormatter) FormatWishAlert(waifu *domain.Waifu) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💫 Wish rolled: %s (%s)", waifu.Name, waifu.Series))
	if waifu.Kakera != nil {
		sb.WriteString(fmt.Sprintf(" — %d ka", *waifu.Kakera))
	}
	if waifu.IsClaimed {
		owner := waifu.OwnerName
		if owner == "" {
			owner = "someone"
		}
		sb.WriteString(fmt.Sprintf("\n💍 Already belongs to %s", owner))
	}
	return sb.String()
}

// FormatClaim announces the outcome of a claim wait.
func (f *ResponseFormatter) FormatClaim(waifu *domain.Waifu) string {
	if !waifu.IsClaimed {
		return fmt.Sprintf("💨 %s went unclaimed", waifu.Name)
	}
	owner := waifu.OwnerName
	if owner == "" {
		owner = "someone"
	}
	return fmt.Sprintf("💍 %s claimed %s", owner, waifu.Name)
}

// CommandHelp is one entry of the help listing.
type CommandHelp struct {
	Name        string
	Description string
}

// FormatHelp lists the available commands.
func (f *ResponseFormatter) FormatHelp(entries []CommandHelp) string {
	var sb strings.Builder
	sb.WriteString("🤖 Mudae tracker commands")
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("\n%s%s — %s", f.prefix, entry.Name, entry.Description))
	}
	return sb.String()
}
