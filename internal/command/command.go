package command

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/adapter"
	"github.com/hazel/mudae-tracker-go/internal/domain"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// CooldownSource answers the two timer queries. Both return a
// ValidationError when no packed timing was configured.
type CooldownSource interface {
	HasTiming() bool
	UntilRoll() (time.Duration, error)
	UntilClaim() (time.Duration, error)
}

type Dependencies struct {
	Cooldowns CooldownSource
	Wishes    []string
	Formatter *adapter.ResponseFormatter
	// Registry is set after construction, once the handlers exist; only the
	// help command reads it.
	Registry    *Registry
	// SendMessage delivers a reply on the context of the command being
	// executed, not on whatever context wired the dependencies up.
	SendMessage func(ctx context.Context, channelID, message string) error
	Logger      *zap.Logger
}
