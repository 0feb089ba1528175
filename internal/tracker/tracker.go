// Package tracker ties the extractor, the history resolver and the claim
// awaiter together behind one facade, and answers cooldown queries from the
// packed timing state.
package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/internal/parser"
	"github.com/hazel/mudae-tracker-go/internal/timing"
	"github.com/hazel/mudae-tracker-go/internal/util"
	"github.com/hazel/mudae-tracker-go/pkg/errors"
)

// HistorySource yields a bounded slice of channel messages, newest first.
type HistorySource interface {
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]*discord.Message, error)
}

// MessageStream delivers live messages; the returned closure detaches the
// subscription.
type MessageStream interface {
	OnMessage(callback discord.MessageCallback) func()
}

// MemberResolver maps a display name to a stable member ID. An empty ID
// with a nil error means the name is unknown.
type MemberResolver interface {
	ResolveDisplayName(ctx context.Context, name string) (string, error)
}

type Config struct {
	BotID string
	// Timing is the packed cooldown integer; zero means cooldown queries are
	// unavailable until one is supplied.
	Timing    uint64
	ClaimWait time.Duration
}

type Tracker struct {
	botID     string
	extractor *parser.Extractor
	history   HistorySource
	stream    MessageStream
	members   MemberResolver
	timing    *timing.State
	claimWait time.Duration
	logger    *zap.Logger
}

func New(cfg Config, history HistorySource, stream MessageStream, members MemberResolver, logger *zap.Logger) *Tracker {
	t := &Tracker{
		botID:     cfg.BotID,
		extractor: parser.NewExtractor(cfg.BotID),
		history:   history,
		stream:    stream,
		members:   members,
		claimWait: cfg.ClaimWait,
		logger:    logger,
	}
	if t.claimWait == 0 {
		t.claimWait = constants.ScanConfig.ClaimWaitTimeout
	}
	if cfg.Timing != 0 {
		state := timing.Decode(cfg.Timing)
		t.timing = &state
	}
	return t
}

// HasTiming reports whether cooldown queries are available.
func (t *Tracker) HasTiming() bool {
	return t.timing != nil
}

// WaifuFrom builds a record from a message. A ValidationError means the
// message is not a waifu announcement; real errors are anything else. When
// the footer names an owner, the name is resolved against the roster
// best-effort.
func (t *Tracker) WaifuFrom(ctx context.Context, msg *discord.Message) (*domain.Waifu, error) {
	waifu, err := t.extractor.Extract(msg)
	if err != nil {
		return nil, err
	}

	if waifu.OwnerName != "" && t.members != nil {
		id, err := t.members.ResolveDisplayName(ctx, waifu.OwnerName)
		if err != nil {
			t.logger.Warn("Failed to resolve footer owner",
				zap.String("owner", waifu.OwnerName),
				zap.Error(err),
			)
		} else {
			waifu.OwnerID = id
		}
	}

	return waifu, nil
}

// FromWish extracts a waifu and checks it against a wish list. The second
// return is false when the message is a valid waifu that nobody wished.
func (t *Tracker) FromWish(ctx context.Context, msg *discord.Message, wishes []string, checkName, checkSeries bool) (*domain.Waifu, bool, error) {
	waifu, err := t.WaifuFrom(ctx, msg)
	if err != nil {
		return nil, false, err
	}

	if checkName && util.ContainsFold(wishes, waifu.Name) {
		return waifu, true, nil
	}
	if checkSeries && util.ContainsFold(wishes, waifu.Series) {
		return waifu, true, nil
	}
	return waifu, false, nil
}

// UntilRoll returns the time left until the next roll reset.
func (t *Tracker) UntilRoll() (time.Duration, error) {
	if t.timing == nil {
		return 0, errors.NewValidationError("cooldown timing not configured", "timing", nil)
	}
	return t.timing.UntilRoll(), nil
}

// UntilClaim returns the time left until the next claim reset.
func (t *Tracker) UntilClaim() (time.Duration, error) {
	if t.timing == nil {
		return 0, errors.NewValidationError("cooldown timing not configured", "timing", nil)
	}
	return t.timing.UntilClaim(), nil
}

// WaitRoll sleeps until the next roll reset. A short settle delay is added
// first so a reset that just fired is not measured as a full period away.
func (t *Tracker) WaitRoll(ctx context.Context) error {
	return t.waitFor(ctx, t.UntilRoll)
}

// WaitClaim sleeps until the next claim reset.
func (t *Tracker) WaitClaim(ctx context.Context) error {
	return t.waitFor(ctx, t.UntilClaim)
}

func (t *Tracker) waitFor(ctx context.Context, until func() (time.Duration, error)) error {
	if err := sleep(ctx, constants.TimingConfig.ResetSettleDelay); err != nil {
		return err
	}
	left, err := until()
	if err != nil {
		return err
	}
	return sleep(ctx, left)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
