package tracker

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/domain"
)

// The scan walks channel history in the order the log yields it, anchored
// at the waifu's own message. Phases:
//
//	seek  — looking for the anchor message
//	next  — the message right beside the anchor; a bot message with the
//	        wish marker contributes suitors without ending the scan
//	trail — up to three more messages; the first non-bot author anywhere
//	        past the anchor becomes the creator and ends the scan
//	done  — terminal
//
// The history read itself is bounded, so a scan examines at most
// constants.ScanConfig.HistoryLimit messages in total.
type scanPhase string

const (
	phaseSeek  scanPhase = "seek"
	phaseNext  scanPhase = "next"
	phaseTrail scanPhase = "trail"
	phaseDone  scanPhase = "done"
)

// trailBudget is how many messages past the adjacent one still count; the
// command that triggered a roll is never further away than that.
const trailBudget = 3

type historyScan struct {
	botID    string
	anchorID string

	phase     scanPhase
	trailLeft int

	creator string
	suitors []string
}

func newHistoryScan(botID, anchorID string) *historyScan {
	return &historyScan{
		botID:     botID,
		anchorID:  anchorID,
		phase:     phaseSeek,
		trailLeft: trailBudget,
	}
}

// step feeds one message through the machine and reports whether the scan
// is finished.
func (s *historyScan) step(msg *discord.Message) bool {
	switch s.phase {
	case phaseSeek:
		if msg.ID == s.anchorID {
			s.phase = phaseNext
		}

	case phaseNext:
		if s.claimCreator(msg) {
			return true
		}
		if msg.Author != nil && msg.Author.ID == s.botID &&
			strings.Contains(strings.ToLower(msg.Content), constants.Markers.Wished) {
			s.suitors = mentionIDs(msg)
		}
		s.phase = phaseTrail

	case phaseTrail:
		if s.claimCreator(msg) {
			return true
		}
		s.trailLeft--
		if s.trailLeft <= 0 {
			s.phase = phaseDone
			return true
		}

	case phaseDone:
		return true
	}
	return false
}

func (s *historyScan) claimCreator(msg *discord.Message) bool {
	if msg.Author == nil || msg.Author.ID == s.botID {
		return false
	}
	s.creator = msg.Author.ID
	s.phase = phaseDone
	return true
}

func mentionIDs(msg *discord.Message) []string {
	ids := make([]string, 0, len(msg.Mentions))
	for _, user := range msg.Mentions {
		ids = append(ids, user.ID)
	}
	return ids
}

// FetchExtra attributes the creator and any suitors of a freshly rolled
// waifu from the messages around it. It is only useful for roll records
// whose anchor is still near the head of the log; running it later simply
// finds nothing. The scan must not run twice concurrently for one record.
func (t *Tracker) FetchExtra(ctx context.Context, waifu *domain.Waifu) error {
	messages, err := t.history.ChannelMessages(ctx, waifu.Source.ChannelID, constants.ScanConfig.HistoryLimit)
	if err != nil {
		return err
	}

	scan := newHistoryScan(t.botID, waifu.Source.MessageID)
	for _, msg := range messages {
		if scan.step(msg) {
			break
		}
	}

	waifu.Creator = scan.creator
	if len(scan.suitors) > 0 {
		waifu.Suitors = scan.suitors
	}

	t.logger.Debug("History scan finished",
		zap.Stringer("waifu", waifu),
		zap.String("creator", scan.creator),
		zap.Int("suitors", len(scan.suitors)),
	)

	return nil
}
