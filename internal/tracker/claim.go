package tracker

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/domain"
)

// AwaitClaim resolves the final ownership of a waifu.
//
// An already-claimed record returns its owner immediately. Otherwise one
// stream subscription waits for the marriage announcement naming this
// waifu; the wait is single-shot, with no retry. An expired wait is not an
// error: the owner comes back empty and the record stays unclaimed. A
// cancelled context releases the subscription and returns ctx.Err().
//
// The returned ID can be empty even on a successful claim when the owner's
// display name is unknown to the roster; the record itself still flips to
// claimed.
func (t *Tracker) AwaitClaim(ctx context.Context, waifu *domain.Waifu) (string, error) {
	if waifu.IsClaimed {
		return waifu.OwnerID, nil
	}

	matched := make(chan *discord.Message, 1)
	unsubscribe := t.stream.OnMessage(func(msg *discord.Message) {
		if t.isClaimAnnouncement(msg, waifu) {
			select {
			case matched <- msg:
			default:
			}
		}
	})
	defer unsubscribe()

	timer := time.NewTimer(t.claimWait)
	defer timer.Stop()

	select {
	case msg := <-matched:
		return t.resolveClaim(ctx, waifu, msg)

	case <-timer.C:
		t.logger.Debug("Claim wait expired",
			zap.String("waifu", waifu.Name),
			zap.Duration("timeout", t.claimWait),
		)
		return "", nil

	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *Tracker) isClaimAnnouncement(msg *discord.Message, waifu *domain.Waifu) bool {
	return msg != nil && msg.Author != nil && msg.Author.ID == t.botID &&
		strings.Contains(msg.Content, waifu.Name) &&
		strings.Contains(strings.ToLower(msg.Content), constants.Markers.Married)
}

func (t *Tracker) resolveClaim(ctx context.Context, waifu *domain.Waifu, msg *discord.Message) (string, error) {
	// The wait is single-shot: a matched announcement consumes it even
	// when the bold owner delimiter is missing. Mudae's format is fixed,
	// so a malformed match ends the wait with no owner rather than
	// re-arming for a later message.
	ownerName := ownerFromAnnouncement(msg.Content)
	if ownerName == "" {
		t.logger.Warn("Marriage announcement without owner delimiter",
			zap.String("content", msg.Content),
		)
		return "", nil
	}

	ownerID, err := t.members.ResolveDisplayName(ctx, ownerName)
	if err != nil {
		return "", err
	}
	if ownerID == "" {
		t.logger.Warn("Claim owner not found in roster",
			zap.String("owner", ownerName),
		)
	}

	waifu.Claim(ownerID, ownerName)
	return ownerID, nil
}

// ownerFromAnnouncement pulls the claimer's display name out of the bold
// delimiter Mudae uses: "**Alice** and Rem are now married!".
func ownerFromAnnouncement(content string) string {
	parts := strings.Split(content, "**")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
