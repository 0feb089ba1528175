// Package parser turns Mudae embed messages into Waifu records.
//
// Mudae emits two incompatible layouts for the same data: the roll
// announcement ($w and friends) and the info card ($im). Each layout gets
// its own shape matcher; matchers are tried in a fixed order and the first
// hit wins. New layouts slot in as new shapes without touching existing
// ones.
package parser

import (
	"strconv"

	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/pkg/errors"
)

// fields is what a shape matcher extracts from the embed description.
type fields struct {
	series    string
	kakera    *int
	key       *int
	gender    domain.Gender
	claimRank *int
	likeRank  *int
}

// shape is one supported message layout: a predicate+extractor pair.
// extract returns ok=false when the description does not match the layout.
type shape interface {
	kind() domain.Kind
	extract(desc string) (*fields, bool)
}

// Extractor builds Waifu records from messages authored by the tracked
// Mudae instance. It is a pure function of its inputs and safe to call from
// any goroutine.
type Extractor struct {
	botID  string
	shapes []shape
}

func NewExtractor(botID string) *Extractor {
	return &Extractor{
		botID: botID,
		// Roll first: it is the cheaper, more specific layout, and trying it
		// before the info card avoids ambiguity when a roll body happens to
		// contain info-like tokens.
		shapes: []shape{rollShape{}, infoShape{}},
	}
}

// Extract parses a message into a Waifu record. A ValidationError means the
// message is not a waifu announcement; callers treat that as "not
// applicable" and move on.
func (e *Extractor) Extract(msg *discord.Message) (*domain.Waifu, error) {
	if msg == nil || msg.Author == nil || msg.Author.ID != e.botID {
		return nil, errors.NewValidationError("message not authored by tracked bot", "author", nil)
	}
	if !msg.HasSingleImageEmbed() {
		return nil, errors.NewValidationError("message has no single image embed", "embeds", len(msg.Embeds))
	}

	embed := msg.Embeds[0]
	if embed.Author == nil || embed.Author.Name == "" {
		return nil, errors.NewValidationError("embed has no display name", "author", nil)
	}

	var matched *fields
	var kind domain.Kind
	for _, s := range e.shapes {
		if f, ok := s.extract(embed.Description); ok {
			matched = f
			kind = s.kind()
			break
		}
	}
	if matched == nil {
		return nil, errors.NewValidationError("description matches no supported shape", "description", embed.Description)
	}

	waifu := &domain.Waifu{
		Name:      embed.Author.Name,
		Series:    matched.series,
		Kind:      kind,
		Kakera:    matched.kakera,
		Key:       matched.key,
		Gender:    matched.gender,
		ClaimRank: matched.claimRank,
		LikeRank:  matched.likeRank,
		ImageURL:  embed.Image.URL,
		Source: domain.MessageRef{
			ChannelID: msg.ChannelID,
			MessageID: msg.ID,
		},
	}

	if embed.Footer != nil {
		parseFooter(embed.Footer.Text, waifu)
	}

	return waifu, nil
}

// parseInt turns a captured digit group into an optional int. Empty capture
// means the group did not participate in the match.
func parseInt(capture string) *int {
	if capture == "" {
		return nil
	}
	v, err := strconv.Atoi(capture)
	if err != nil {
		return nil
	}
	return &v
}
