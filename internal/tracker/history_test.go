package tracker

import (
	"context"
	"testing"

	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/domain"
)

func wishAnnouncement(id string, wisherIDs ...string) *discord.Message {
	msg := botText(id, "Wished by someone")
	for _, wisherID := range wisherIDs {
		msg.Mentions = append(msg.Mentions, discord.User{ID: wisherID})
	}
	return msg
}

func anchorWaifu(anchorID string) *domain.Waifu {
	return &domain.Waifu{
		Name:   "Rem",
		Series: "Re:Zero",
		Kind:   domain.KindRoll,
		Source: domain.MessageRef{ChannelID: "555", MessageID: anchorID},
	}
}

func TestFetchExtraSuitorsAndCreator(t *testing.T) {
	// Newest first: the anchor, then the wish ping, then the roller's command.
	history := &fakeHistory{messages: []*discord.Message{
		rollMessage("10", "Rem", "Re:Zero", ""),
		wishAnnouncement("9", "700", "701"),
		userText("8", "42", "$w"),
	}}
	tr := newTestTracker(t, Config{}, history, nil, nil)

	waifu := anchorWaifu("10")
	if err := tr.FetchExtra(context.Background(), waifu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waifu.Creator != "42" {
		t.Fatalf("expected creator 42, got %q", waifu.Creator)
	}
	if len(waifu.Suitors) != 2 || waifu.Suitors[0] != "700" || waifu.Suitors[1] != "701" {
		t.Fatalf("unexpected suitors %v", waifu.Suitors)
	}
}

func TestFetchExtraCreatorAdjacent(t *testing.T) {
	history := &fakeHistory{messages: []*discord.Message{
		rollMessage("10", "Rem", "Re:Zero", ""),
		userText("9", "42", "$w"),
	}}
	tr := newTestTracker(t, Config{}, history, nil, nil)

	waifu := anchorWaifu("10")
	if err := tr.FetchExtra(context.Background(), waifu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waifu.Creator != "42" {
		t.Fatalf("expected creator 42, got %q", waifu.Creator)
	}
	if len(waifu.Suitors) != 0 {
		t.Fatalf("expected no suitors, got %v", waifu.Suitors)
	}
}

func TestFetchExtraSkipsBotChatter(t *testing.T) {
	history := &fakeHistory{messages: []*discord.Message{
		rollMessage("10", "Rem", "Re:Zero", ""),
		botText("9", "some other announcement"),
		botText("8", "more chatter"),
		userText("7", "42", "$w"),
	}}
	tr := newTestTracker(t, Config{}, history, nil, nil)

	waifu := anchorWaifu("10")
	if err := tr.FetchExtra(context.Background(), waifu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waifu.Creator != "42" {
		t.Fatalf("expected creator 42, got %q", waifu.Creator)
	}
}

func TestFetchExtraScanBudget(t *testing.T) {
	// Four bot messages past the anchor exhaust the scan before the human.
	history := &fakeHistory{messages: []*discord.Message{
		rollMessage("10", "Rem", "Re:Zero", ""),
		botText("9", "chatter"),
		botText("8", "chatter"),
		botText("7", "chatter"),
		botText("6", "chatter"),
		userText("5", "42", "$w"),
	}}
	tr := newTestTracker(t, Config{}, history, nil, nil)

	waifu := anchorWaifu("10")
	if err := tr.FetchExtra(context.Background(), waifu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waifu.Creator != "" {
		t.Fatalf("expected no creator past the scan budget, got %q", waifu.Creator)
	}
}

func TestFetchExtraIgnoresMessagesAheadOfAnchor(t *testing.T) {
	// Humans newer than the anchor are unrelated to the roll.
	history := &fakeHistory{messages: []*discord.Message{
		userText("12", "99", "nice"),
		botText("11", "chatter"),
		rollMessage("10", "Rem", "Re:Zero", ""),
		userText("9", "42", "$w"),
	}}
	tr := newTestTracker(t, Config{}, history, nil, nil)

	waifu := anchorWaifu("10")
	if err := tr.FetchExtra(context.Background(), waifu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waifu.Creator != "42" {
		t.Fatalf("expected creator 42, got %q", waifu.Creator)
	}
}

func TestFetchExtraAnchorMissing(t *testing.T) {
	history := &fakeHistory{messages: []*discord.Message{
		botText("3", "chatter"),
		userText("2", "42", "$w"),
	}}
	tr := newTestTracker(t, Config{}, history, nil, nil)

	waifu := anchorWaifu("10")
	if err := tr.FetchExtra(context.Background(), waifu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waifu.Creator != "" || len(waifu.Suitors) != 0 {
		t.Fatalf("expected untouched record, got creator=%q suitors=%v", waifu.Creator, waifu.Suitors)
	}
}
