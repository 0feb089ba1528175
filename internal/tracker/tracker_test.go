package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/discord"
	"github.com/hazel/mudae-tracker-go/internal/timing"
	"github.com/hazel/mudae-tracker-go/pkg/errors"
)

const botID = "432610292342587392"

type fakeHistory struct {
	messages []*discord.Message
	calls    int
	err      error
}

func (f *fakeHistory) ChannelMessages(_ context.Context, _ string, limit int) ([]*discord.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.messages) > limit {
		return f.messages[:limit], nil
	}
	return f.messages, nil
}

type fakeStream struct {
	mu         sync.Mutex
	callbacks  map[int]discord.MessageCallback
	nextID     int
	subscribed chan struct{}
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		callbacks:  make(map[int]discord.MessageCallback),
		subscribed: make(chan struct{}, 8),
	}
}

func (f *fakeStream) OnMessage(callback discord.MessageCallback) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.callbacks[id] = callback
	f.mu.Unlock()

	f.subscribed <- struct{}{}

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.callbacks, id)
	}
}

func (f *fakeStream) dispatch(msg *discord.Message) {
	f.mu.Lock()
	callbacks := make([]discord.MessageCallback, 0, len(f.callbacks))
	for _, cb := range f.callbacks {
		callbacks = append(callbacks, cb)
	}
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(msg)
	}
}

func (f *fakeStream) activeSubscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.callbacks)
}

type fakeMembers struct {
	byName map[string]string
	err    error
}

func (f *fakeMembers) ResolveDisplayName(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.byName[name], nil
}

func rollMessage(id, name, series, footer string) *discord.Message {
	embed := discord.Embed{
		Author:      &discord.EmbedAuthor{Name: name},
		Description: series + "\n**1234**<:kakera:469835869059153940>",
		Image:       &discord.EmbedImage{URL: "https://imgur.com/a.png"},
	}
	if footer != "" {
		embed.Footer = &discord.EmbedFooter{Text: footer}
	}
	return &discord.Message{
		ID:        id,
		ChannelID: "555",
		Author:    &discord.User{ID: botID, Username: "Mudae", Bot: true},
		Embeds:    []discord.Embed{embed},
	}
}

func botText(id, content string) *discord.Message {
	return &discord.Message{
		ID:      id,
		Author:  &discord.User{ID: botID, Username: "Mudae", Bot: true},
		Content: content,
	}
}

func userText(id, userID, content string) *discord.Message {
	return &discord.Message{
		ID:      id,
		Author:  &discord.User{ID: userID, Username: "user" + userID},
		Content: content,
	}
}

func newTestTracker(t *testing.T, cfg Config, history *fakeHistory, stream *fakeStream, members *fakeMembers) *Tracker {
	t.Helper()
	if cfg.BotID == "" {
		cfg.BotID = botID
	}
	if history == nil {
		history = &fakeHistory{}
	}
	if stream == nil {
		stream = newFakeStream()
	}
	if members == nil {
		members = &fakeMembers{byName: map[string]string{}}
	}
	return New(cfg, history, stream, members, zap.NewNop())
}

func TestWaifuFromResolvesFooterOwner(t *testing.T) {
	members := &fakeMembers{byName: map[string]string{"Alice": "100"}}
	tr := newTestTracker(t, Config{}, nil, nil, members)

	waifu, err := tr.WaifuFrom(context.Background(), rollMessage("1", "Rem", "Re:Zero", "Belongs to Alice ~~ 2 / 5 [1]"))
	if err != nil {
		t.Fatalf("expected parse, got %v", err)
	}
	if !waifu.IsClaimed || waifu.OwnerName != "Alice" || waifu.OwnerID != "100" {
		t.Fatalf("expected resolved owner, got %+v", waifu)
	}
}

func TestWaifuFromPropagatesValidation(t *testing.T) {
	tr := newTestTracker(t, Config{}, nil, nil, nil)

	msg := userText("1", "7", "hello")
	if _, err := tr.WaifuFrom(context.Background(), msg); !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFromWish(t *testing.T) {
	tr := newTestTracker(t, Config{}, nil, nil, nil)
	msg := rollMessage("1", "Rem", "Re:Zero", "")

	waifu, wished, err := tr.FromWish(context.Background(), msg, []string{"rem"}, true, false)
	if err != nil || !wished {
		t.Fatalf("expected name wish match, got wished=%v err=%v", wished, err)
	}
	if waifu.Name != "Rem" {
		t.Fatalf("unexpected waifu %q", waifu.Name)
	}

	_, wished, err = tr.FromWish(context.Background(), msg, []string{"re:zero"}, false, true)
	if err != nil || !wished {
		t.Fatalf("expected series wish match, got wished=%v err=%v", wished, err)
	}

	_, wished, err = tr.FromWish(context.Background(), msg, []string{"re:zero"}, true, false)
	if err != nil || wished {
		t.Fatalf("series entry must not match by name, got wished=%v err=%v", wished, err)
	}

	_, wished, err = tr.FromWish(context.Background(), msg, []string{"rem"}, false, false)
	if err != nil || wished {
		t.Fatalf("both checks disabled must never match, got wished=%v err=%v", wished, err)
	}
}

func TestUntilRollWithoutTiming(t *testing.T) {
	tr := newTestTracker(t, Config{}, nil, nil, nil)

	if tr.HasTiming() {
		t.Fatal("expected no timing state")
	}
	if _, err := tr.UntilRoll(); !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := tr.UntilClaim(); !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUntilRollWithTiming(t *testing.T) {
	packed := timing.Encode(60, 180, 10, 20, false)
	tr := newTestTracker(t, Config{Timing: packed}, nil, nil, nil)

	if !tr.HasTiming() {
		t.Fatal("expected timing state")
	}

	until, err := tr.UntilRoll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if until <= 0 || until > 10*time.Minute {
		t.Fatalf("expected until roll within (0, 10m], got %v", until)
	}

	untilClaim, err := tr.UntilClaim()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if untilClaim <= 0 || untilClaim > 20*time.Minute {
		t.Fatalf("expected until claim within (0, 20m], got %v", untilClaim)
	}
}
