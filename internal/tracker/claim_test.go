package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/hazel/mudae-tracker-go/internal/domain"
)

func unclaimedWaifu() *domain.Waifu {
	return &domain.Waifu{
		Name:   "Rem",
		Series: "Re:Zero",
		Kind:   domain.KindRoll,
		Source: domain.MessageRef{ChannelID: "555", MessageID: "10"},
	}
}

func TestAwaitClaimAlreadyClaimed(t *testing.T) {
	stream := newFakeStream()
	tr := newTestTracker(t, Config{ClaimWait: time.Second}, nil, stream, nil)

	waifu := unclaimedWaifu()
	waifu.Claim("100", "Alice")

	ownerID, err := tr.AwaitClaim(context.Background(), waifu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ownerID != "100" {
		t.Fatalf("expected owner 100, got %q", ownerID)
	}
	if stream.activeSubscriptions() != 0 {
		t.Fatal("claimed record must not subscribe to the stream")
	}
}

func TestAwaitClaimMatchesAnnouncement(t *testing.T) {
	stream := newFakeStream()
	members := &fakeMembers{byName: map[string]string{"Alice": "100"}}
	tr := newTestTracker(t, Config{ClaimWait: 2 * time.Second}, nil, stream, members)

	waifu := unclaimedWaifu()

	type result struct {
		ownerID string
		err     error
	}
	done := make(chan result, 1)
	go func() {
		ownerID, err := tr.AwaitClaim(context.Background(), waifu)
		done <- result{ownerID, err}
	}()

	<-stream.subscribed
	stream.dispatch(userText("11", "999", "**Alice** and Rem are now married!"))
	stream.dispatch(botText("12", "unrelated chatter"))
	stream.dispatch(botText("13", "**Alice** and Rem are now married!"))

	got := <-done
	if got.err != nil {
		t.Fatalf("unexpected error: %v", got.err)
	}
	if got.ownerID != "100" {
		t.Fatalf("expected owner 100, got %q", got.ownerID)
	}
	if !waifu.IsClaimed || waifu.OwnerName != "Alice" || waifu.OwnerID != "100" {
		t.Fatalf("record not updated: %+v", waifu)
	}
	if stream.activeSubscriptions() != 0 {
		t.Fatal("subscription must be released after the claim resolves")
	}
}

func TestAwaitClaimMalformedAnnouncementEndsWait(t *testing.T) {
	stream := newFakeStream()
	tr := newTestTracker(t, Config{ClaimWait: 10 * time.Second}, nil, stream, &fakeMembers{byName: map[string]string{}})

	waifu := unclaimedWaifu()

	type result struct {
		ownerID string
		err     error
	}
	done := make(chan result, 1)
	go func() {
		ownerID, err := tr.AwaitClaim(context.Background(), waifu)
		done <- result{ownerID, err}
	}()

	<-stream.subscribed
	stream.dispatch(botText("11", "Alice and Rem are now married!"))

	select {
	case got := <-done:
		if got.err != nil {
			t.Fatalf("unexpected error: %v", got.err)
		}
		if got.ownerID != "" {
			t.Fatalf("expected no owner, got %q", got.ownerID)
		}
	case <-time.After(time.Second):
		t.Fatal("missing owner delimiter must consume the wait, not re-arm it")
	}
	if waifu.IsClaimed {
		t.Fatalf("record must stay unclaimed: %+v", waifu)
	}
	if stream.activeSubscriptions() != 0 {
		t.Fatal("subscription must be released after the wait ends")
	}
}

func TestAwaitClaimUnknownOwnerStillClaims(t *testing.T) {
	stream := newFakeStream()
	tr := newTestTracker(t, Config{ClaimWait: 2 * time.Second}, nil, stream, &fakeMembers{byName: map[string]string{}})

	waifu := unclaimedWaifu()
	done := make(chan string, 1)
	go func() {
		ownerID, _ := tr.AwaitClaim(context.Background(), waifu)
		done <- ownerID
	}()

	<-stream.subscribed
	stream.dispatch(botText("13", "**Stranger** and Rem are now married!"))

	if ownerID := <-done; ownerID != "" {
		t.Fatalf("expected empty owner ID for unknown name, got %q", ownerID)
	}
	if !waifu.IsClaimed || waifu.OwnerName != "Stranger" {
		t.Fatalf("record must still flip to claimed: %+v", waifu)
	}
}

func TestAwaitClaimTimeout(t *testing.T) {
	stream := newFakeStream()
	tr := newTestTracker(t, Config{ClaimWait: 50 * time.Millisecond}, nil, stream, nil)

	waifu := unclaimedWaifu()
	ownerID, err := tr.AwaitClaim(context.Background(), waifu)
	if err != nil {
		t.Fatalf("an expired wait is not an error, got %v", err)
	}
	if ownerID != "" {
		t.Fatalf("expected no owner, got %q", ownerID)
	}
	if waifu.IsClaimed {
		t.Fatal("record must stay unclaimed after the window expires")
	}
	if stream.activeSubscriptions() != 0 {
		t.Fatal("subscription must be released after timeout")
	}
}

func TestAwaitClaimCancellation(t *testing.T) {
	stream := newFakeStream()
	tr := newTestTracker(t, Config{ClaimWait: 10 * time.Second}, nil, stream, nil)

	ctx, cancel := context.WithCancel(context.Background())
	waifu := unclaimedWaifu()

	done := make(chan error, 1)
	go func() {
		_, err := tr.AwaitClaim(ctx, waifu)
		done <- err
	}()

	<-stream.subscribed
	cancel()

	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stream.activeSubscriptions() != 0 {
		t.Fatal("subscription must be released on cancellation")
	}
}
