package timing

import (
	"testing"
	"time"
)

func withFrozenClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = prev })
}

func TestPackDecodeRoundTrip(t *testing.T) {
	cases := []State{
		{RollPeriod: 3600, ClaimPeriod: 10800, RollPhase: 600, ClaimPhase: 1200},
		{RollPeriod: 0, ClaimPeriod: 0, RollPhase: 0, ClaimPhase: 0},
		{RollPeriod: 65535, ClaimPeriod: 65535, RollPhase: 65535, ClaimPhase: 65535},
		{RollPeriod: 1, ClaimPeriod: 2, RollPhase: 3, ClaimPhase: 4},
	}

	for _, want := range cases {
		got := Decode(want.Pack())
		if got != want {
			t.Fatalf("round trip mismatch: packed %v, decoded %v", want, got)
		}
	}
}

func TestDecodeLaneOrder(t *testing.T) {
	packed := uint64(100) | uint64(200)<<16 | uint64(300)<<32 | uint64(400)<<48
	state := Decode(packed)

	if state.RollPeriod != 100 {
		t.Fatalf("expected roll period in low lane, got %d", state.RollPeriod)
	}
	if state.ClaimPeriod != 200 {
		t.Fatalf("expected claim period in second lane, got %d", state.ClaimPeriod)
	}
	if state.RollPhase != 300 {
		t.Fatalf("expected roll phase in third lane, got %d", state.RollPhase)
	}
	if state.ClaimPhase != 400 {
		t.Fatalf("expected claim phase in high lane, got %d", state.ClaimPhase)
	}
}

func TestEncodeAnchorsPhasesToClock(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	withFrozenClock(t, now)

	// 60 min roll period, 180 min claim period, resets in 10 and 20 min.
	state := Decode(Encode(60, 180, 10, 20, false))

	if state.RollPeriod != 3600 {
		t.Fatalf("expected roll period 3600s, got %d", state.RollPeriod)
	}
	if state.ClaimPeriod != 10800 {
		t.Fatalf("expected claim period 10800s, got %d", state.ClaimPeriod)
	}

	until := state.untilRollAt(now)
	if until != 10*time.Minute {
		t.Fatalf("expected 10m until roll, got %v", until)
	}
	if got := state.untilClaimAt(now); got != 20*time.Minute {
		t.Fatalf("expected 20m until claim, got %v", got)
	}
}

func TestEncodeInSeconds(t *testing.T) {
	now := time.Unix(50_000, 0)
	withFrozenClock(t, now)

	state := Decode(Encode(3600, 10800, 90, 450, true))

	if state.RollPeriod != 3600 {
		t.Fatalf("expected periods untouched in seconds mode, got %d", state.RollPeriod)
	}
	if got := state.untilRollAt(now); got != 90*time.Second {
		t.Fatalf("expected 90s until roll, got %v", got)
	}
	if got := state.untilClaimAt(now); got != 450*time.Second {
		t.Fatalf("expected 450s until claim, got %v", got)
	}
}

func TestUntilStaysWithinPeriod(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	withFrozenClock(t, base)

	state := Decode(Encode(60, 180, 10, 20, false))

	// Sweep a full claim period: remaining time must always be in [0, period)
	// and non-increasing until it wraps back near the period boundary.
	prevRoll := state.untilRollAt(base)
	for offset := time.Minute; offset <= 180*time.Minute; offset += time.Minute {
		at := base.Add(offset)

		roll := state.untilRollAt(at)
		if roll < 0 || roll >= time.Duration(state.RollPeriod)*time.Second {
			t.Fatalf("until roll out of range at +%v: %v", offset, roll)
		}
		claim := state.untilClaimAt(at)
		if claim < 0 || claim >= time.Duration(state.ClaimPeriod)*time.Second {
			t.Fatalf("until claim out of range at +%v: %v", offset, claim)
		}

		if roll > prevRoll {
			// Wrapped: must have landed at the top of the window.
			if roll != time.Duration(state.RollPeriod)*time.Second-time.Minute+prevRoll {
				t.Fatalf("unexpected wrap at +%v: prev %v now %v", offset, prevRoll, roll)
			}
		}
		prevRoll = roll
	}
}

func TestFreshEncodeWindow(t *testing.T) {
	now := time.Unix(1_234_567, 0)
	withFrozenClock(t, now)

	packed := Encode(60, 180, 10, 20, false)
	state := Decode(packed)

	until := state.UntilRoll()
	if until <= 0 || until > 600*time.Second {
		t.Fatalf("expected until roll in (0, 600s], got %v", until)
	}
	if state.UntilRollMinutes() != 10 {
		t.Fatalf("expected 10 minutes, got %d", state.UntilRollMinutes())
	}
	if state.UntilClaimMinutes() != 20 {
		t.Fatalf("expected 20 minutes, got %d", state.UntilClaimMinutes())
	}
}

func TestZeroPeriodYieldsZeroRemaining(t *testing.T) {
	withFrozenClock(t, time.Unix(99, 0))

	var state State
	if got := state.UntilRoll(); got != 0 {
		t.Fatalf("expected 0 for zero period, got %v", got)
	}
	if got := state.UntilClaim(); got != 0 {
		t.Fatalf("expected 0 for zero period, got %v", got)
	}
}
