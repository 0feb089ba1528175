// Package timing packs Mudae cooldown state into a single integer.
//
// Layout, least significant lane first, 16 bits each:
//
//	bits  0-15  roll period  (seconds)
//	bits 16-31  claim period (seconds)
//	bits 32-47  roll phase   (seconds past epoch, mod roll period)
//	bits 48-63  claim phase  (seconds past epoch, mod claim period)
//
// Periods and phases are sub-day durations, so 16-bit lanes always fit and
// the whole state persists as one scalar.
package timing

import "time"

const (
	laneBits = 16
	laneMask = 1<<laneBits - 1
)

// nowFunc is swapped out by tests.
var nowFunc = time.Now

// State is the decoded form of the packed integer. It is immutable after
// construction; remaining time is always computed from the wall clock.
type State struct {
	RollPeriod  uint16
	ClaimPeriod uint16
	RollPhase   uint16
	ClaimPhase  uint16
}

// Encode builds the packed cooldown integer. Inputs are minutes unless
// inSeconds is set. The remaining times are anchored to the current wall
// clock: each phase becomes (now + remaining) mod period.
func Encode(rollPeriod, claimPeriod, rollRemaining, claimRemaining int64, inSeconds bool) uint64 {
	return encodeAt(rollPeriod, claimPeriod, rollRemaining, claimRemaining, inSeconds, nowFunc())
}

func encodeAt(rollPeriod, claimPeriod, rollRemaining, claimRemaining int64, inSeconds bool, now time.Time) uint64 {
	if !inSeconds {
		rollPeriod *= 60
		claimPeriod *= 60
		rollRemaining *= 60
		claimRemaining *= 60
	}

	epoch := now.Unix()
	rollPhase := int64(0)
	if rollPeriod > 0 {
		rollPhase = (epoch + rollRemaining) % rollPeriod
	}
	claimPhase := int64(0)
	if claimPeriod > 0 {
		claimPhase = (epoch + claimRemaining) % claimPeriod
	}

	return State{
		RollPeriod:  uint16(rollPeriod & laneMask),
		ClaimPeriod: uint16(claimPeriod & laneMask),
		RollPhase:   uint16(rollPhase & laneMask),
		ClaimPhase:  uint16(claimPhase & laneMask),
	}.Pack()
}

// Decode unpacks the four lanes.
func Decode(packed uint64) State {
	return State{
		RollPeriod:  uint16(packed & laneMask),
		ClaimPeriod: uint16((packed >> laneBits) & laneMask),
		RollPhase:   uint16((packed >> (2 * laneBits)) & laneMask),
		ClaimPhase:  uint16((packed >> (3 * laneBits)) & laneMask),
	}
}

// Pack is the inverse of Decode.
func (s State) Pack() uint64 {
	return uint64(s.RollPeriod) |
		uint64(s.ClaimPeriod)<<laneBits |
		uint64(s.RollPhase)<<(2*laneBits) |
		uint64(s.ClaimPhase)<<(3*laneBits)
}

// UntilRoll returns the time left until the next roll reset, in [0, period).
func (s State) UntilRoll() time.Duration {
	return s.untilRollAt(nowFunc())
}

// UntilClaim returns the time left until the next claim reset, in [0, period).
func (s State) UntilClaim() time.Duration {
	return s.untilClaimAt(nowFunc())
}

func (s State) untilRollAt(now time.Time) time.Duration {
	return remaining(int64(s.RollPhase), int64(s.RollPeriod), now)
}

func (s State) untilClaimAt(now time.Time) time.Duration {
	return remaining(int64(s.ClaimPhase), int64(s.ClaimPeriod), now)
}

// UntilRollMinutes is UntilRoll converted by integer division, the way Mudae
// reports its timers.
func (s State) UntilRollMinutes() int {
	return int(s.UntilRoll() / time.Minute)
}

func (s State) UntilClaimMinutes() int {
	return int(s.UntilClaim() / time.Minute)
}

func remaining(phase, period int64, now time.Time) time.Duration {
	if period <= 0 {
		return 0
	}
	left := phase - now.Unix()%period
	if left < 0 {
		left += period
	}
	return time.Duration(left) * time.Second
}
