package constants

import "time"

// MudaeUserID is the stable user ID of the Mudae bot on Discord.
const MudaeUserID = "432610292342587392"

var ScanConfig = struct {
	HistoryLimit     int
	ClaimWaitTimeout time.Duration
}{
	HistoryLimit:     10,               // messages examined per fetch-extra scan
	ClaimWaitTimeout: 60 * time.Second, // single-shot claim wait window
}

var Markers = struct {
	Wished      string
	Married     string
	FemaleToken string
	MaleToken   string
}{
	Wished:      "wished",
	Married:     "are now married",
	FemaleToken: "female",
	MaleToken:   "male",
}

var TimingConfig = struct {
	LaneBits           uint
	DefaultRollPeriod  int // minutes
	DefaultClaimPeriod int // minutes
	ResetSettleDelay   time.Duration
}{
	LaneBits:           16,
	DefaultRollPeriod:  60,
	DefaultClaimPeriod: 180,
	ResetSettleDelay:   5 * time.Second, // grace before sleeping until a reset
}

var CacheTTL = struct {
	Member time.Duration
	Timing time.Duration
}{
	Member: 30 * time.Minute,
	Timing: 0, // persisted without expiry
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
}

var APIConfig = struct {
	DiscordBaseURL string
	RequestTimeout time.Duration
}{
	DiscordBaseURL: "https://discord.com/api/v10",
	RequestTimeout: 10 * time.Second,
}

var BotConfig = struct {
	EnrichWorkers int
}{
	EnrichWorkers: 4, // concurrent fetch-extra/claim pipelines
}
