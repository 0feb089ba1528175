package domain

import "time"

type CommandType string

const (
	CommandTimers  CommandType = "timers"
	CommandWishes  CommandType = "wishes"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

// CommandContext carries where a chat command came from.
type CommandContext struct {
	ChannelID string
	Sender    string
	Message   string
	Timestamp time.Time
}

func NewCommandContext(channelID, sender, message string) *CommandContext {
	return &CommandContext{
		ChannelID: channelID,
		Sender:    sender,
		Message:   message,
		Timestamp: time.Now(),
	}
}
