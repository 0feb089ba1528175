package discord

import "encoding/json"

type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name,omitempty"`
	Bot        bool   `json:"bot,omitempty"`
}

type EmbedAuthor struct {
	Name string `json:"name,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text,omitempty"`
}

type Embed struct {
	Author      *EmbedAuthor `json:"author,omitempty"`
	Description string       `json:"description,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type Message struct {
	ID        string  `json:"id"`
	ChannelID string  `json:"channel_id"`
	GuildID   string  `json:"guild_id,omitempty"`
	Author    *User   `json:"author"`
	Content   string  `json:"content"`
	Embeds    []Embed `json:"embeds,omitempty"`
	Mentions  []User  `json:"mentions,omitempty"`
}

// HasSingleImageEmbed reports whether the message carries exactly one embed
// and that embed has an image. Waifu announcements always do.
func (m *Message) HasSingleImageEmbed() bool {
	return len(m.Embeds) == 1 && m.Embeds[0].Image != nil && m.Embeds[0].Image.URL != ""
}

type CreateMessageRequest struct {
	Content string `json:"content"`
}

// Gateway wire format.

type gatewayPayload struct {
	Op int             `json:"op"`
	T  string          `json:"t,omitempty"`
	S  *int64          `json:"s,omitempty"`
	D  json.RawMessage `json:"d,omitempty"`
}

const (
	opDispatch  = 0
	opHeartbeat = 1
	opIdentify  = 2
	opHello     = 10
	opHeartACK  = 11
)

const eventMessageCreate = "MESSAGE_CREATE"

type helloData struct {
	HeartbeatInterval int `json:"heartbeat_interval"`
}

type identifyData struct {
	Token      string             `json:"token"`
	Intents    int                `json:"intents"`
	Properties identifyProperties `json:"properties"`
}

type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

// IntentGuildMessages | IntentMessageContent
const defaultIntents = 1<<9 | 1<<15

type GatewayState string

const (
	GatewayStateConnecting   GatewayState = "CONNECTING"
	GatewayStateConnected    GatewayState = "CONNECTED"
	GatewayStateDisconnected GatewayState = "DISCONNECTED"
	GatewayStateReconnecting GatewayState = "RECONNECTING"
	GatewayStateFailed       GatewayState = "FAILED"
)

func (s GatewayState) String() string {
	return string(s)
}
