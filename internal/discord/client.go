package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/pkg/errors"
)

// Client is a thin wrapper over the Discord REST API, covering only what the
// tracker needs: channel history reads and plain text replies.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    constants.APIConfig.DiscordBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: constants.APIConfig.RequestTimeout},
		logger:     logger,
	}
}

// ChannelMessages returns up to limit messages from a channel, newest first,
// the order the gateway's own history view uses.
func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]*Message, error) {
	var messages []*Message
	path := fmt.Sprintf("/channels/%s/messages?limit=%d", channelID, limit)
	if err := c.get(ctx, path, &messages); err != nil {
		c.logger.Error("Failed to fetch channel history",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.post(ctx, path, CreateMessageRequest{Content: content}); err != nil {
		c.logger.Error("Failed to send message",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return apiErr("failed to marshal request", 400, path, err)
	}
	return c.do(ctx, http.MethodPost, path, encoded, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apiErr("failed to create request", 500, path, err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiErr("request failed", 500, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return errors.NewAPIError(
			fmt.Sprintf("Discord API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{"path": path, "body": string(detail)},
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apiErr("failed to decode response", 500, path, err)
	}
	return nil
}

func apiErr(message string, status int, path string, cause error) error {
	return errors.NewAPIError(message, status, map[string]any{"path": path}).WithCause(cause)
}
