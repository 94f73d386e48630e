package line

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIBase     = "https://api.line.me"
	defaultDataAPIBase = "https://api-data.line.me"

	// LINE caps message content well below this; the limit only guards
	// against a misbehaving upstream.
	maxContentBytes = 64 << 20
)

// Client is a minimal LINE Messaging API client covering the calls the
// bridge needs: message content download, group member profile lookup, and
// the bot info probe used by `linecord check`.
type Client struct {
	token       string
	apiBase     string
	dataAPIBase string
	httpClient  *http.Client
	logger      *slog.Logger
}

// ClientConfig configures the LINE API client.
type ClientConfig struct {
	ChannelToken string
	APIBase      string // default https://api.line.me
	DataAPIBase  string // default https://api-data.line.me
	Timeout      time.Duration
	Logger       *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.DataAPIBase == "" {
		cfg.DataAPIBase = defaultDataAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		token:       cfg.ChannelToken,
		apiBase:     strings.TrimRight(cfg.APIBase, "/"),
		dataAPIBase: strings.TrimRight(cfg.DataAPIBase, "/"),
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      cfg.Logger,
	}
}

// Profile is a group member profile.
type Profile struct {
	DisplayName string `json:"displayName"`
	UserID      string `json:"userId"`
	PictureURL  string `json:"pictureUrl"`
}

// BotInfo describes the bot the channel token belongs to.
type BotInfo struct {
	UserID      string `json:"userId"`
	BasicID     string `json:"basicId"`
	DisplayName string `json:"displayName"`
}

// GetGroupMemberProfile fetches the display name and avatar of a group
// member. A non-member (or unknown user) comes back as an error.
func (c *Client) GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*Profile, error) {
	u := fmt.Sprintf("%s/v2/bot/group/%s/member/%s", c.apiBase, url.PathEscape(groupID), url.PathEscape(userID))
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("line member profile %s/%s: status %d", groupID, userID, resp.StatusCode)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode member profile: %w", err)
	}
	return &p, nil
}

// GetMessageContent downloads the binary content of a message and returns
// the bytes together with the reported content type.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) ([]byte, string, error) {
	u := fmt.Sprintf("%s/v2/bot/message/%s/content", c.dataAPIBase, url.PathEscape(messageID))
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("line message content %s: status %d", messageID, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read message content %s: %w", messageID, err)
	}
	contentType := resp.Header.Get("Content-Type")
	c.logger.Debug("fetched message content", "message_id", messageID, "content_type", contentType, "bytes", len(data))
	return data, contentType, nil
}

// GetBotInfo probes the Messaging API with the configured channel token.
func (c *Client) GetBotInfo(ctx context.Context) (*BotInfo, error) {
	resp, err := c.get(ctx, c.apiBase+"/v2/bot/info")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("line bot info: status %d", resp.StatusCode)
	}
	var info BotInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode bot info: %w", err)
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build line request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("line api request: %w", err)
	}
	return resp, nil
}
