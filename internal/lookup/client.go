// Package lookup resolves channel metadata that the primary bot account
// cannot see. It talks to the Telegram API with a second, dedicated token and
// hands out one-shot sessions: open, resolve a single entity, close.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pcoptima/channels-collector/internal/enrich"
	"github.com/pcoptima/channels-collector/internal/provenance"
)

const DefaultBaseURL = "https://api.telegram.org"

type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// OpenSession validates the lookup credentials and returns a session scoped
// to a single resolve call.
func (c *Client) OpenSession(ctx context.Context) (enrich.Session, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, fmt.Errorf("missing lookup token")
	}
	if err := c.getMe(ctx); err != nil {
		return nil, err
	}
	return &session{client: c}, nil
}

type session struct {
	client *Client
}

func (s *session) ResolveTitle(ctx context.Context, channelURL string) (string, error) {
	username, err := usernameFromChannelURL(channelURL)
	if err != nil {
		return "", err
	}
	return s.client.getChatTitle(ctx, "@"+username)
}

// Close releases the session. The API is stateless over HTTP, so there is
// nothing to tear down; the method exists to honour the session contract.
func (s *session) Close() error { return nil }

func usernameFromChannelURL(channelURL string) (string, error) {
	channelURL = strings.TrimSpace(channelURL)
	if !strings.HasPrefix(channelURL, provenance.ChannelLinkPrefix) {
		return "", fmt.Errorf("not a channel link: %q", channelURL)
	}
	username := strings.TrimPrefix(channelURL, provenance.ChannelLinkPrefix)
	if i := strings.IndexAny(username, "/?#"); i >= 0 {
		username = username[:i]
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("channel link has no username: %q", channelURL)
	}
	return username, nil
}

type getMeResponse struct {
	OK bool `json:"ok"`
}

func (c *Client) getMe(ctx context.Context) error {
	raw, status, err := c.get(ctx, fmt.Sprintf("%s/bot%s/getMe", c.baseURL, c.token))
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("lookup http %d: %s", status, strings.TrimSpace(string(raw)))
	}
	var out getMeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("lookup getMe: ok=false")
	}
	return nil
}

type getChatResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	Result      struct {
		ID    int64  `json:"id"`
		Title string `json:"title,omitempty"`
	} `json:"result"`
}

func (c *Client) getChatTitle(ctx context.Context, chatID string) (string, error) {
	u := fmt.Sprintf("%s/bot%s/getChat?chat_id=%s", c.baseURL, c.token, url.QueryEscape(chatID))
	raw, status, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("lookup http %d: %s", status, strings.TrimSpace(string(raw)))
	}
	var out getChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if !out.OK {
		return "", fmt.Errorf("lookup getChat %s: %s", chatID, strings.TrimSpace(out.Description))
	}
	if strings.TrimSpace(out.Result.Title) == "" {
		return "", fmt.Errorf("lookup getChat %s: missing title", chatID)
	}
	return out.Result.Title, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return raw, resp.StatusCode, nil
}
