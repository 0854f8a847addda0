// Package slackapi is a thin client for the few Slack Web API calls the
// tracker makes: profile lookup on join, opening the edit dialog, and
// replying through a response_url. Message and dialog formatting beyond a
// plain JSON envelope is deliberately not handled here.
package slackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/manwaring/initiative-tracker/internal/engine"
)

const defaultBaseURL = "https://slack.com/api"

// Client calls the Slack Web API with a bot token. It implements
// [engine.ProfileSource].
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

var _ engine.ProfileSource = (*Client)(nil)

// New creates a Client authenticating with the given bot token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		token:      token,
		baseURL:    defaultBaseURL,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

type profileResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Profile struct {
		RealName    string `json:"real_name"`
		DisplayName string `json:"display_name"`
		Image48     string `json:"image_48"`
	} `json:"profile"`
}

// Profile fetches the display name and avatar of a user via
// users.profile.get. The team ID is not needed by the Web API call; it is
// part of the [engine.ProfileSource] contract for implementations that
// hold per-team tokens.
func (c *Client) Profile(ctx context.Context, _, slackUserID string) (engine.Profile, error) {
	endpoint := fmt.Sprintf("%s/users.profile.get?user=%s", c.baseURL, url.QueryEscape(slackUserID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return engine.Profile{}, fmt.Errorf("failed to build profile request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return engine.Profile{}, fmt.Errorf("failed to fetch profile for user %s: %w", slackUserID, err)
	}
	defer resp.Body.Close()

	var decoded profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return engine.Profile{}, fmt.Errorf("failed to decode profile response: %w", err)
	}

	if !decoded.OK {
		return engine.Profile{}, fmt.Errorf("slack API rejected profile lookup for user %s: %s", slackUserID, decoded.Error)
	}

	name := decoded.Profile.DisplayName
	if name == "" {
		name = decoded.Profile.RealName
	}

	return engine.Profile{Name: name, Icon: decoded.Profile.Image48}, nil
}

// Reply posts a JSON message to an interaction's response_url.
func (c *Client) Reply(ctx context.Context, responseURL string, message any) error {
	return c.postJSON(ctx, responseURL, message, "reply")
}

// OpenDialog opens a dialog via dialog.open for the given trigger ID.
func (c *Client) OpenDialog(ctx context.Context, triggerID string, dialog any) error {
	body := map[string]any{
		"trigger_id": triggerID,
		"dialog":     dialog,
	}

	return c.postJSON(ctx, c.baseURL+"/dialog.open", body, "dialog open")
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any, what string) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s body: %w", what, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", what, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", what, resp.StatusCode)
	}

	return nil
}
