package slackapi

import "net/http"

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Defaults to
// [http.DefaultClient].
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the Slack Web API base URL. This is useful for
// pointing the client at a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}
