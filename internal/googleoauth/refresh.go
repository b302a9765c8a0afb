// Package googleoauth exchanges long-lived refresh tokens for fresh access
// tokens against Google's OAuth token endpoint.
package googleoauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotConfigured means the OAuth client id/secret are missing, so no
	// refresh can ever succeed until the operator supplies them.
	ErrNotConfigured = errors.New("google oauth client credentials not configured")

	// ErrRejected means the provider answered the refresh with a non-success
	// status (revoked grant, invalid refresh token, bad client).
	ErrRejected = errors.New("google oauth refresh rejected")
)

// Grant is a successful token-endpoint response. RefreshToken and Scope are
// empty when the provider omits them; callers retain their prior values then.
type Grant struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// Refresher mints a new access token from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*Grant, error)
}

// Client posts refresh_token grants to the token endpoint.
type Client struct {
	http         *resty.Client
	clientID     string
	clientSecret string
}

// NewClient builds a refresh client. tokenURL is Google's production endpoint
// in normal operation and a local server in tests. Empty client credentials
// are allowed; Refresh then fails with ErrNotConfigured.
func NewClient(tokenURL, clientID, clientSecret string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(tokenURL).
		SetTimeout(timeout)
	return &Client{http: c, clientID: clientID, clientSecret: clientSecret}
}

// Refresh performs the form-encoded token exchange. Expected failures come
// back as ErrNotConfigured or ErrRejected; anything else is a transport or
// decoding problem.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Grant, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
			"refresh_token": refreshToken,
			"grant_type":    "refresh_token",
		}).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("token refresh request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode())
	}

	var grant Grant
	if err := json.Unmarshal(resp.Body(), &grant); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &grant, nil
}

var _ Refresher = (*Client)(nil)
