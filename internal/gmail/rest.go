package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// metadataHeaders are the only headers the pipeline reads; requesting just
// these keeps message bodies off the wire entirely.
var metadataHeaders = []string{"Subject", "To", "From", "Date"}

// RestClient talks to the Gmail REST API with a bearer token per call.
type RestClient struct {
	http *resty.Client
}

// NewRestClient builds a client against baseURL (the production API is
// https://gmail.googleapis.com; tests point this at a local server).
func NewRestClient(baseURL string, timeout time.Duration) *RestClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &RestClient{http: c}
}

type messageList struct {
	Messages []MessageRef `json:"messages,omitempty"`
}

// ListMessages runs a search query and returns the matching message refs.
// An empty result is not an error.
func (c *RestClient) ListMessages(ctx context.Context, accessToken, query string, maxResults int) ([]MessageRef, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParams(map[string]string{
			"maxResults":       strconv.Itoa(maxResults),
			"q":                query,
			"includeSpamTrash": "false",
		}).
		Get("/gmail/v1/users/me/messages")
	if err != nil {
		return nil, fmt.Errorf("gmail list messages: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode()}
	}

	var list messageList
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("decode message list: %w", err)
	}
	return list.Messages, nil
}

// GetMessage fetches metadata for one message: subject/to/from/date headers,
// snippet and the internal timestamp. Bodies are never requested.
func (c *RestClient) GetMessage(ctx context.Context, accessToken, messageID string) (*Message, error) {
	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("format", "metadata")
	for _, h := range metadataHeaders {
		req.QueryParam.Add("metadataHeaders", h)
	}

	resp, err := req.Get("/gmail/v1/users/me/messages/" + url.PathEscape(messageID))
	if err != nil {
		return nil, fmt.Errorf("gmail get message %s: %w", messageID, err)
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode()}
	}

	var msg Message
	if err := json.Unmarshal(resp.Body(), &msg); err != nil {
		return nil, fmt.Errorf("decode message %s: %w", messageID, err)
	}
	return &msg, nil
}

var _ Client = (*RestClient)(nil)
