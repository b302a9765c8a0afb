package gmail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Client is the narrow Gmail surface the memories pipeline needs: message
// search and metadata-only message detail, both read-only. The access token is
// a per-call argument because it belongs to the user whose request is being
// served, not to the client.
type Client interface {
	ListMessages(ctx context.Context, accessToken, query string, maxResults int) ([]MessageRef, error)
	GetMessage(ctx context.Context, accessToken, messageID string) (*Message, error)
}

// StatusError reports a non-2xx response from the Gmail API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gmail api request failed (%d)", e.StatusCode)
}

// IsUnauthorized reports whether err carries an HTTP 401 from the provider.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}
