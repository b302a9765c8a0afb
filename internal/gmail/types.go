package gmail

import "strings"

// MessageRef identifies one message in a search result page.
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// Header is one RFC 822 header returned with metadata-format messages.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is the metadata-only view of a single message: identifiers, the
// provider's internal timestamp (epoch millis as a decimal string), a short
// snippet, and the requested headers.
type Message struct {
	ID           string `json:"id"`
	ThreadID     string `json:"threadId"`
	InternalDate string `json:"internalDate,omitempty"`
	Snippet      string `json:"snippet,omitempty"`
	Payload      struct {
		Headers []Header `json:"headers,omitempty"`
	} `json:"payload"`
}

// HeaderValue returns the value of the first header matching name
// case-insensitively, or "" when absent.
func HeaderValue(headers []Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
