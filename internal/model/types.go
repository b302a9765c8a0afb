package model

import "time"

// ProviderGoogle is the only mail provider the service supports.
const ProviderGoogle = "google"

// Credential is a persisted OAuth credential linking a user to their Gmail
// account. Token fields are nullable because the provider may withhold them
// (e.g. no refresh token without offline access consent).
type Credential struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"userId"`
	ProviderID           string     `json:"providerId"`
	AccessToken          *string    `json:"-"`
	RefreshToken         *string    `json:"-"`
	AccessTokenExpiresAt *time.Time `json:"accessTokenExpiresAt,omitempty"`
	Scope                *string    `json:"scope,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// TokenUpdate carries the rotated token fields persisted after a successful
// refresh. Nil pointer fields are written as NULL, not skipped; callers decide
// retention (a refresh keeps the prior refresh token when the provider omits
// a new one).
type TokenUpdate struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
	RefreshToken         *string
	Scope                *string
	UpdatedAt            time.Time
}

// MemoryItem is one sent email surfaced for "this day in history". Built fresh
// per request from Gmail responses and never persisted.
type MemoryItem struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Snippet   string `json:"snippet"`
	To        string `json:"to"`
	Date      string `json:"date"`
	Year      string `json:"year"`
	GmailLink string `json:"gmailLink"`
}

// ResultStatus tags a MemoriesResult.
type ResultStatus string

const (
	StatusOK              ResultStatus = "ok"
	StatusNeedsConnection ResultStatus = "needs-connection"
	StatusError           ResultStatus = "error"
)

// MemoriesResult is the tagged outcome of a memories request. Items is only
// meaningful when Status is StatusOK; Message only otherwise.
type MemoriesResult struct {
	Status  ResultStatus `json:"status"`
	Items   []MemoryItem `json:"items"`
	Message string       `json:"message,omitempty"`
}

// OkResult returns an ok-tagged result. A nil slice is normalized to an empty
// one so the JSON body always carries an items array on success.
func OkResult(items []MemoryItem) MemoriesResult {
	if items == nil {
		items = []MemoryItem{}
	}
	return MemoriesResult{Status: StatusOK, Items: items}
}

// NeedsConnection returns a needs-connection result with a user-facing reason.
func NeedsConnection(message string) MemoriesResult {
	return MemoriesResult{Status: StatusNeedsConnection, Message: message}
}

// ErrorResult returns an error-tagged result with a user-facing reason.
func ErrorResult(message string) MemoriesResult {
	return MemoriesResult{Status: StatusError, Message: message}
}
