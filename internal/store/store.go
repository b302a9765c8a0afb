package store

import (
	"context"

	"github.com/mailmemories/mail-memories/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Credentials() Credentials
}

// Credentials persists per-user, per-provider OAuth credentials. The service
// only reads rows written by the sign-in flow and updates token fields after
// a refresh; it does not own the schema.
type Credentials interface {
	// Create links a credential to a user. Returns model.ErrConflict when the
	// (user, provider) pair is already linked.
	Create(ctx context.Context, c *model.Credential) (*model.Credential, error)

	// GetByUserAndProvider returns the credential for the pair, or
	// model.ErrNotFound when the user never connected the provider.
	GetByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Credential, error)

	// UpdateTokens persists rotated token fields in a single update keyed by
	// the credential id. Returns model.ErrNotFound when the row is gone.
	UpdateTokens(ctx context.Context, credentialID string, upd model.TokenUpdate) error

	// Delete unlinks a credential.
	Delete(ctx context.Context, credentialID string) error
}

// HealthPinger is implemented by stores that can cheaply verify connectivity.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
