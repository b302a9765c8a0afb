package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mailmemories/mail-memories/internal/googleoauth"
	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/store"
)

// RefreshBuffer is how close to expiry a token may get before it is refreshed
// proactively. A token judged valid here must survive the whole per-year
// fan-out that follows, so anything inside the buffer is treated as expired.
const RefreshBuffer = 60 * time.Second

// TokenService produces a currently-valid bearer token for a user's Gmail
// credential, refreshing through Google's token endpoint when needed.
//
// Expected failure modes (no access token, no refresh token, unconfigured
// OAuth client, provider-rejected refresh) all collapse to ("", nil); the
// caller decides policy. Only transport and storage errors are returned.
type TokenService struct {
	store store.Store
	oauth googleoauth.Refresher
	log   zerolog.Logger

	// Clock is overridable in tests.
	Clock func() time.Time
}

func NewTokenService(s store.Store, oauth googleoauth.Refresher, log zerolog.Logger) *TokenService {
	return &TokenService{store: s, oauth: oauth, log: log, Clock: time.Now}
}

// ResolveToken returns the stored access token when it is still comfortably
// valid, refreshing otherwise. A credential without an expiry timestamp is
// treated as non-expiring.
func (s *TokenService) ResolveToken(ctx context.Context, cred *model.Credential) (string, error) {
	if cred.AccessToken == nil || *cred.AccessToken == "" {
		return "", nil
	}
	if cred.AccessTokenExpiresAt == nil {
		return *cred.AccessToken, nil
	}
	if cred.AccessTokenExpiresAt.Sub(s.Clock()) > RefreshBuffer {
		return *cred.AccessToken, nil
	}
	return s.Refresh(ctx, cred)
}

// Refresh exchanges the credential's refresh token for a new access token and
// persists the rotated fields in a single update keyed by the credential id.
// When the provider omits a new refresh token or scope, the prior values are
// retained. Nothing is persisted on failure.
func (s *TokenService) Refresh(ctx context.Context, cred *model.Credential) (string, error) {
	if cred.RefreshToken == nil || *cred.RefreshToken == "" {
		s.log.Debug().Str("credential", cred.ID).Msg("no refresh token on credential")
		return "", nil
	}

	grant, err := s.oauth.Refresh(ctx, *cred.RefreshToken)
	if err != nil {
		if errors.Is(err, googleoauth.ErrNotConfigured) || errors.Is(err, googleoauth.ErrRejected) {
			s.log.Warn().Err(err).Str("credential", cred.ID).Msg("token refresh unavailable")
			return "", nil
		}
		return "", err
	}

	now := s.Clock()
	refreshToken := cred.RefreshToken
	if grant.RefreshToken != "" {
		refreshToken = &grant.RefreshToken
	}
	scope := cred.Scope
	if grant.Scope != "" {
		scope = &grant.Scope
	}

	upd := model.TokenUpdate{
		AccessToken:          grant.AccessToken,
		AccessTokenExpiresAt: now.Add(time.Duration(grant.ExpiresIn) * time.Second),
		RefreshToken:         refreshToken,
		Scope:                scope,
		UpdatedAt:            now,
	}
	if err := s.store.Credentials().UpdateTokens(ctx, cred.ID, upd); err != nil {
		return "", err
	}

	s.log.Info().Str("credential", cred.ID).Msg("access token refreshed")
	return grant.AccessToken, nil
}
