package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/store"
)

func strptr(s string) *string { return &s }

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	expiry := time.Now().UTC().Add(30 * time.Minute).Truncate(time.Second)

	// Missing credential
	if _, err := s.Credentials().GetByUserAndProvider(ctx, userID, model.ProviderGoogle); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByUserAndProvider on empty store: want ErrNotFound, got %v", err)
	}

	// Incomplete credential
	if _, err := s.Credentials().Create(ctx, &model.Credential{UserID: userID}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("Create without provider: want ErrValidation, got %v", err)
	}

	// Create
	cred, err := s.Credentials().Create(ctx, &model.Credential{
		UserID:               userID,
		ProviderID:           model.ProviderGoogle,
		AccessToken:          strptr("at-1"),
		RefreshToken:         strptr("rt-1"),
		AccessTokenExpiresAt: &expiry,
		Scope:                strptr("https://www.googleapis.com/auth/gmail.readonly"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cred.ID == "" {
		t.Fatalf("Create: empty credential id")
	}

	// Duplicate link
	if _, err := s.Credentials().Create(ctx, &model.Credential{
		UserID:     userID,
		ProviderID: model.ProviderGoogle,
	}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("Create duplicate: want ErrConflict, got %v", err)
	}

	// Lookup round-trip
	got, err := s.Credentials().GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
	if err != nil {
		t.Fatalf("GetByUserAndProvider: %v", err)
	}
	if got.ID != cred.ID || got.AccessToken == nil || *got.AccessToken != "at-1" {
		t.Fatalf("GetByUserAndProvider: unexpected row %+v", got)
	}
	if got.AccessTokenExpiresAt == nil || !got.AccessTokenExpiresAt.Equal(expiry) {
		t.Fatalf("GetByUserAndProvider: expiry mismatch: %v want %v", got.AccessTokenExpiresAt, expiry)
	}

	// UpdateTokens rotates everything in one statement
	newExpiry := expiry.Add(time.Hour)
	upd := model.TokenUpdate{
		AccessToken:          "at-2",
		AccessTokenExpiresAt: newExpiry,
		RefreshToken:         strptr("rt-2"),
		Scope:                got.Scope,
		UpdatedAt:            time.Now().UTC().Truncate(time.Second),
	}
	if err := s.Credentials().UpdateTokens(ctx, cred.ID, upd); err != nil {
		t.Fatalf("UpdateTokens: %v", err)
	}
	got, err = s.Credentials().GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
	if err != nil {
		t.Fatalf("GetByUserAndProvider after update: %v", err)
	}
	if got.AccessToken == nil || *got.AccessToken != "at-2" {
		t.Fatalf("UpdateTokens: access token not rotated: %+v", got)
	}
	if got.RefreshToken == nil || *got.RefreshToken != "rt-2" {
		t.Fatalf("UpdateTokens: refresh token not rotated: %+v", got)
	}
	if got.AccessTokenExpiresAt == nil || !got.AccessTokenExpiresAt.Equal(newExpiry) {
		t.Fatalf("UpdateTokens: expiry not rotated: %v", got.AccessTokenExpiresAt)
	}

	// UpdateTokens against a missing row
	if err := s.Credentials().UpdateTokens(ctx, uuid.New().String(), upd); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateTokens missing row: want ErrNotFound, got %v", err)
	}

	// Delete
	if err := s.Credentials().Delete(ctx, cred.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Credentials().GetByUserAndProvider(ctx, userID, model.ProviderGoogle); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByUserAndProvider after delete: want ErrNotFound, got %v", err)
	}
	if err := s.Credentials().Delete(ctx, cred.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete missing row: want ErrNotFound, got %v", err)
	}
}
