package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mailmemories/mail-memories/internal/config"
	"github.com/mailmemories/mail-memories/internal/factory"
	"github.com/mailmemories/mail-memories/internal/logger"
	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/store"
)

func openStore(ctx context.Context) (store.Store, *config.Config, error) {
	log := logger.New("memoriesctl")
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func runConnect(userID, accessToken, refreshToken, scope string, expiresIn int, out io.Writer) error {
	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}

	cred := &model.Credential{
		UserID:       userID,
		ProviderID:   model.ProviderGoogle,
		AccessToken:  optional(accessToken),
		RefreshToken: optional(refreshToken),
		Scope:        optional(scope),
	}
	if accessToken != "" && expiresIn > 0 {
		expiry := time.Now().Add(time.Duration(expiresIn) * time.Second).UTC()
		cred.AccessTokenExpiresAt = &expiry
	}

	created, err := st.Credentials().Create(ctx, cred)
	if errors.Is(err, model.ErrConflict) {
		return fmt.Errorf("user %s already has a linked Google credential (disconnect first)", userID)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "linked credential %s for user %s\n", created.ID, userID)
	return nil
}

func runStatus(userID string, out io.Writer) error {
	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}

	cred, err := st.Credentials().GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintf(out, "user %s has no linked Google credential\n", userID)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "credential:    %s\n", cred.ID)
	fmt.Fprintf(out, "provider:      %s\n", cred.ProviderID)
	fmt.Fprintf(out, "access token:  %s\n", presence(cred.AccessToken))
	fmt.Fprintf(out, "refresh token: %s\n", presence(cred.RefreshToken))
	if cred.AccessTokenExpiresAt != nil {
		fmt.Fprintf(out, "expires at:    %s\n", cred.AccessTokenExpiresAt.Format(time.RFC3339))
	} else {
		fmt.Fprintf(out, "expires at:    (none)\n")
	}
	if cred.Scope != nil {
		fmt.Fprintf(out, "scope:         %s\n", *cred.Scope)
	}
	fmt.Fprintf(out, "updated at:    %s\n", cred.UpdatedAt.Format(time.RFC3339))
	return nil
}

func presence(s *string) string {
	if s == nil || *s == "" {
		return "absent"
	}
	return "present"
}

func runDisconnect(userID string, out io.Writer) error {
	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}

	cred, err := st.Credentials().GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintf(out, "user %s has no linked Google credential\n", userID)
		return nil
	}
	if err != nil {
		return err
	}
	if err := st.Credentials().Delete(ctx, cred.ID); err != nil {
		return err
	}
	fmt.Fprintf(out, "unlinked credential %s for user %s\n", cred.ID, userID)
	return nil
}
