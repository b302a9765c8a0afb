package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mailmemories/mail-memories/internal/gmail"
	"github.com/mailmemories/mail-memories/internal/googleoauth"
	"github.com/mailmemories/mail-memories/internal/logger"
	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/services"
)

func runToday(userID string, out io.Writer) error {
	ctx := context.Background()
	st, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	log := logger.New("memoriesctl")

	providerTimeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second
	gmailClient := gmail.NewRestClient(cfg.GmailBaseURL, providerTimeout)
	oauthClient := googleoauth.NewClient(cfg.GoogleTokenURL, cfg.GoogleClientID, cfg.GoogleClientSecret, providerTimeout)
	tokenSvc := services.NewTokenService(st, oauthClient, log)
	memorySvc := services.NewMemoryService(st, gmailClient, tokenSvc, log)

	result := memorySvc.GetMemoriesForToday(ctx, userID)
	switch result.Status {
	case model.StatusOK:
		if len(result.Items) == 0 {
			fmt.Fprintln(out, "no memories found for today")
			return nil
		}
		for _, item := range result.Items {
			to := services.RecipientLabel(item.To)
			if to == "" {
				to = item.To
			}
			fmt.Fprintf(out, "%s  %-28s  to %s\n", item.Date, truncate(item.Subject, 28), to)
			if item.Snippet != "" {
				fmt.Fprintf(out, "    %s\n", truncate(item.Snippet, 76))
			}
			fmt.Fprintf(out, "    %s\n", item.GmailLink)
		}
		return nil
	case model.StatusNeedsConnection:
		fmt.Fprintf(out, "needs connection: %s\n", result.Message)
		return nil
	default:
		return fmt.Errorf("memories fetch failed: %s", result.Message)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
