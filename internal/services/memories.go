package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mailmemories/mail-memories/internal/gmail"
	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/store"
)

const (
	// yearsBack is the fixed lookback window searched per request.
	yearsBack = 8
	// maxResultsPerYear caps each year's search; it also bounds the number of
	// concurrent metadata fetches, since years run sequentially.
	maxResultsPerYear = 6

	gmailLinkPrefix = "https://mail.google.com/mail/u/0/#inbox/"

	msgConnectToLoad  = "Reconnect Gmail to load your memories."
	msgConnectRefresh = "Reconnect Gmail to refresh access."
	msgGmailDown      = "We could not reach Gmail right now."
)

// MemoryService retrieves "on this day" sent emails from Gmail for a user and
// returns them as a single tagged result.
type MemoryService struct {
	store  store.Store
	gmail  gmail.Client
	tokens *TokenService
	log    zerolog.Logger

	// Clock is overridable in tests.
	Clock func() time.Time
}

func NewMemoryService(s store.Store, client gmail.Client, tokens *TokenService, log zerolog.Logger) *MemoryService {
	return &MemoryService{store: s, gmail: client, tokens: tokens, log: log, Clock: time.Now}
}

// GetMemoriesForToday is the single entry point of the pipeline: resolve the
// user's Gmail credential, ensure a valid token, run the per-year fan-out and
// classify the outcome. A 401 mid-fetch gets exactly one forced refresh and
// one retry; every expected failure comes back as a result tag, never an
// error.
func (s *MemoryService) GetMemoriesForToday(ctx context.Context, userID string) model.MemoriesResult {
	cred, err := s.store.Credentials().GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
	if errors.Is(err, model.ErrNotFound) {
		return model.NeedsConnection(msgConnectToLoad)
	}
	if err != nil {
		s.log.Error().Stack().Err(err).Str("user", userID).Msg("credential lookup failed")
		return model.ErrorResult(msgGmailDown)
	}

	token, err := s.tokens.ResolveToken(ctx, cred)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("user", userID).Msg("token resolution failed")
		return model.ErrorResult(msgGmailDown)
	}
	if token == "" {
		return model.NeedsConnection(msgConnectRefresh)
	}

	items, err := s.fetchMemories(ctx, token)
	if err == nil {
		return model.OkResult(items)
	}

	if gmail.IsUnauthorized(err) {
		// Token revoked out from under us despite passing the local expiry
		// check. One forced refresh, one retry, then give up.
		refreshed, rerr := s.tokens.Refresh(ctx, cred)
		if rerr == nil && refreshed != "" {
			if items, err := s.fetchMemories(ctx, refreshed); err == nil {
				return model.OkResult(items)
			}
		}
		return model.NeedsConnection(msgConnectRefresh)
	}

	s.log.Error().Stack().Err(err).Str("user", userID).Msg("memories fetch failed")
	return model.ErrorResult(msgGmailDown)
}

type scoredItem struct {
	item    model.MemoryItem
	sortKey int64 // derived timestamp, epoch millis
}

// fetchMemories searches each lookback year for messages the user sent on
// today's calendar day and normalizes them into display-ready items, newest
// first. Years run sequentially; metadata fetches within a year run
// concurrently. Any provider error aborts the whole fetch.
func (s *MemoryService) fetchMemories(ctx context.Context, accessToken string) ([]model.MemoryItem, error) {
	today := s.Clock()
	var collected []scoredItem

	for offset := 1; offset <= yearsBack; offset++ {
		start := time.Date(today.Year()-offset, today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		end := start.AddDate(0, 0, 1)
		query := fmt.Sprintf("from:me after:%s before:%s", QueryDate(start), QueryDate(end))

		refs, err := s.gmail.ListMessages(ctx, accessToken, query, maxResultsPerYear)
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			continue
		}

		details := make([]*gmail.Message, len(refs))
		g, gctx := errgroup.WithContext(ctx)
		for i, ref := range refs {
			i, ref := i, ref
			g.Go(func() error {
				msg, err := s.gmail.GetMessage(gctx, accessToken, ref.ID)
				if err != nil {
					return err
				}
				details[i] = msg
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, detail := range details {
			collected = append(collected, normalizeMessage(detail, start))
		}
	}

	sortScoredDesc(collected)

	items := make([]model.MemoryItem, 0, len(collected))
	for _, sc := range collected {
		items = append(items, sc.item)
	}
	return items, nil
}

// normalizeMessage turns one metadata response into a MemoryItem plus its
// sort key. fallback is the query window's start, used when the message
// carries no usable timestamp at all.
func normalizeMessage(detail *gmail.Message, fallback time.Time) scoredItem {
	headers := detail.Payload.Headers

	subject := gmail.HeaderValue(headers, "Subject")
	if subject == "" {
		subject = "(No subject)"
	}
	to := gmail.HeaderValue(headers, "To")
	if to == "" {
		to = "Unknown recipient"
	}

	ts := messageTime(detail, fallback)

	threadID := detail.ThreadID
	if threadID == "" {
		threadID = detail.ID
	}

	return scoredItem{
		sortKey: ts.UnixMilli(),
		item: model.MemoryItem{
			ID:        detail.ID,
			Subject:   subject,
			Snippet:   detail.Snippet,
			To:        to,
			Date:      DisplayDate(ts),
			Year:      strconv.Itoa(ts.Year()),
			GmailLink: gmailLinkPrefix + threadID,
		},
	}
}

// messageTime derives the authoritative send time: the provider's internal
// millisecond timestamp when present, then the parsed Date header, then the
// query window's start. The year shown to the user always comes from this
// value, not from the year being queried.
func messageTime(detail *gmail.Message, fallback time.Time) time.Time {
	if detail.InternalDate != "" {
		if ms, err := strconv.ParseInt(detail.InternalDate, 10, 64); err == nil {
			return time.UnixMilli(ms)
		}
	}
	if dateHeader := gmail.HeaderValue(detail.Payload.Headers, "Date"); dateHeader != "" {
		if t, err := mail.ParseDate(dateHeader); err == nil {
			return t
		}
	}
	return fallback
}
