package services

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// QueryDate renders a time the way Gmail search operators expect it
// (after:2017/08/30).
func QueryDate(t time.Time) string {
	return t.Format("2006/01/02")
}

// DisplayDate renders a human-readable send date (Aug 30, 2017).
func DisplayDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// sortScoredDesc orders items newest first by derived timestamp. The sort is
// stable so equal timestamps keep their fan-out order.
func sortScoredDesc(items []scoredItem) {
	slices.SortStableFunc(items, func(a, b scoredItem) int {
		switch {
		case a.sortKey > b.sortKey:
			return -1
		case a.sortKey < b.sortKey:
			return 1
		default:
			return 0
		}
	})
}

var (
	angleAddrRe = regexp.MustCompile(`<([^>]+)>`)
	bareAddrRe  = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
)

// ExtractEmail pulls the first email address out of a raw recipient header,
// preferring an angle-bracket address over a bare one. Returns "" when the
// header holds no address.
func ExtractEmail(value string) string {
	if m := angleAddrRe.FindStringSubmatch(value); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return bareAddrRe.FindString(value)
}

// RecipientLabel reduces a raw To header to something short enough to show:
// the first address when one exists, otherwise the first comma-separated
// display name with quotes stripped.
func RecipientLabel(value string) string {
	if email := ExtractEmail(value); email != "" {
		return email
	}
	trimmed := strings.TrimSpace(strings.ReplaceAll(value, `"`, ""))
	if trimmed == "" {
		return ""
	}
	if i := strings.Index(trimmed, ","); i >= 0 {
		return strings.TrimSpace(trimmed[:i])
	}
	return trimmed
}

// RecipientDomain returns the domain of the first recipient address, or "".
func RecipientDomain(value string) string {
	email := ExtractEmail(value)
	if email == "" {
		return ""
	}
	if i := strings.LastIndex(email, "@"); i >= 0 && i+1 < len(email) {
		return strings.ToLower(email[i+1:])
	}
	return ""
}
