package calllog

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/service"
)

type turnLister interface {
	ListTurns(ctx context.Context, q service.TurnQuery) (*domain.TurnPage, error)
}

// RankPhones looks up the latest turn of every phone concurrently and sorts
// the phones newest first. A failed lookup leaves that phone without a
// timestamp; it never cancels the other lookups.
func RankPhones(ctx context.Context, src turnLister, phones []string, concurrency int) []domain.PhoneEntry {
	entries := make([]domain.PhoneEntry, len(phones))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, phone := range phones {
		g.Go(func() error {
			entries[i] = domain.PhoneEntry{Phone: phone}
			page, err := src.ListTurns(ctx, service.TurnQuery{Phone: phone, Limit: 1, Order: "desc"})
			if err != nil {
				slog.Warn("latest turn lookup failed", "phone", phone, "error", err)
				return nil
			}
			if len(page.Turns) > 0 && page.Turns[0].Timestamp != "" {
				ts := page.Turns[0].Timestamp
				entries[i].LatestTimestamp = &ts
			}
			return nil
		})
	}
	_ = g.Wait()

	SortPhoneEntries(entries)
	return entries
}

// SortPhoneEntries orders entries newest first; entries without a timestamp
// go last in their original order.
func SortPhoneEntries(entries []domain.PhoneEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		return phoneKey(entries[a]) > phoneKey(entries[b])
	})
}

func phoneKey(e domain.PhoneEntry) int64 {
	if e.LatestTimestamp == nil {
		return invalidInstant
	}
	return sortKey(*e.LatestTimestamp)
}

// FilterPhones keeps entries whose phone contains filter.
func FilterPhones(entries []domain.PhoneEntry, filter string) []domain.PhoneEntry {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return entries
	}
	out := make([]domain.PhoneEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e.Phone, filter) {
			out = append(out, e)
		}
	}
	return out
}
