package calllog

import (
	"sort"

	"github.com/set-night/calldesk/internal/domain"
)

// Grouping is the session view of a turn sequence.
type Grouping struct {
	// Members maps a session key to its turns, oldest first.
	Members map[string][]domain.Turn
	// Sessions holds one summary per key, most recent first.
	Sessions []domain.Session
}

// SessionKey identifies the session a turn belongs to. Turns without a call
// id are singletons keyed by their own timestamp, so two such turns with the
// same phone and timestamp share a key.
func SessionKey(phone, callID, ts string) string {
	if callID != "" {
		return phone + "|" + callID
	}
	return phone + "|" + ts
}

// Group derives sessions from turns. It has no side effects: the same input
// always yields the same keys in the same order.
func Group(turns []domain.Turn, selectedPhone string) Grouping {
	members := make(map[string][]domain.Turn)
	index := make(map[string]int)
	sessions := make([]domain.Session, 0)
	latest := make([]int64, 0)

	for _, t := range turns {
		phone := t.PhoneNumber
		if phone == "" {
			phone = selectedPhone
		}
		key := SessionKey(phone, t.CallID, t.Timestamp)
		members[key] = append(members[key], t)
		at := sortKey(t.Timestamp)

		i, seen := index[key]
		if !seen {
			index[key] = len(sessions)
			sessions = append(sessions, domain.Session{
				Key:             key,
				PhoneNumber:     phone,
				CallID:          t.CallID,
				LatestTimestamp: t.Timestamp,
				TurnCount:       1,
			})
			latest = append(latest, at)
			continue
		}

		sessions[i].TurnCount++
		if at > latest[i] {
			latest[i] = at
			sessions[i].LatestTimestamp = t.Timestamp
		}
	}

	for key, list := range members {
		sort.SliceStable(list, func(a, b int) bool {
			return sortKey(list[a].Timestamp) < sortKey(list[b].Timestamp)
		})
		members[key] = list
	}

	for i := range sessions {
		sessions[i].PreviewUser, sessions[i].PreviewAssistant = preview(members[sessions[i].Key], latest[i])
	}

	order := make([]int, len(sessions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return latest[order[a]] > latest[order[b]]
	})
	sorted := make([]domain.Session, len(sessions))
	for i, idx := range order {
		sorted[i] = sessions[idx]
	}

	return Grouping{Members: members, Sessions: sorted}
}

// preview picks the most recent non-empty user and assistant texts, starting
// at the turn that supplied the latest timestamp. Later turns with an equal
// instant are skipped so the preview matches LatestTimestamp.
func preview(turns []domain.Turn, latest int64) (user, assistant string) {
	start := len(turns) - 1
	for i, t := range turns {
		if sortKey(t.Timestamp) == latest {
			start = i
			break
		}
	}
	for i := start; i >= 0; i-- {
		if user == "" && turns[i].UserText != "" {
			user = turns[i].UserText
		}
		if assistant == "" && turns[i].AssistantText != "" {
			assistant = turns[i].AssistantText
		}
		if user != "" && assistant != "" {
			break
		}
	}
	return user, assistant
}

// Find returns the summary for key.
func (g Grouping) Find(key string) (domain.Session, bool) {
	for _, s := range g.Sessions {
		if s.Key == key {
			return s, true
		}
	}
	return domain.Session{}, false
}
