package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/calldesk/internal/domain"
)

const testPhone = "+15551234567"

func scenarioTurns() []domain.Turn {
	return []domain.Turn{
		{Timestamp: "2024-01-01T10:00:00Z", CallID: "A", UserText: "hi", AssistantText: "hello"},
		{Timestamp: "2024-01-01T10:05:00Z", CallID: "A", UserText: "bye"},
		{Timestamp: "2024-01-01T09:00:00Z", CallID: "B", UserText: "earlier"},
	}
}

func TestGroupScenario(t *testing.T) {
	g := Group(scenarioTurns(), testPhone)

	require.Len(t, g.Sessions, 2)
	a, b := g.Sessions[0], g.Sessions[1]

	assert.Equal(t, testPhone+"|A", a.Key)
	assert.Equal(t, 2, a.TurnCount)
	assert.Equal(t, "2024-01-01T10:05:00Z", a.LatestTimestamp)
	assert.Equal(t, "bye", a.PreviewUser)
	assert.Equal(t, "hello", a.PreviewAssistant)
	assert.Equal(t, testPhone, a.PhoneNumber)

	assert.Equal(t, testPhone+"|B", b.Key)
	assert.Equal(t, 1, b.TurnCount)
}

func TestGroupIsIdempotent(t *testing.T) {
	turns := append(scenarioTurns(),
		domain.Turn{Timestamp: "2024-01-01T08:00:00Z"},
		domain.Turn{Timestamp: "garbage", CallID: "C"},
		domain.Turn{Timestamp: "2024-01-01T11:00:00.5Z", PhoneNumber: "+1999", CallID: "A"},
	)
	assert.Equal(t, Group(turns, testPhone), Group(turns, testPhone))
}

func TestGroupLatestIsMaxAndMembersAscending(t *testing.T) {
	turns := []domain.Turn{
		{Timestamp: "2024-01-01T10:05:00Z", CallID: "A", UserText: "second"},
		{Timestamp: "2024-01-01T10:00:00.123Z", CallID: "A", UserText: "first"},
		{Timestamp: "2024-01-01T10:05:00.000Z", CallID: "A", UserText: "tie"},
		{Timestamp: "2024-01-01T10:10:00+02:00", CallID: "A", UserText: "offset"},
	}
	g := Group(turns, testPhone)
	require.Len(t, g.Sessions, 1)

	s := g.Sessions[0]
	assert.Equal(t, "2024-01-01T10:05:00Z", s.LatestTimestamp)
	assert.Equal(t, "second", s.PreviewUser)

	members := g.Members[s.Key]
	require.Len(t, members, 4)
	assert.Equal(t, []string{"offset", "first", "second", "tie"}, []string{
		members[0].UserText, members[1].UserText, members[2].UserText, members[3].UserText,
	})

	var maxMs int64 = invalidInstant
	for i, m := range members {
		ms := sortKey(m.Timestamp)
		if i > 0 {
			assert.LessOrEqual(t, sortKey(members[i-1].Timestamp), ms)
		}
		if ms > maxMs {
			maxMs = ms
		}
	}
	assert.Equal(t, maxMs, sortKey(s.LatestTimestamp))
}

func TestGroupPreviewFollowsLatestOnTie(t *testing.T) {
	turns := []domain.Turn{
		{Timestamp: "2024-01-01T10:05:00Z", CallID: "A", UserText: "kept", AssistantText: "reply"},
		{Timestamp: "2024-01-01T10:05:00.000Z", CallID: "A", UserText: "dropped", AssistantText: "ignored"},
		{Timestamp: "2024-01-01T10:00:00Z", CallID: "A", UserText: "older"},
	}
	g := Group(turns, testPhone)
	require.Len(t, g.Sessions, 1)

	s := g.Sessions[0]
	assert.Equal(t, "2024-01-01T10:05:00Z", s.LatestTimestamp)
	assert.Equal(t, "kept", s.PreviewUser)
	assert.Equal(t, "reply", s.PreviewAssistant)
}

func TestGroupPreviewFallsBackBeforeLatest(t *testing.T) {
	turns := []domain.Turn{
		{Timestamp: "2024-01-01T10:00:00Z", CallID: "A", UserText: "hi", AssistantText: "hello"},
		{Timestamp: "2024-01-01T10:05:00Z", CallID: "A"},
		{Timestamp: "2024-01-01T10:05:00.000Z", CallID: "A", UserText: "tied", AssistantText: "tied"},
	}
	s := Group(turns, testPhone).Sessions[0]
	assert.Equal(t, "hi", s.PreviewUser)
	assert.Equal(t, "hello", s.PreviewAssistant)
}

func TestGroupUnparsableSortsOldest(t *testing.T) {
	turns := []domain.Turn{
		{Timestamp: "not-a-time", CallID: "X"},
		{Timestamp: "2024-01-01T09:00:00Z", CallID: "B"},
		{Timestamp: "2023-12-31T23:59:59Z", CallID: "C"},
	}
	g := Group(turns, testPhone)
	require.Len(t, g.Sessions, 3)
	assert.Equal(t, testPhone+"|B", g.Sessions[0].Key)
	assert.Equal(t, testPhone+"|C", g.Sessions[1].Key)
	assert.Equal(t, testPhone+"|X", g.Sessions[2].Key)
}

func TestGroupValidTimestampReplacesUnparsableLatest(t *testing.T) {
	turns := []domain.Turn{
		{Timestamp: "bad", CallID: "A"},
		{Timestamp: "2024-01-01T09:00:00Z", CallID: "A"},
	}
	g := Group(turns, testPhone)
	require.Len(t, g.Sessions, 1)
	assert.Equal(t, "2024-01-01T09:00:00Z", g.Sessions[0].LatestTimestamp)
	assert.Equal(t, "bad", g.Members[g.Sessions[0].Key][0].Timestamp)
}

func TestGroupKeys(t *testing.T) {
	turns := []domain.Turn{
		{Timestamp: "2024-01-01T10:00:00Z"},
		{Timestamp: "2024-01-01T10:00:00Z"},
		{Timestamp: "2024-01-01T10:01:00Z"},
		{Timestamp: "2024-01-01T10:02:00Z", PhoneNumber: "+1777", CallID: "A"},
	}

	g := Group(turns, testPhone)
	require.Len(t, g.Sessions, 3)
	assert.Equal(t, "+1777|A", g.Sessions[0].Key)
	assert.Equal(t, testPhone+"|2024-01-01T10:01:00Z", g.Sessions[1].Key)

	collided := g.Sessions[2]
	assert.Equal(t, testPhone+"|2024-01-01T10:00:00Z", collided.Key)
	assert.Equal(t, 2, collided.TurnCount)
	assert.False(t, collided.HasCall())
}

func TestGroupWithoutPhone(t *testing.T) {
	g := Group([]domain.Turn{{Timestamp: "2024-01-01T10:00:00Z"}}, "")
	require.Len(t, g.Sessions, 1)
	assert.Equal(t, "|2024-01-01T10:00:00Z", g.Sessions[0].Key)
	assert.Equal(t, "", g.Sessions[0].PhoneNumber)
}

func TestGroupEmpty(t *testing.T) {
	g := Group(nil, testPhone)
	assert.Empty(t, g.Sessions)
	assert.Empty(t, g.Members)
	_, ok := g.Find("x")
	assert.False(t, ok)
}
