package calllog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/calldesk/internal/domain"
)

func TestRankPhonesPartialFailure(t *testing.T) {
	src := &fakeSource{
		latest: map[string]string{
			"+1": "2024-01-01T10:00:00Z",
			"+2": "2024-01-03T10:00:00Z",
			"+3": "2024-01-02T10:00:00Z",
			"+4": "2024-01-05T10:00:00Z",
			"+5": "2024-01-04T10:00:00Z",
		},
		failPhone: map[string]bool{"+2": true, "+4": true},
	}

	got := RankPhones(context.Background(), src, []string{"+1", "+2", "+3", "+4", "+5"}, 2)
	require.Len(t, got, 5)

	phones := make([]string, len(got))
	for i, e := range got {
		phones[i] = e.Phone
	}
	assert.Equal(t, []string{"+5", "+3", "+1", "+2", "+4"}, phones)
	assert.Nil(t, got[3].LatestTimestamp)
	assert.Nil(t, got[4].LatestTimestamp)
	require.NotNil(t, got[0].LatestTimestamp)
	assert.Equal(t, "2024-01-04T10:00:00Z", *got[0].LatestTimestamp)

	for _, q := range src.turnQueries {
		assert.Equal(t, 1, q.Limit)
		assert.Equal(t, "desc", q.Order)
	}
}

func TestRankPhonesNoTurns(t *testing.T) {
	src := &fakeSource{latest: map[string]string{"+2": "2024-01-01T00:00:00Z"}}
	got := RankPhones(context.Background(), src, []string{"+1", "+2"}, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "+2", got[0].Phone)
	assert.Nil(t, got[1].LatestTimestamp)
}

func TestFilterPhones(t *testing.T) {
	entries := []domain.PhoneEntry{{Phone: "+15551234567"}, {Phone: "+4420"}, {Phone: "+15559999"}}

	assert.Len(t, FilterPhones(entries, ""), 3)
	assert.Len(t, FilterPhones(entries, "  "), 3)
	got := FilterPhones(entries, "555")
	require.Len(t, got, 2)
	assert.Equal(t, "+15551234567", got[0].Phone)
	assert.Empty(t, FilterPhones(entries, "000"))
}
