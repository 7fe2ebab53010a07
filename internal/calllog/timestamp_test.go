package calllog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).UnixMilli()

	for _, ts := range []string{
		"2024-01-01T10:00:00Z",
		"2024-01-01T10:00:00.000Z",
		"2024-01-01T12:00:00+02:00",
		"2024-01-01T10:00:00",
		"2024-01-01T10:00:00.000000",
		"2024-01-01 10:00:00",
		"2024-01-01T10:00:00+0000",
	} {
		got, ok := ParseInstant(ts)
		require.True(t, ok, ts)
		assert.Equal(t, want, got, ts)
	}

	for _, ts := range []string{"", "yesterday", "2024-13-01T00:00:00Z"} {
		_, ok := ParseInstant(ts)
		assert.False(t, ok, ts)
	}
}

func TestFormatRangeBound(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	assert.Equal(t, "2024-01-01T07:30:00+00:00", FormatRangeBound(time.Date(2024, 1, 1, 10, 30, 0, 0, loc)))
	assert.Equal(t, "", FormatRangeBound(time.Time{}))
}

func TestParseRangeInput(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)

	got, err := ParseRangeInput("2024-01-01T10:30", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T07:30:00+00:00", FormatRangeBound(got))

	got, err = ParseRangeInput("2024-01-01T10:30:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:30:00+00:00", FormatRangeBound(got))

	_, err = ParseRangeInput("tomorrow", loc)
	assert.Error(t, err)
}

func TestQuickRangeBounds(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)

	from, to := RangeToday.Bounds(now)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, now, to)

	from, _ = Range24h.Bounds(now)
	assert.Equal(t, now.Add(-24*time.Hour), from)

	from, _ = Range7d.Bounds(now)
	assert.Equal(t, now.AddDate(0, 0, -7), from)

	from, to = RangeClear.Bounds(now)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())

	_, err := ParseQuickRange("month")
	assert.Error(t, err)
	r, err := ParseQuickRange("24h")
	require.NoError(t, err)
	assert.Equal(t, Range24h, r)
}
