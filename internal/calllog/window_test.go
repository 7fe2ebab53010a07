package calllog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/set-night/calldesk/internal/domain"
)

func turnsAt(ts ...string) []domain.Turn {
	out := make([]domain.Turn, len(ts))
	for i, s := range ts {
		out[i] = domain.Turn{Timestamp: s}
	}
	return out
}

func TestLogWindowFor(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name    string
		turns   []domain.Turn
		startMs int64
		minutes int
	}{
		{
			name:    "single turn gets one minute plus padding",
			turns:   turnsAt("2024-01-01T10:00:00Z"),
			startMs: first - 2*minuteMs,
			minutes: 5,
		},
		{
			name:    "partial minute rounds up",
			turns:   turnsAt("2024-01-01T10:00:00Z", "2024-01-01T10:03:10Z"),
			startMs: first - 2*minuteMs,
			minutes: 8,
		},
		{
			name:    "long session is capped",
			turns:   turnsAt("2024-01-01T10:00:00Z", "2024-01-01T12:00:00Z"),
			startMs: first - 2*minuteMs,
			minutes: 60,
		},
		{
			name:    "start never negative",
			turns:   turnsAt("1970-01-01T00:00:30Z", "1970-01-01T00:01:00Z"),
			startMs: 0,
			minutes: 5,
		},
		{
			name:    "unparsable falls back to recent window",
			turns:   turnsAt("bogus"),
			startMs: now.Add(-5 * time.Minute).UnixMilli(),
			minutes: 10,
		},
		{
			name:    "empty falls back",
			turns:   nil,
			startMs: now.Add(-5 * time.Minute).UnixMilli(),
			minutes: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := LogWindowFor(tt.turns, now)
			assert.Equal(t, tt.startMs, w.StartMs)
			assert.Equal(t, tt.minutes, w.Minutes)
			assert.GreaterOrEqual(t, w.StartMs, int64(0))
			assert.GreaterOrEqual(t, w.Minutes, 1)
			assert.LessOrEqual(t, w.Minutes, 60)
		})
	}
}

func TestLogWindowBounds(t *testing.T) {
	w := LogWindow{StartMs: 0, Minutes: 10}
	assert.Equal(t, time.Unix(0, 0).UTC(), w.Start())
	assert.Equal(t, time.Unix(600, 0).UTC(), w.End())
}
