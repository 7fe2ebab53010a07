package calllog

import (
	"time"

	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
)

const minuteMs = int64(time.Minute / time.Millisecond)

// LogWindow is a query window for the event log endpoint.
type LogWindow struct {
	StartMs int64
	Minutes int
}

func (w LogWindow) Start() time.Time {
	return time.UnixMilli(w.StartMs).UTC()
}

func (w LogWindow) End() time.Time {
	return w.Start().Add(time.Duration(w.Minutes) * time.Minute)
}

// LogWindowFor covers a session's turns (oldest first) with a few minutes of
// padding on each side, capped at the endpoint maximum. Sessions whose
// timestamps do not parse get a short window ending around now.
func LogWindowFor(members []domain.Turn, now time.Time) LogWindow {
	if len(members) == 0 {
		return fallbackWindow(now)
	}
	first, ok := ParseInstant(members[0].Timestamp)
	if !ok {
		return fallbackWindow(now)
	}
	last, ok := ParseInstant(members[len(members)-1].Timestamp)
	if !ok {
		return fallbackWindow(now)
	}

	pad := int64(config.LogPadMinutes)
	start := first - pad*minuteMs
	if start < 0 {
		start = 0
	}

	span := (last - first + minuteMs - 1) / minuteMs
	if last <= first {
		span = 0
	}
	if span < 1 {
		span = 1
	}

	minutes := span + 2*pad
	if minutes > config.LogMaxMinutes {
		minutes = config.LogMaxMinutes
	}
	return LogWindow{StartMs: start, Minutes: int(minutes)}
}

func fallbackWindow(now time.Time) LogWindow {
	start := now.Add(-config.LogFallbackLookback).UnixMilli()
	if start < 0 {
		start = 0
	}
	return LogWindow{StartMs: start, Minutes: config.LogFallbackMinutes}
}
