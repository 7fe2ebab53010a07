package calllog

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// invalidInstant orders unparsable timestamps before every real instant.
const invalidInstant = math.MinInt64

// instantLayouts are tried in order. Layouts without a zone are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseInstant parses an ISO-8601 timestamp into Unix milliseconds.
func ParseInstant(ts string) (int64, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return 0, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// sortKey returns the instant used for ordering; unparsable input sorts as
// infinitely old.
func sortKey(ts string) int64 {
	ms, ok := ParseInstant(ts)
	if !ok {
		return invalidInstant
	}
	return ms
}

// FormatRangeBound renders a range bound the way the calls endpoint
// expects: UTC, second precision, explicit +00:00 offset.
func FormatRangeBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05") + "+00:00"
}

var rangeInputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseRangeInput reads an operator-typed bound. RFC 3339 input keeps its
// own offset; everything else is interpreted in loc.
func ParseRangeInput(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range rangeInputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}
