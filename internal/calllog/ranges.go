package calllog

import (
	"fmt"
	"time"
)

// QuickRange is a preset time-range filter.
type QuickRange string

const (
	RangeToday QuickRange = "today"
	Range24h   QuickRange = "24h"
	Range7d    QuickRange = "7d"
	RangeClear QuickRange = "clear"
)

func ParseQuickRange(s string) (QuickRange, error) {
	switch r := QuickRange(s); r {
	case RangeToday, Range24h, Range7d, RangeClear:
		return r, nil
	default:
		return "", fmt.Errorf("unknown range %q", s)
	}
}

// Bounds returns the range relative to now. RangeClear yields zero times,
// which leave the query open.
func (r QuickRange) Bounds(now time.Time) (from, to time.Time) {
	switch r {
	case RangeToday:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return from, now
	case Range24h:
		return now.Add(-24 * time.Hour), now
	case Range7d:
		return now.Add(-7 * 24 * time.Hour), now
	default:
		return time.Time{}, time.Time{}
	}
}
