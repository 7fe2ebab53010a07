package service

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// pgTimestamptzToTime converts pgtype.Timestamptz to time.Time.
func pgTimestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if ts.Valid {
		return ts.Time
	}
	return time.Time{}
}

func int64PtrValue(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// nonZeroInt64Ptr maps the zero id to NULL.
func nonZeroInt64Ptr(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
