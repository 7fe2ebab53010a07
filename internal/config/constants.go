package config

import "time"

const (
	// Turn fetch limits accepted by the backend
	MinFetchLimit     = 1
	MaxFetchLimit     = 1000
	DefaultFetchLimit = 50

	// Sessions per page
	SessionsPerPage = 5

	// Phones per page
	PhonesPerPage = 8

	// FAQs and tasks per page
	ItemsPerPage = 5

	// Phone filter debounce
	FilterDebounce = 300 * time.Millisecond

	// Log window around a session
	LogPadMinutes       = 2
	LogMaxMinutes       = 60
	LogFallbackLookback = 5 * time.Minute
	LogFallbackMinutes  = 10
	LogFetchLimit       = 200

	// Pending delete confirmations
	ConfirmationTTL = 5 * time.Minute

	// Rate limit (per minute)
	RateLimitPerMinute = 30

	// Stale rate limit cleanup
	RateLimitCleanup = 10 * time.Minute

	// Chat send timeout
	ChatTimeout = 90 * time.Second

	// Audit entries shown by /audit
	AuditListSize = 10

	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxPreviewLen         = 40
)

// ClampLimit bounds a requested fetch limit to what the backend accepts.
// Zero means "unset" and falls back to the default.
func ClampLimit(n int) int {
	if n == 0 {
		return DefaultFetchLimit
	}
	if n < MinFetchLimit {
		return MinFetchLimit
	}
	if n > MaxFetchLimit {
		return MaxFetchLimit
	}
	return n
}
