package domain

import (
	"time"
)

// Operator is a Telegram user allowed to drive the console.
type Operator struct {
	ID              int64
	TelegramID      int64
	IsAdmin         bool
	FirstName       string
	Username        string
	DefaultLimit    int
	LastInteraction time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o *Operator) DisplayName() string {
	if o.Username != "" {
		return "@" + o.Username
	}
	return o.FirstName
}
