package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/config"
)

type rateLimiter interface {
	CheckAndIncrementRateLimit(ctx context.Context, chatID int64) (int32, error)
}

// RateLimit returns middleware that caps messages per chat per minute.
// Callback queries are not counted.
func RateLimit(limiter rateLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			count, err := limiter.CheckAndIncrementRateLimit(ctx, chatID)
			if err != nil {
				slog.Error("rate limit check failed", "error", err, "chat_id", chatID)
				next(ctx, b, update)
				return
			}

			if count > config.RateLimitPerMinute {
				slog.Debug("rate limited", "chat_id", chatID, "count", count)
				if count == config.RateLimitPerMinute+1 {
					b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: chatID,
						Text:   "⏳ Слишком много запросов. Подождите минуту.",
					})
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
