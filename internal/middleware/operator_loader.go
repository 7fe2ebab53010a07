package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/domain"
)

type ctxKey string

const OperatorKey ctxKey = "operator"

// GetOperator extracts the operator from context.
func GetOperator(ctx context.Context) *domain.Operator {
	op, ok := ctx.Value(OperatorKey).(*domain.Operator)
	if !ok {
		return nil
	}
	return op
}

func WithOperator(ctx context.Context, op *domain.Operator) context.Context {
	return context.WithValue(ctx, OperatorKey, op)
}

type operatorToucher interface {
	Touch(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.Operator, error)
}

// OperatorLoader lets only configured operators through and puts their
// record into the context. Everybody else gets a refusal.
func OperatorLoader(operators operatorToucher, cfg interface{ IsAdmin(int64) bool }) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			_, from, chatID := origin(update)
			if from == nil {
				return
			}

			if !cfg.IsAdmin(from.ID) {
				slog.Warn("update from non-operator", "user_id", from.ID, "chat_id", chatID)
				if update.CallbackQuery != nil {
					b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
						CallbackQueryID: update.CallbackQuery.ID,
						Text:            "⛔ Нет доступа",
					})
					return
				}
				if chatID != 0 {
					b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: chatID,
						Text:   "⛔ Эта консоль доступна только операторам.",
					})
				}
				return
			}

			op, err := operators.Touch(ctx, from.ID, from.FirstName, from.Username, true)
			if err != nil {
				slog.Error("failed to load operator", "error", err, "user_id", from.ID)
				op = &domain.Operator{TelegramID: from.ID, FirstName: from.FirstName, Username: from.Username, IsAdmin: true}
			}
			next(WithOperator(ctx, op), b, update)
		}
	}
}
