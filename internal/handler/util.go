package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/middleware"
	"github.com/set-night/calldesk/internal/service"
)

// commandArgs returns the text after the command word, without any
// @botname suffix.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, rest, _ := strings.Cut(text, " ")
	return strings.TrimSpace(rest)
}

// splitPair splits "a | b" into its trimmed halves.
func splitPair(s string) (string, string, bool) {
	a, b, ok := strings.Cut(s, "|")
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a, b, ok && a != "" && b != ""
}

// callbackIndex parses the integer after prefix in callback data.
func callbackIndex(data, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

type callback struct {
	data      string
	chatID    int64
	messageID int
}

// acceptCallback acknowledges the query straight away; results and errors
// are rendered into the message itself.
func acceptCallback(ctx context.Context, b *bot.Bot, update *models.Update) (callback, bool) {
	q := update.CallbackQuery
	if q == nil {
		return callback{}, false
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID})

	msg := q.Message.Message
	if msg == nil {
		return callback{}, false
	}
	return callback{data: q.Data, chatID: msg.Chat.ID, messageID: msg.ID}, true
}

func (h *Handler) stateFor(ctx context.Context, chatID int64) *chatState {
	return h.states.get(chatID, middleware.GetOperator(ctx))
}

// errorText renders err for an operator.
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrBusy):
		return "⏳ Запрос уже выполняется, подождите."
	case errors.Is(err, domain.ErrAPIBaseNotConfigured):
		return "❌ API_BASE_URL не задан. Обратитесь к администратору."
	case errors.Is(err, domain.ErrConfirmationExpired):
		return "⌛ Подтверждение устарело. Повторите действие."
	}
	return "❌ " + service.ErrorMessage(err)
}

func (h *Handler) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		slog.Error("send message", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) sendError(ctx context.Context, b *bot.Bot, chatID int64, where string, err error) {
	slog.Error(where, "error", err, "chat_id", chatID)
	h.sendText(ctx, b, chatID, errorText(err))
}
