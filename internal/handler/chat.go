package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/service"
	tg "github.com/set-night/calldesk/internal/telegram"
)

// parseChatArgs reads "<phone> [sid=CA…] <text>".
func parseChatArgs(args string) (service.ChatRequest, bool) {
	phone, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	rest = strings.TrimSpace(rest)
	req := service.ChatRequest{PhoneNumber: phone}
	if strings.HasPrefix(rest, "sid=") {
		sid, text, _ := strings.Cut(rest, " ")
		req.CallSID = strings.TrimPrefix(sid, "sid=")
		rest = strings.TrimSpace(text)
	}
	req.UserText = rest
	return req, req.PhoneNumber != "" && req.UserText != ""
}

func (h *Handler) handleChat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, ok := parseChatArgs(commandArgs(update.Message.Text))
	if !ok {
		h.sendText(ctx, b, chatID, "Использование: /chat <телефон> [sid=CA…] <текст>")
		return
	}

	pending, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "⏳ Отправка…",
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton("⛔ Отменить", cbChatCancel))),
	})
	if err != nil {
		slog.Error("send chat placeholder", "error", err, "chat_id", chatID)
		return
	}

	reply, err := h.chat.Send(ctx, chatID, req)
	var text string
	switch {
	case errors.Is(err, context.Canceled):
		text = "⛔ Отправка отменена."
	case err != nil:
		slog.Error("chat send failed", "error", err, "chat_id", chatID)
		text = errorText(err)
	case reply == "":
		text = "🤖 (пустой ответ)"
	default:
		text = "🤖 " + reply
	}
	if err := tg.Render(ctx, b, chatID, pending.ID, text, nil); err != nil {
		slog.Error("render chat reply", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleChatCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	if err := h.chat.Cancel(cb.chatID); err != nil {
		return
	}
	_ = tg.Render(ctx, b, cb.chatID, cb.messageID, "⛔ Отправка отменена.", nil)
}
