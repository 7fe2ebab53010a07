package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/config"
	tg "github.com/set-night/calldesk/internal/telegram"
)

func (h *Handler) handleAudit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	events, err := h.audit.Latest(ctx, config.AuditListSize)
	if err != nil {
		h.sendError(ctx, b, chatID, "list audit events", err)
		return
	}
	if len(events) == 0 {
		h.sendText(ctx, b, chatID, "Журнал пуст.")
		return
	}

	parts := make([]string, 0, len(events))
	for _, ev := range events {
		parts = append(parts, tg.FormatAudit(ev, operatorLabel(ev.OperatorID)))
	}
	h.sendText(ctx, b, chatID, "🗂 Последние действия\n\n"+strings.Join(parts, "\n\n"))
}

func operatorLabel(id int64) string {
	if id == 0 {
		return "?"
	}
	return "#" + strconv.FormatInt(id, 10)
}
