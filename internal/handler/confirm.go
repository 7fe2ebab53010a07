package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/middleware"
	"github.com/set-night/calldesk/internal/service"
	tg "github.com/set-night/calldesk/internal/telegram"
)

func pendingDeleteTurn(chatID int64, sessionKey, phone, ts string) service.PendingAction {
	return service.PendingAction{
		Kind:       service.ConfirmDeleteTurn,
		ChatID:     chatID,
		SessionKey: sessionKey,
		Phone:      phone,
		TurnTS:     ts,
	}
}

func pendingDeleteSession(chatID int64, s domain.Session) service.PendingAction {
	return service.PendingAction{
		Kind:       service.ConfirmDeleteSession,
		ChatID:     chatID,
		SessionKey: s.Key,
		Phone:      s.PhoneNumber,
		CallSID:    s.CallID,
	}
}

// askConfirm parks action under a token and shows the ✅/❌ prompt.
func (h *Handler) askConfirm(ctx context.Context, b *bot.Bot, cb callback, action service.PendingAction, question string) {
	token := h.confirms.Put(action)
	kb := tg.InlineKeyboard(tg.ConfirmRow(cbConfirmYes, cbConfirmNo, token))
	if err := tg.Render(ctx, b, cb.chatID, cb.messageID, "⚠️ "+question, kb); err != nil {
		slog.Error("render confirmation", "error", err, "chat_id", cb.chatID)
	}
}

func (h *Handler) handleConfirmNo(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	h.confirms.Drop(strings.TrimPrefix(cb.data, cbConfirmNo))
	if err := tg.Render(ctx, b, cb.chatID, cb.messageID, "Отменено.", nil); err != nil {
		slog.Error("render cancel", "error", err, "chat_id", cb.chatID)
	}
}

func (h *Handler) handleConfirmYes(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	action, err := h.confirms.Take(strings.TrimPrefix(cb.data, cbConfirmYes), cb.chatID)
	if err != nil {
		_ = tg.Render(ctx, b, cb.chatID, cb.messageID, errorText(err), nil)
		return
	}

	st := h.stateFor(ctx, cb.chatID)
	var ev domain.AuditEvent
	var done string

	switch action.Kind {
	case service.ConfirmDeleteTurn:
		err = st.viewer.DeleteTurn(ctx, action.Phone, action.TurnTS)
		ev = domain.AuditEvent{Action: domain.AuditDeleteTurn, Phone: action.Phone, TurnTS: action.TurnTS}
		done = "✅ Реплика удалена."
	case service.ConfirmDeleteSession:
		var n int
		n, err = st.viewer.DeleteSession(ctx, action.CallSID)
		ev = domain.AuditEvent{Action: domain.AuditDeleteSession, Phone: action.Phone, CallSID: action.CallSID, Detail: fmt.Sprintf("deleted: %d", n)}
		done = fmt.Sprintf("✅ Сессия удалена (реплик: %d).", n)
	case service.ConfirmDeleteFAQ:
		err = h.backend.DeleteFAQ(ctx, action.Name)
		ev = domain.AuditEvent{Action: domain.AuditDeleteFAQ, Detail: action.Name}
		done = "✅ FAQ удалён."
	case service.ConfirmDeleteTask:
		err = h.backend.DeleteTask(ctx, action.Name)
		ev = domain.AuditEvent{Action: domain.AuditDeleteTask, Detail: action.Name}
		done = "✅ Задача удалена."
	default:
		return
	}

	if err != nil {
		slog.Error("confirmed action failed", "kind", action.Kind, "error", err, "chat_id", cb.chatID)
		h.tgLogger.LogError(err, string(action.Kind))
		_ = tg.Render(ctx, b, cb.chatID, cb.messageID, errorText(err), nil)
		return
	}
	h.recordAudit(ctx, ev)

	switch action.Kind {
	case service.ConfirmDeleteTurn, service.ConfirmDeleteSession:
		st.with(func(s *chatState) {
			if action.Kind == service.ConfirmDeleteSession || s.openSession == action.SessionKey {
				s.openSession = ""
			}
		})
		_ = tg.Render(ctx, b, cb.chatID, cb.messageID, done, nil)
		h.showCalls(ctx, b, cb.chatID, 0, st)
	case service.ConfirmDeleteFAQ:
		_ = tg.Render(ctx, b, cb.chatID, cb.messageID, done, nil)
		h.showFAQs(ctx, b, cb.chatID, 0, st)
	case service.ConfirmDeleteTask:
		_ = tg.Render(ctx, b, cb.chatID, cb.messageID, done, nil)
		h.showTasks(ctx, b, cb.chatID, 0, st)
	}
}

// recordAudit stores ev and mirrors it to the log chat. Failures are logged
// and never block the operator.
func (h *Handler) recordAudit(ctx context.Context, ev domain.AuditEvent) {
	op := middleware.GetOperator(ctx)
	if op != nil {
		ev.OperatorID = op.ID
	}
	saved, err := h.audit.Record(ctx, ev)
	if err != nil {
		slog.Error("record audit event", "error", err, "action", ev.Action)
		saved = &ev
	}
	h.tgLogger.LogAudit(op, *saved)
}
