package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/middleware"
	tg "github.com/set-night/calldesk/internal/telegram"
)

func (h *Handler) handleCalls(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)

	if st.viewer.SelectedPhone() == "" {
		if err := st.viewer.LoadPhones(ctx); err != nil {
			h.sendError(ctx, b, chatID, "load phones", err)
			return
		}
	}
	h.loadAndShowCalls(ctx, b, chatID, 0, st)
}

// loadAndShowCalls does a fresh load and renders the first page. Load
// errors are part of the rendered view.
func (h *Handler) loadAndShowCalls(ctx context.Context, b *bot.Bot, chatID int64, messageID int, st *chatState) {
	err := st.viewer.LoadCalls(ctx)
	switch {
	case errors.Is(err, domain.ErrBusy):
		h.sendText(ctx, b, chatID, errorText(err))
		return
	case err != nil:
		slog.Error("load calls", "error", err, "chat_id", chatID)
	}
	h.showCalls(ctx, b, chatID, messageID, st)
}

func (h *Handler) showCalls(ctx context.Context, b *bot.Bot, chatID int64, messageID int, st *chatState) {
	text, kb, refs := renderSessions(st.viewer.View(), h.loc)
	st.with(func(s *chatState) {
		s.sessionRefs = refs
		s.awaitingFilter = false
	})
	if err := tg.Render(ctx, b, chatID, messageID, text, kb); err != nil {
		slog.Error("render calls", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleSessionPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	if p, ok := callbackIndex(cb.data, cbSessionPage); ok {
		st.viewer.SetPage(p)
	}
	h.showCalls(ctx, b, cb.chatID, cb.messageID, st)
}

func (h *Handler) handleLoadMore(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)

	err := st.viewer.LoadMore(ctx)
	switch {
	case errors.Is(err, domain.ErrBusy):
		h.sendText(ctx, b, cb.chatID, errorText(err))
		return
	case err != nil && !errors.Is(err, domain.ErrNoMorePages):
		slog.Error("load more calls", "error", err, "chat_id", cb.chatID)
	}
	h.showCalls(ctx, b, cb.chatID, cb.messageID, st)
}

func (h *Handler) handleRefresh(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	h.loadAndShowCalls(ctx, b, cb.chatID, cb.messageID, h.stateFor(ctx, cb.chatID))
}

func (h *Handler) handleBack(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	st.with(func(s *chatState) { s.openSession = "" })
	h.showCalls(ctx, b, cb.chatID, cb.messageID, st)
}

func (h *Handler) handleQuickRange(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	r, err := calllog.ParseQuickRange(strings.TrimPrefix(cb.data, cbRange))
	if err != nil {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	st.viewer.ApplyQuickRange(r)
	h.loadAndShowCalls(ctx, b, cb.chatID, cb.messageID, st)
}

// parseRangeArgs reads "/range <from> <to>". "-" leaves a bound open; no
// arguments clear the range.
func parseRangeArgs(args string, loc *time.Location) (from, to time.Time, err error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return time.Time{}, time.Time{}, nil
	}
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("usage: /range <from> <to>")
	}
	if fields[0] != "-" {
		if from, err = calllog.ParseRangeInput(fields[0], loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if fields[1] != "-" {
		if to, err = calllog.ParseRangeInput(fields[1], loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

func (h *Handler) handleRange(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)

	from, to, err := parseRangeArgs(commandArgs(update.Message.Text), h.loc)
	if err == nil {
		err = st.viewer.SetRange(from, to)
	}
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ "+err.Error()+"\nПример: /range 2024-01-01T00:00 2024-01-02T00:00")
		return
	}
	if st.viewer.SelectedPhone() == "" {
		h.sendText(ctx, b, chatID, "✅ Период сохранён. Выберите телефон: /phones")
		return
	}
	h.loadAndShowCalls(ctx, b, chatID, 0, st)
}

func (h *Handler) handleLimit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)

	n, err := strconv.Atoi(commandArgs(update.Message.Text))
	if err != nil {
		h.sendText(ctx, b, chatID, fmt.Sprintf("Текущий лимит: %d\nИзменить: /limit <1–1000>", st.viewer.View().Limit))
		return
	}

	limit := st.viewer.SetLimit(n)
	if op := middleware.GetOperator(ctx); op != nil && op.ID != 0 {
		if _, err := h.operators.SetDefaultLimit(ctx, op.ID, limit); err != nil {
			slog.Error("save default limit", "error", err, "operator_id", op.ID)
		}
	}
	h.sendText(ctx, b, chatID, fmt.Sprintf("✅ Лимит: %d", limit))
}
