package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/config"
	tg "github.com/set-night/calldesk/internal/telegram"
)

func (h *Handler) handlePhones(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)

	if err := st.viewer.LoadPhones(ctx); err != nil {
		h.sendError(ctx, b, chatID, "load phones", err)
		return
	}
	st.viewer.SetPhoneFilter(commandArgs(update.Message.Text))
	h.showPhones(ctx, b, chatID, 0, st)
}

func (h *Handler) showPhones(ctx context.Context, b *bot.Bot, chatID int64, messageID int, st *chatState) {
	text, kb, refs := renderPhones(st.viewer.PhoneList(), h.loc)
	st.with(func(s *chatState) {
		s.phoneRefs = refs
		s.awaitingFilter = true
	})
	if err := tg.Render(ctx, b, chatID, messageID, text, kb); err != nil {
		slog.Error("render phones", "error", err, "chat_id", chatID)
	}
}

// submitFilter applies filter input once the operator stops typing.
func (h *Handler) submitFilter(b *bot.Bot, chatID int64, st *chatState, text string) {
	var d *calllog.Debouncer[string]
	st.with(func(s *chatState) {
		if s.filter == nil {
			s.filter = calllog.NewDebouncer(config.FilterDebounce, func(filter string) {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				st.viewer.SetPhoneFilter(filter)
				h.showPhones(ctx, b, chatID, 0, st)
			})
		}
		d = s.filter
	})
	d.Submit(text)
}

func (h *Handler) handlePhoneSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)

	i, _ := callbackIndex(cb.data, cbPhone)
	var phone string
	var found bool
	st.with(func(s *chatState) {
		phone, found = ref(s.phoneRefs, i)
		s.awaitingFilter = false
	})
	if !found {
		h.showPhones(ctx, b, cb.chatID, cb.messageID, st)
		return
	}

	st.viewer.SelectPhone(phone)
	h.loadAndShowCalls(ctx, b, cb.chatID, cb.messageID, st)
}

func (h *Handler) handlePhonePage(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	if p, ok := callbackIndex(cb.data, cbPhonePage); ok {
		st.viewer.SetPhonePage(p)
	}
	h.showPhones(ctx, b, cb.chatID, cb.messageID, st)
}

func (h *Handler) handlePhoneList(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	if err := st.viewer.LoadPhones(ctx); err != nil {
		h.sendError(ctx, b, cb.chatID, "load phones", err)
		return
	}
	h.showPhones(ctx, b, cb.chatID, cb.messageID, st)
}
