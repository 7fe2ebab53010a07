package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gopkg.in/yaml.v3"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/service"
	tg "github.com/set-night/calldesk/internal/telegram"
)

func (h *Handler) handlePrompt(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	p, err := h.backend.GetPrompt(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, "get prompt", err)
		return
	}
	text := "📝 Системный промпт"
	if p.ID != "" {
		text += " (" + p.ID + ")"
	}
	if p.Content == "" {
		text += "\n\nПромпт пуст."
	} else {
		text += "\n\n" + p.Content
	}
	if err := tg.SendLongMessage(ctx, b, chatID, text, nil); err != nil {
		slog.Error("send prompt", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleSetPrompt(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	content := commandArgs(update.Message.Text)
	if content == "" {
		h.sendText(ctx, b, chatID, "Использование: /setprompt <текст промпта>")
		return
	}
	if err := h.backend.PutPrompt(ctx, content); err != nil {
		h.sendError(ctx, b, chatID, "put prompt", err)
		return
	}
	h.recordAudit(ctx, domain.AuditEvent{Action: domain.AuditUpdatePrompt, Detail: calllog.Truncate(content, 200)})
	h.sendText(ctx, b, chatID, "✅ Промпт сохранён.")
}

func (h *Handler) handleFAQs(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)
	st.with(func(s *chatState) { s.faqPage = 1 })
	h.showFAQs(ctx, b, chatID, 0, st)
}

func (h *Handler) showFAQs(ctx context.Context, b *bot.Bot, chatID int64, messageID int, st *chatState) {
	faqs, err := h.backend.ListFAQs(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, "list faqs", err)
		return
	}
	var page int
	st.with(func(s *chatState) { page = s.faqPage })

	text, kb, refs := renderFAQs(faqs, page)
	st.with(func(s *chatState) {
		s.faqRefs = refs
		s.faqPage = calllog.NewPager(len(faqs), page, config.ItemsPerPage).Page
	})
	if err := tg.Render(ctx, b, chatID, messageID, text, kb); err != nil {
		slog.Error("render faqs", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleFAQPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	if p, ok := callbackIndex(cb.data, cbFAQPage); ok {
		st.with(func(s *chatState) { s.faqPage = p })
	}
	h.showFAQs(ctx, b, cb.chatID, cb.messageID, st)
}

func (h *Handler) handleFAQDeleteAsk(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	i, _ := callbackIndex(cb.data, cbFAQDelete)
	var q string
	var found bool
	st.with(func(s *chatState) { q, found = ref(s.faqRefs, i) })
	if !found {
		return
	}
	h.askConfirm(ctx, b, cb, service.PendingAction{Kind: service.ConfirmDeleteFAQ, ChatID: cb.chatID, Name: q},
		"Удалить FAQ «"+q+"»?")
}

func (h *Handler) handleFAQAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	q, a, ok := splitPair(commandArgs(update.Message.Text))
	if !ok {
		h.sendText(ctx, b, chatID, "Использование: /faqadd вопрос | ответ")
		return
	}
	if err := h.backend.CreateFAQ(ctx, q, a); err != nil {
		h.sendError(ctx, b, chatID, "create faq", err)
		return
	}
	h.recordAudit(ctx, domain.AuditEvent{Action: domain.AuditCreateFAQ, Detail: q})
	h.sendText(ctx, b, chatID, "✅ FAQ добавлен.")
}

func (h *Handler) handleFAQEdit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	q, a, ok := splitPair(commandArgs(update.Message.Text))
	if !ok {
		h.sendText(ctx, b, chatID, "Использование: /faqedit вопрос | новый ответ")
		return
	}
	if err := h.backend.UpdateFAQ(ctx, q, a); err != nil {
		h.sendError(ctx, b, chatID, "update faq", err)
		return
	}
	h.recordAudit(ctx, domain.AuditEvent{Action: domain.AuditUpdateFAQ, Detail: q})
	h.sendText(ctx, b, chatID, "✅ FAQ обновлён.")
}

func (h *Handler) handleTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)
	st.with(func(s *chatState) { s.taskPage = 1 })
	h.showTasks(ctx, b, chatID, 0, st)
}

func (h *Handler) showTasks(ctx context.Context, b *bot.Bot, chatID int64, messageID int, st *chatState) {
	tasks, err := h.backend.ListTasks(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, "list tasks", err)
		return
	}
	var page int
	st.with(func(s *chatState) { page = s.taskPage })

	text, kb, refs := renderTasks(tasks, page)
	st.with(func(s *chatState) {
		s.taskRefs = refs
		s.taskPage = calllog.NewPager(len(tasks), page, config.ItemsPerPage).Page
	})
	if err := tg.Render(ctx, b, chatID, messageID, text, kb); err != nil {
		slog.Error("render tasks", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleTaskPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	if p, ok := callbackIndex(cb.data, cbTaskPage); ok {
		st.with(func(s *chatState) { s.taskPage = p })
	}
	h.showTasks(ctx, b, cb.chatID, cb.messageID, st)
}

func (h *Handler) handleTaskDeleteAsk(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	i, _ := callbackIndex(cb.data, cbTaskDelete)
	var name string
	var found bool
	st.with(func(s *chatState) { name, found = ref(s.taskRefs, i) })
	if !found {
		return
	}
	h.askConfirm(ctx, b, cb, service.PendingAction{Kind: service.ConfirmDeleteTask, ChatID: cb.chatID, Name: name},
		"Удалить задачу «"+name+"»?")
}

func (h *Handler) handleTools(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	cfg, err := h.backend.GetExtTools(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, "get ext tools", err)
		return
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		h.sendError(ctx, b, chatID, "encode ext tools", err)
		return
	}

	text := "🧰 Внешние инструменты\n\n" + string(out)
	if len([]rune(text)) > config.MaxTelegramMessageLen {
		if err := tg.SendDocument(ctx, b, chatID, "ext-tools.yaml", out, "🧰 Внешние инструменты"); err != nil {
			h.sendError(ctx, b, chatID, "send ext tools", err)
		}
		return
	}
	h.sendText(ctx, b, chatID, text)
}
