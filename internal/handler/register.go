package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/set-night/calldesk/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	commands := map[string]bot.HandlerFunc{
		"start":     h.handleStart,
		"help":      h.handleStart,
		"phones":    h.handlePhones,
		"calls":     h.handleCalls,
		"range":     h.handleRange,
		"limit":     h.handleLimit,
		"chat":      h.handleChat,
		"prompt":    h.handlePrompt,
		"setprompt": h.handleSetPrompt,
		"faqs":      h.handleFAQs,
		"faqadd":    h.handleFAQAdd,
		"faqedit":   h.handleFAQEdit,
		"tasks":     h.handleTasks,
		"tools":     h.handleTools,
		"audit":     h.handleAudit,
	}
	for name, fn := range commands {
		h.bot.RegisterHandler(bot.HandlerTypeMessageText, name, bot.MatchTypeCommandStartOnly, fn)
	}

	// Phones
	h.callback(cbPhone, h.handlePhoneSelect)
	h.callback(cbPhonePage, h.handlePhonePage)
	h.callback(cbPhoneList, h.handlePhoneList)

	// Sessions
	h.callback(cbSessionPage, h.handleSessionPage)
	h.callback(cbSession, h.handleSessionOpen)
	h.callback(cbLoadMore, h.handleLoadMore)
	h.callback(cbRefresh, h.handleRefresh)
	h.callback(cbRange, h.handleQuickRange)
	h.callback(cbBack, h.handleBack)

	// Session detail
	h.callback(cbLogs, h.handleLogs)
	h.callback(cbRecordings, h.handleRecordings)
	h.callback(cbRecording, h.handleRecordingAudio)
	h.callback(cbTranscript, h.handleTranscript)
	h.callback(cbDelSession, h.handleDeleteSessionAsk)
	h.callback(cbTurnPicker, h.handleTurnPicker)
	h.callback(cbDelTurn, h.handleDeleteTurnAsk)

	// Confirmations
	h.callback(cbConfirmYes, h.handleConfirmYes)
	h.callback(cbConfirmNo, h.handleConfirmNo)

	// Chat
	h.callback(cbChatCancel, h.handleChatCancel)

	// Content
	h.callback(cbFAQPage, h.handleFAQPage)
	h.callback(cbFAQDelete, h.handleFAQDeleteAsk)
	h.callback(cbTaskPage, h.handleTaskPage)
	h.callback(cbTaskDelete, h.handleTaskDeleteAsk)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.NoopData, bot.MatchTypeExact, h.handleNoop)
}

func (h *Handler) callback(prefix string, fn bot.HandlerFunc) {
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, prefix, bot.MatchTypePrefix, fn)
}

// HandleText routes plain text. While the phone list is on screen it is
// treated as filter input and debounced.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)

	var filtering bool
	st.with(func(s *chatState) { filtering = s.awaitingFilter })
	if !filtering {
		h.sendText(ctx, b, chatID, "Используйте /phones, /calls или /help.")
		return
	}
	h.submitFilter(b, chatID, st, update.Message.Text)
}

// handleNoop acknowledges buttons that only display state.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
