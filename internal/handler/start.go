package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/middleware"
)

const helpText = `📋 Команды:
/phones [фильтр] — телефоны по давности активности
/calls — сессии выбранного телефона
/range <с> <по> — период (2006-01-02T15:04 или RFC3339, "-" без границы)
/limit <n> — сколько реплик загружать (1–1000)
/chat <телефон> [sid=CA…] <текст> — отправить сообщение ассистенту
/prompt, /setprompt <текст> — системный промпт
/faqs, /faqadd вопрос | ответ, /faqedit вопрос | ответ — FAQ
/tasks — задачи
/tools — внешние инструменты
/audit — последние действия операторов`

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	name := "оператор"
	if op := middleware.GetOperator(ctx); op != nil && op.DisplayName() != "" {
		name = op.DisplayName()
	}

	text := fmt.Sprintf("👋 Привет, %s!\n\nЭто консоль звонков ассистента.\n\n%s", name, helpText)
	if !h.backend.Configured() {
		text += "\n\n❌ API_BASE_URL не задан: загрузка данных недоступна."
	}
	h.sendText(ctx, b, chatID, text)
}
