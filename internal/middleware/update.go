package middleware

import "github.com/go-telegram/bot/models"

// origin extracts the sender and chat of an update. from is nil for update
// kinds the console does not handle.
func origin(update *models.Update) (kind string, from *models.User, chatID int64) {
	switch {
	case update.Message != nil:
		return "message", update.Message.From, update.Message.Chat.ID
	case update.CallbackQuery != nil:
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			chatID = msg.Chat.ID
		}
		return "callback_query", &update.CallbackQuery.From, chatID
	}
	return "unknown", nil, 0
}
