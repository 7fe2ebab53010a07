package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/calllog"
)

// NoopData is the callback data of buttons that only display state.
const NoopData = "noop"

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons. Empty rows
// are skipped.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	kb := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, r := range rows {
		if len(r) > 0 {
			kb = append(kb, r)
		}
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: kb}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// PaginationRow renders ⬅️ n/m ➡️ for a 1-based pager. Arrows at a boundary
// are shown as inert placeholders. Nothing is rendered for a single page.
func PaginationRow(p calllog.Pager, callbackPrefix string) []models.InlineKeyboardButton {
	if !p.Visible() {
		return nil
	}

	prev := InlineButton("·", NoopData)
	if p.CanPrev() {
		prev = InlineButton("⬅️", fmt.Sprintf("%s%d", callbackPrefix, p.Page-1))
	}
	next := InlineButton("·", NoopData)
	if p.CanNext() {
		next = InlineButton("➡️", fmt.Sprintf("%s%d", callbackPrefix, p.Page+1))
	}
	return ButtonRow(prev, InlineButton(fmt.Sprintf("%d/%d", p.Page, p.TotalPages), NoopData), next)
}

// ConfirmRow renders the ✅/❌ pair for a pending confirmation token.
func ConfirmRow(yesPrefix, noPrefix, token string) []models.InlineKeyboardButton {
	return ButtonRow(
		InlineButton("✅ Да", yesPrefix+token),
		InlineButton("❌ Нет", noPrefix+token),
	)
}
