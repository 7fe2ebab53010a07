package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/domain"
)

func TestPaginationRow(t *testing.T) {
	assert.Nil(t, PaginationRow(calllog.Pager{Page: 1, TotalPages: 1}, "pg:"))

	row := PaginationRow(calllog.Pager{Page: 1, TotalPages: 3}, "pg:")
	require.Len(t, row, 3)
	assert.Equal(t, NoopData, row[0].CallbackData)
	assert.Equal(t, "1/3", row[1].Text)
	assert.Equal(t, "pg:2", row[2].CallbackData)

	row = PaginationRow(calllog.Pager{Page: 3, TotalPages: 3}, "pg:")
	assert.Equal(t, "pg:2", row[0].CallbackData)
	assert.Equal(t, NoopData, row[2].CallbackData)
}

func TestInlineKeyboardSkipsEmptyRows(t *testing.T) {
	kb := InlineKeyboard(nil, ButtonRow(InlineButton("a", "b")), nil)
	assert.Len(t, kb.InlineKeyboard, 1)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	parts := SplitMessage(text, 10)
	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("a", 8)+"\n", parts[0])
	assert.Equal(t, strings.Repeat("b", 8), parts[1])

	parts = SplitMessage(strings.Repeat("я", 25), 10)
	require.Len(t, parts, 3)
	assert.Equal(t, strings.Repeat("я", 5), parts[2])
}

func TestFormatAudit(t *testing.T) {
	msg := FormatAudit(domain.AuditEvent{Action: domain.AuditDeleteSession, CallSID: "CA1"}, "@ann")
	assert.Contains(t, msg, "delete_session")
	assert.Contains(t, msg, "@ann")
	assert.Contains(t, msg, "Звонок: CA1")
	assert.NotContains(t, msg, "Телефон")
}
