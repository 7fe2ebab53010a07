package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
)

type LogType string

const (
	LogTypeError    LogType = "error"
	LogTypeDeletion LogType = "deletion"
	LogTypeContent  LogType = "content"
)

// AuditLogger mirrors operator actions into topics of a Telegram log chat.
// It is a no-op when no log chat is configured.
type AuditLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewAuditLogger(b *bot.Bot, cfg *config.Config) *AuditLogger {
	return &AuditLogger{bot: b, cfg: cfg}
}

// Attach sets the bot used for sending. Middlewares are built before the
// bot exists, so the logger is created first and attached afterwards.
func (l *AuditLogger) Attach(b *bot.Bot) {
	l.bot = b
}

func (l *AuditLogger) topicID(t LogType) int {
	switch t {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeDeletion:
		return l.cfg.LogTopicDeletion
	case LogTypeContent:
		return l.cfg.LogTopicContent
	}
	return 0
}

func (l *AuditLogger) Log(t LogType, message string) {
	if l == nil || l.bot == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}
	topic := l.topicID(t)
	if topic == 0 {
		return
	}

	if r := []rune(message); len(r) > config.MaxTelegramMessageLen {
		message = string(r[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topic,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", t, "error", err)
	}
}

func (l *AuditLogger) LogError(err error, where string) {
	l.Log(LogTypeError, fmt.Sprintf("❌ Ошибка\n\nГде: %s\nОшибка: %s\nВремя: %s",
		where, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

// LogAudit mirrors a recorded audit event.
func (l *AuditLogger) LogAudit(op *domain.Operator, ev domain.AuditEvent) {
	t := LogTypeContent
	if ev.Action == domain.AuditDeleteTurn || ev.Action == domain.AuditDeleteSession {
		t = LogTypeDeletion
	}
	who := "?"
	if op != nil {
		who = fmt.Sprintf("%s (%d)", op.DisplayName(), op.TelegramID)
	}
	l.Log(t, FormatAudit(ev, who))
}

// FormatAudit renders one audit event as a short multi-line message.
func FormatAudit(ev domain.AuditEvent, who string) string {
	msg := fmt.Sprintf("📝 %s\nОператор: %s", ev.Action, who)
	if ev.Phone != "" {
		msg += "\nТелефон: " + ev.Phone
	}
	if ev.TurnTS != "" {
		msg += "\nРеплика: " + ev.TurnTS
	}
	if ev.CallSID != "" {
		msg += "\nЗвонок: " + ev.CallSID
	}
	if ev.Detail != "" {
		msg += "\n" + ev.Detail
	}
	if !ev.CreatedAt.IsZero() {
		msg += "\n" + ev.CreatedAt.Format("2006-01-02 15:04:05")
	}
	return msg
}
