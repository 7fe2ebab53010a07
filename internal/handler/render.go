package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
	tg "github.com/set-night/calldesk/internal/telegram"
)

// Callback data prefixes.
const (
	cbPhone       = "ph:"
	cbPhonePage   = "pp:"
	cbPhoneList   = "pl"
	cbSessionPage = "cp:"
	cbSession     = "ss:"
	cbLoadMore    = "cm"
	cbRefresh     = "cr"
	cbRange       = "rg:"
	cbBack        = "cb"
	cbLogs        = "sl"
	cbRecordings  = "sr"
	cbRecording   = "ra:"
	cbTranscript  = "rt:"
	cbDelSession  = "sd"
	cbTurnPicker  = "st"
	cbDelTurn     = "dt:"
	cbConfirmYes  = "cy:"
	cbConfirmNo   = "cn:"
	cbChatCancel  = "cx"
	cbFAQPage     = "fp:"
	cbFAQDelete   = "fd:"
	cbTaskPage    = "tp:"
	cbTaskDelete  = "td:"
)

func formatTS(ts string, loc *time.Location) string {
	ms, ok := calllog.ParseInstant(ts)
	if !ok {
		if ts == "" {
			return "—"
		}
		return ts
	}
	return time.UnixMilli(ms).In(loc).Format("02.01.2006 15:04:05")
}

func formatBound(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "…"
	}
	return t.In(loc).Format("02.01 15:04")
}

func renderPhones(list calllog.PhoneList, loc *time.Location) (string, *models.InlineKeyboardMarkup, []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📱 Телефоны (%d)\n", list.Total))
	if list.Filter != "" {
		sb.WriteString(fmt.Sprintf("Фильтр: %s\n", list.Filter))
	}
	sb.WriteString("\nОтправьте текст, чтобы отфильтровать список.\n")
	if list.Total == 0 {
		sb.WriteString("\nНичего не найдено.")
	}

	var rows [][]models.InlineKeyboardButton
	refs := make([]string, 0, len(list.Entries))
	for i, e := range list.Entries {
		refs = append(refs, e.Phone)
		label := e.Phone
		if e.LatestTimestamp != nil {
			label += " · " + formatTS(*e.LatestTimestamp, loc)
		}
		if e.Phone == list.Selected {
			label = "✅ " + label
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(label, cbPhone+strconv.Itoa(i))))
	}
	rows = append(rows, tg.PaginationRow(list.Pager, cbPhonePage))
	return sb.String(), tg.InlineKeyboard(rows...), refs
}

func renderSessions(v calllog.View, loc *time.Location) (string, *models.InlineKeyboardMarkup, []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📞 %s\n", v.Phone))
	sb.WriteString(fmt.Sprintf("Период: %s — %s · лимит %d\n", formatBound(v.From, loc), formatBound(v.To, loc), v.Limit))
	sb.WriteString(fmt.Sprintf("Сессий: %d · реплик: %d\n", v.SessionCount, v.TurnCount))
	if v.Error != "" {
		sb.WriteString("\n❌ " + v.Error + "\n")
	}
	if v.SessionCount == 0 && v.Error == "" {
		sb.WriteString("\nЗвонков не найдено.")
	}

	offset := (v.Pager.Page - 1) * config.SessionsPerPage
	refs := make([]string, 0, len(v.Sessions))
	var pick []models.InlineKeyboardButton
	for i, s := range v.Sessions {
		refs = append(refs, s.Key)
		n := offset + i + 1
		sb.WriteString(fmt.Sprintf("\n%d. %s · %d репл.", n, formatTS(s.LatestTimestamp, loc), s.TurnCount))
		if s.HasCall() {
			sb.WriteString(" · " + s.CallID)
		}
		if s.PreviewUser != "" {
			sb.WriteString("\n   👤 " + calllog.Truncate(s.PreviewUser, config.MaxPreviewLen))
		}
		if s.PreviewAssistant != "" {
			sb.WriteString("\n   🤖 " + calllog.Truncate(calllog.PlainText(s.PreviewAssistant), config.MaxPreviewLen))
		}
		sb.WriteString("\n")
		pick = append(pick, tg.InlineButton(strconv.Itoa(n), cbSession+strconv.Itoa(i)))
	}

	actions := tg.ButtonRow(tg.InlineButton("🔄 Обновить", cbRefresh))
	if v.HasMore {
		actions = append(actions, tg.InlineButton("⬇️ Загрузить ещё", cbLoadMore))
	}
	kb := tg.InlineKeyboard(
		pick,
		tg.PaginationRow(v.Pager, cbSessionPage),
		actions,
		tg.ButtonRow(
			tg.InlineButton("Сегодня", cbRange+string(calllog.RangeToday)),
			tg.InlineButton("24ч", cbRange+string(calllog.Range24h)),
			tg.InlineButton("7д", cbRange+string(calllog.Range7d)),
			tg.InlineButton("✖️ Сброс", cbRange+string(calllog.RangeClear)),
		),
		tg.ButtonRow(tg.InlineButton("📱 Телефоны", cbPhoneList)),
	)
	return sb.String(), kb, refs
}

func renderSession(s domain.Session, members []domain.Turn, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📞 %s\n", s.PhoneNumber))
	if s.HasCall() {
		sb.WriteString("Звонок: " + s.CallID + "\n")
	}
	sb.WriteString(fmt.Sprintf("Реплик: %d · последняя: %s\n", s.TurnCount, formatTS(s.LatestTimestamp, loc)))

	for _, t := range members {
		sb.WriteString("\n[" + formatTS(t.Timestamp, loc) + "]\n")
		if t.UserText != "" {
			sb.WriteString("👤 " + t.UserText + "\n")
		}
		if t.AssistantText != "" {
			sb.WriteString("🤖 " + calllog.PlainText(t.AssistantText) + "\n")
		}
	}

	first := tg.ButtonRow(tg.InlineButton("📜 Логи", cbLogs))
	var del []models.InlineKeyboardButton
	if s.HasCall() {
		first = append(first, tg.InlineButton("🎧 Записи", cbRecordings))
		del = append(del, tg.InlineButton("🗑 Удалить сессию", cbDelSession))
	}
	del = append(del, tg.InlineButton("✂️ Удалить реплику", cbTurnPicker))

	kb := tg.InlineKeyboard(first, del, tg.ButtonRow(tg.InlineButton("⬅️ К списку", cbBack)))
	return sb.String(), kb
}

func renderTurnPicker(members []domain.Turn, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	var rows [][]models.InlineKeyboardButton
	for i, t := range members {
		label := formatTS(t.Timestamp, loc)
		if t.UserText != "" {
			label += " · " + calllog.Truncate(t.UserText, 24)
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton("🗑 "+label, cbDelTurn+strconv.Itoa(i))))
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("⬅️ К списку", cbBack)))
	return "Какую реплику удалить?", tg.InlineKeyboard(rows...)
}

func renderLogs(events []domain.LogEvent, w calllog.LogWindow, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📜 Логи %s — %s (%d мин)\n",
		w.Start().In(loc).Format("02.01 15:04"), w.End().In(loc).Format("15:04"), w.Minutes))
	if len(events) == 0 {
		sb.WriteString("\nЗаписей нет.")
		return sb.String()
	}
	for _, e := range events {
		sb.WriteString("\n[" + time.UnixMilli(e.TimestampMs).In(loc).Format("15:04:05") + "] " + strings.TrimSpace(e.Message))
	}
	return sb.String()
}

func renderRecordings(refs []domain.RecordingRef) (string, *models.InlineKeyboardMarkup) {
	if len(refs) == 0 {
		return "🎧 Записей нет.", nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎧 Записи (%d)\n", len(refs)))

	var rows [][]models.InlineKeyboardButton
	for i, r := range refs {
		sb.WriteString(fmt.Sprintf("\n%d. %s · %s", i+1, r.SID, r.Format))
		if r.Duration != nil {
			sb.WriteString(" · " + r.Duration.StringFixed(1) + " с")
		}
		if r.DateCreated != "" {
			sb.WriteString(" · " + r.DateCreated)
		}
		n := strconv.Itoa(i)
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(fmt.Sprintf("▶️ %d", i+1), cbRecording+n),
			tg.InlineButton(fmt.Sprintf("📝 %d", i+1), cbTranscript+n),
		))
	}
	return sb.String(), tg.InlineKeyboard(rows...)
}

func renderTranscription(t *domain.Transcription) string {
	if len(t.Segments) == 0 {
		if t.Text == "" {
			return "📝 Текст не распознан."
		}
		return "📝 " + t.Text
	}
	var sb strings.Builder
	sb.WriteString("📝 Расшифровка\n")
	for _, s := range t.Segments {
		if s.Start != nil {
			sb.WriteString(fmt.Sprintf("\n[%6.1f] ", *s.Start))
		} else {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(s.Text))
	}
	return sb.String()
}

func renderFAQs(faqs []domain.FAQ, page int) (string, *models.InlineKeyboardMarkup, []string) {
	pager := calllog.NewPager(len(faqs), page, config.ItemsPerPage)
	items := calllog.Paginate(faqs, pager.Page, config.ItemsPerPage)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("❓ FAQ (%d)\n", len(faqs)))
	if len(faqs) == 0 {
		sb.WriteString("\nПусто. Добавить: /faqadd вопрос | ответ")
	}

	var del []models.InlineKeyboardButton
	refs := make([]string, 0, len(items))
	for i, f := range items {
		refs = append(refs, f.Question)
		n := (pager.Page-1)*config.ItemsPerPage + i + 1
		sb.WriteString(fmt.Sprintf("\n%d. %s\n   %s\n", n, f.Question, calllog.Truncate(f.Answer, 200)))
		del = append(del, tg.InlineButton(fmt.Sprintf("🗑 %d", n), cbFAQDelete+strconv.Itoa(i)))
	}
	return sb.String(), tg.InlineKeyboard(del, tg.PaginationRow(pager, cbFAQPage)), refs
}

func renderTasks(tasks []domain.Task, page int) (string, *models.InlineKeyboardMarkup, []string) {
	pager := calllog.NewPager(len(tasks), page, config.ItemsPerPage)
	items := calllog.Paginate(tasks, pager.Page, config.ItemsPerPage)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Задачи (%d)\n", len(tasks)))
	if len(tasks) == 0 {
		sb.WriteString("\nЗадач нет.")
	}

	var del []models.InlineKeyboardButton
	refs := make([]string, 0, len(items))
	for i, t := range items {
		refs = append(refs, t.Name)
		n := (pager.Page-1)*config.ItemsPerPage + i + 1
		sb.WriteString(fmt.Sprintf("\n%d. %s", n, t.Name))
		if t.PhoneNumber != "" {
			sb.WriteString(" · " + t.PhoneNumber)
		}
		if at := t.StartsAt(); at != "" {
			sb.WriteString(" · " + at)
		}
		if t.Address != "" {
			sb.WriteString("\n   📍 " + t.Address)
		}
		if req := t.RequestText(); req != "" {
			sb.WriteString("\n   " + calllog.Truncate(req, 200))
		}
		sb.WriteString("\n")
		del = append(del, tg.InlineButton(fmt.Sprintf("🗑 %d", n), cbTaskDelete+strconv.Itoa(i)))
	}
	return sb.String(), tg.InlineKeyboard(del, tg.PaginationRow(pager, cbTaskPage)), refs
}
