package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/calldesk/internal/domain"
	tg "github.com/set-night/calldesk/internal/telegram"
)

// openSession resolves the session the detail buttons refer to.
func (h *Handler) openSession(ctx context.Context, b *bot.Bot, cb callback, st *chatState) (domain.Session, []domain.Turn, bool) {
	var key string
	st.with(func(s *chatState) { key = s.openSession })

	sess, members, err := st.viewer.Session(key)
	if err != nil {
		h.sendText(ctx, b, cb.chatID, "❌ Сессия больше не загружена. Откройте список заново: /calls")
		return domain.Session{}, nil, false
	}
	return sess, members, true
}

func (h *Handler) handleSessionOpen(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)

	i, _ := callbackIndex(cb.data, cbSession)
	var key string
	var found bool
	st.with(func(s *chatState) {
		key, found = ref(s.sessionRefs, i)
		if found {
			s.openSession = key
		}
	})
	if !found {
		h.showCalls(ctx, b, cb.chatID, cb.messageID, st)
		return
	}

	sess, members, err := st.viewer.Session(key)
	if err != nil {
		h.showCalls(ctx, b, cb.chatID, cb.messageID, st)
		return
	}
	text, kb := renderSession(sess, members, h.loc)
	if err := tg.SendLongMessage(ctx, b, cb.chatID, text, kb); err != nil {
		slog.Error("send session", "error", err, "chat_id", cb.chatID)
	}
}

func (h *Handler) handleLogs(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	sess, _, ok := h.openSession(ctx, b, cb, st)
	if !ok {
		return
	}

	events, w, err := st.viewer.Logs(ctx, sess.Key)
	if err != nil {
		h.sendError(ctx, b, cb.chatID, "load logs", err)
		return
	}
	if err := tg.SendLongMessage(ctx, b, cb.chatID, renderLogs(events, w, h.loc), nil); err != nil {
		slog.Error("send logs", "error", err, "chat_id", cb.chatID)
	}
}

func (h *Handler) handleRecordings(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	sess, _, ok := h.openSession(ctx, b, cb, st)
	if !ok {
		return
	}

	refs, err := st.viewer.Recordings(ctx, sess.CallID)
	if err != nil {
		h.sendError(ctx, b, cb.chatID, "load recordings", err)
		return
	}
	st.with(func(s *chatState) { s.recordingRefs = refs })

	text, kb := renderRecordings(refs)
	params := &bot.SendMessageParams{ChatID: cb.chatID, Text: text}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		slog.Error("send recordings", "error", err, "chat_id", cb.chatID)
	}
}

func (h *Handler) recordingRef(cb callback, prefix string, st *chatState) (domain.RecordingRef, bool) {
	i, _ := callbackIndex(cb.data, prefix)
	var rec domain.RecordingRef
	var found bool
	st.with(func(s *chatState) { rec, found = ref(s.recordingRefs, i) })
	return rec, found
}

func (h *Handler) handleRecordingAudio(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	rec, ok := h.recordingRef(cb, cbRecording, st)
	if !ok {
		return
	}

	data, err := h.backend.RecordingAudio(ctx, rec.SID, domain.RecordingMP3)
	if err != nil {
		h.sendError(ctx, b, cb.chatID, "download recording", err)
		return
	}
	caption := rec.SID
	if rec.Duration != nil {
		caption += fmt.Sprintf(" · %s с", rec.Duration.StringFixed(1))
	}
	if err := tg.SendAudio(ctx, b, cb.chatID, rec.SID+".mp3", data, caption); err != nil {
		h.sendError(ctx, b, cb.chatID, "send recording", err)
	}
}

func (h *Handler) handleTranscript(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	rec, ok := h.recordingRef(cb, cbTranscript, st)
	if !ok {
		return
	}

	cancel := tg.StartTyping(ctx, b, cb.chatID)
	t, err := h.backend.Transcription(ctx, rec.SID)
	cancel()
	if err != nil {
		h.sendError(ctx, b, cb.chatID, "transcribe recording", err)
		return
	}
	if err := tg.SendLongMessage(ctx, b, cb.chatID, renderTranscription(t), nil); err != nil {
		slog.Error("send transcription", "error", err, "chat_id", cb.chatID)
	}
}

func (h *Handler) handleTurnPicker(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	_, members, ok := h.openSession(ctx, b, cb, st)
	if !ok {
		return
	}
	st.with(func(s *chatState) { s.turnRefs = members })

	text, kb := renderTurnPicker(members, h.loc)
	if err := tg.Render(ctx, b, cb.chatID, cb.messageID, text, kb); err != nil {
		slog.Error("render turn picker", "error", err, "chat_id", cb.chatID)
	}
}

func (h *Handler) handleDeleteTurnAsk(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)

	i, _ := callbackIndex(cb.data, cbDelTurn)
	var turn domain.Turn
	var found bool
	var key string
	st.with(func(s *chatState) {
		turn, found = ref(s.turnRefs, i)
		key = s.openSession
	})
	if !found {
		return
	}

	phone := turn.PhoneNumber
	if phone == "" {
		phone = st.viewer.SelectedPhone()
	}
	h.askConfirm(ctx, b, cb, pendingDeleteTurn(cb.chatID, key, phone, turn.Timestamp),
		fmt.Sprintf("Удалить реплику %s?\n👤 %s", formatTS(turn.Timestamp, h.loc), strings.TrimSpace(turn.UserText)))
}

func (h *Handler) handleDeleteSessionAsk(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb, ok := acceptCallback(ctx, b, update)
	if !ok {
		return
	}
	st := h.stateFor(ctx, cb.chatID)
	sess, _, ok := h.openSession(ctx, b, cb, st)
	if !ok {
		return
	}
	if !sess.HasCall() {
		h.sendText(ctx, b, cb.chatID, errorText(domain.ErrSessionHasNoCall))
		return
	}
	h.askConfirm(ctx, b, cb, pendingDeleteSession(cb.chatID, sess),
		fmt.Sprintf("Удалить всю сессию %s (%d репл.)?", sess.CallID, sess.TurnCount))
}
