package handler

import (
	"time"

	"github.com/go-telegram/bot"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/service"
	"github.com/set-night/calldesk/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	backend   *service.BackendClient
	operators *service.OperatorService
	audit     *service.AuditService
	chat      *service.ChatService
	confirms  *service.ConfirmStore
	tgLogger  *telegram.AuditLogger
	states    *states
	loc       *time.Location
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Backend   *service.BackendClient
	Operators *service.OperatorService
	Audit     *service.AuditService
	Chat      *service.ChatService
	Confirms  *service.ConfirmStore
	TgLogger  *telegram.AuditLogger
	Location  *time.Location
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	h := &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		backend:   deps.Backend,
		operators: deps.Operators,
		audit:     deps.Audit,
		chat:      deps.Chat,
		confirms:  deps.Confirms,
		tgLogger:  deps.TgLogger,
		loc:       loc,
	}
	h.states = newStates(func(limit int) *calllog.Viewer {
		return calllog.NewViewer(h.backend, calllog.Options{
			PageSize:        config.SessionsPerPage,
			PhonePageSize:   config.PhonesPerPage,
			Limit:           limit,
			RankConcurrency: h.cfg.RankConcurrency,
		})
	})
	return h
}
