package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	calldesk "github.com/set-night/calldesk"
	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/handler"
	"github.com/set-night/calldesk/internal/middleware"
	"github.com/set-night/calldesk/internal/repository"
	"github.com/set-night/calldesk/internal/service"
	"github.com/set-night/calldesk/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(calldesk.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	queries := repository.New(pool)

	// Initialize services
	backend := service.NewBackendClient(&cfg.API)
	if !backend.Configured() {
		slog.Warn("API_BASE_URL is not set, backend commands will fail")
	}
	operators := service.NewOperatorService(queries)
	audit := service.NewAuditService(queries)
	chat := service.NewChatService(backend, config.ChatTimeout)
	confirms := service.NewConfirmStore(config.ConfirmationTTL)

	// The log chat sender is attached once the bot exists.
	tgLogger := telegram.NewAuditLogger(nil, cfg)

	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(tgLogger),
			middleware.Logging(),
			middleware.RateLimit(queries),
			middleware.OperatorLoader(operators, cfg),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			if len(update.Message.Text) > 0 && update.Message.Text[0] == '/' {
				return
			}
			h.HandleText(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	tgLogger.Attach(b)

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	h = handler.New(handler.Deps{
		Bot:       b,
		Cfg:       cfg,
		Backend:   backend,
		Operators: operators,
		Audit:     audit,
		Chat:      chat,
		Confirms:  confirms,
		TgLogger:  tgLogger,
		Location:  cfg.Location(),
	})
	h.Register()

	// Expired rate limit windows
	go func() {
		ticker := time.NewTicker(config.RateLimitCleanup)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := queries.CleanupRateLimits(context.Background()); err != nil {
					slog.Error("cleanup rate limits", "error", err)
				}
			}
		}
	}()

	slog.Info("starting bot", "username", me.Username, "id", me.ID, "admins", cfg.AdminIDsString())
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
