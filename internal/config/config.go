package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// API holds the settings shared by the bot and the CLI for talking to the
// assistant backend.
type API struct {
	BaseURL     string        `env:"API_BASE_URL"`
	Token       string        `env:"API_TOKEN"`
	TokenFile   string        `env:"API_TOKEN_FILE"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Upper bound on concurrent latest-turn lookups when ranking phones.
	RankConcurrency int `env:"RANK_CONCURRENCY" envDefault:"8"`

	// IANA zone used to display timestamps and read typed range bounds.
	DisplayTZ string `env:"DISPLAY_TZ"`
}

// Config is the full bot configuration.
type Config struct {
	API

	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Operators
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicDeletion  int   `env:"LOG_TOPIC_DELETION"`
	LogTopicContent   int   `env:"LOG_TOPIC_CONTENT"`
}

// Load reads an optional .env file and then parses the environment.
// Values already present in the environment take precedence over the file.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.API.normalize()
	return cfg, nil
}

// LoadAPI parses only the backend settings. The CLI uses it so it runs
// without bot or database credentials.
func LoadAPI(dotEnvPath string) (*API, error) {
	if err := loadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}
	cfg := &API{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (a *API) normalize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.RankConcurrency < 1 {
		a.RankConcurrency = 1
	}
}

// Location resolves DisplayTZ, falling back to the local zone.
func (a *API) Location() *time.Location {
	if a.DisplayTZ == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.DisplayTZ)
	if err != nil {
		return time.Local
	}
	return loc
}

// BearerToken returns the bearer credential, preferring the token file so an
// external process can rotate it without a restart.
func (a *API) BearerToken() (string, error) {
	if a.TokenFile != "" {
		data, err := os.ReadFile(a.TokenFile)
		if err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return a.Token, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) AdminIDsString() string {
	parts := make([]string, len(c.AdminIDs))
	for i, id := range c.AdminIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
