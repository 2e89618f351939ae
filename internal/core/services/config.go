package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
)

// Ensure ConfigService implements the interface.
var _ driving.ConfigService = (*ConfigService)(nil)

// Config keys.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyProviderAPIKey   = "provider.api_key"
	KeyProviderBaseURL  = "provider.base_url"
	KeyProviderRegion   = "provider.region"
	KeyProviderLanguage = "provider.language"
	KeyProviderTimeout  = "provider.timeout_seconds"
	KeyProviderRate     = "provider.requests_per_second"
	KeyTelegramBotToken = "telegram.bot_token"
	KeyTelegramChatID   = "telegram.chat_id"
	KeyServerPort       = "server.port"
	KeySchedulerPacing  = "scheduler.pacing_seconds"
	KeyStorageDataDir   = "storage.data_dir"
	KeyLogFile          = "log.file"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
)

var configKeys = map[string]keyKind{
	KeyProviderAPIKey:   kindString,
	KeyProviderBaseURL:  kindString,
	KeyProviderRegion:   kindString,
	KeyProviderLanguage: kindString,
	KeyProviderTimeout:  kindInt,
	KeyProviderRate:     kindFloat,
	KeyTelegramBotToken: kindString,
	KeyTelegramChatID:   kindString,
	KeyServerPort:       kindInt,
	KeySchedulerPacing:  kindInt,
	KeyStorageDataDir:   kindString,
	KeyLogFile:          kindString,
}

// Environment variables that override the config file.
var envOverrides = map[string]string{
	KeyProviderAPIKey:   "SERPER_API_KEY",
	KeyTelegramBotToken: "TELEGRAM_BOT_TOKEN",
	KeyTelegramChatID:   "TELEGRAM_CHAT_ID",
	KeyServerPort:       "PORT",
}

// ConfigService resolves the application configuration from a ConfigStore
// and the environment.
type ConfigService struct {
	store  driven.ConfigStore
	getenv func(string) string
}

// NewConfigService creates a config service.
func NewConfigService(store driven.ConfigStore) *ConfigService {
	return &ConfigService{
		store:  store,
		getenv: os.Getenv,
	}
}

// Load returns defaults overlaid with the config file and then the environment.
func (c *ConfigService) Load() domain.AppConfig {
	cfg := domain.DefaultAppConfig()

	cfg.Provider.APIKey = c.getString(KeyProviderAPIKey, "")
	cfg.Provider.BaseURL = c.getString(KeyProviderBaseURL, cfg.Provider.BaseURL)
	cfg.Provider.Region = c.getString(KeyProviderRegion, cfg.Provider.Region)
	cfg.Provider.Language = c.getString(KeyProviderLanguage, cfg.Provider.Language)
	cfg.Provider.TimeoutSeconds = c.getInt(KeyProviderTimeout, cfg.Provider.TimeoutSeconds)
	cfg.Provider.RequestsPerSecond = c.getFloat(KeyProviderRate, cfg.Provider.RequestsPerSecond)

	cfg.Telegram.BotToken = c.getString(KeyTelegramBotToken, "")
	cfg.Telegram.ChatID = c.getString(KeyTelegramChatID, "")

	cfg.ServerPort = c.getInt(KeyServerPort, cfg.ServerPort)
	cfg.PacingSeconds = c.getInt(KeySchedulerPacing, cfg.PacingSeconds)
	cfg.DataDir = c.getString(KeyStorageDataDir, "")
	cfg.LogFile = c.getString(KeyLogFile, "")

	return cfg
}

// Set validates and stores a single key.
func (c *ConfigService) Set(key, value string) error {
	kind, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	var v any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		v = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		v = f
	default:
		v = strings.TrimSpace(value)
	}

	if err := c.store.Set(key, v); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the supported configuration keys.
func (c *ConfigService) Keys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file path.
func (c *ConfigService) Path() string {
	return c.store.Path()
}

// IsSecretKey reports whether a key holds a credential that should be masked.
func IsSecretKey(key string) bool {
	return key == KeyProviderAPIKey || key == KeyTelegramBotToken
}

func (c *ConfigService) env(key string) (string, bool) {
	name, ok := envOverrides[key]
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(c.getenv(name))
	return v, v != ""
}

func (c *ConfigService) getString(key, def string) string {
	if v, ok := c.env(key); ok {
		return v
	}
	if v := c.store.GetString(key); v != "" {
		return v
	}
	return def
}

func (c *ConfigService) getInt(key string, def int) int {
	if v, ok := c.env(key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if n := c.store.GetInt(key); n > 0 {
		return n
	}
	return def
}

func (c *ConfigService) getFloat(key string, def float64) float64 {
	if f := c.store.GetFloat(key); f > 0 {
		return f
	}
	return def
}
