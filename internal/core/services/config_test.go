package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

func newTestConfigService(store *mockConfigStore, env map[string]string) *ConfigService {
	svc := NewConfigService(store)
	svc.getenv = func(k string) string { return env[k] }
	return svc
}

func TestConfigService_LoadDefaults(t *testing.T) {
	svc := newTestConfigService(newMockConfigStore(), nil)

	cfg := svc.Load()
	assert.Equal(t, domain.DefaultAppConfig(), cfg)
	assert.Equal(t, "tr", cfg.Provider.Region)
	assert.Equal(t, 3000, cfg.ServerPort)
}

func TestConfigService_LoadFileAndEnv(t *testing.T) {
	store := newMockConfigStore()
	store.values[KeyProviderAPIKey] = "file-key"
	store.values[KeyProviderRegion] = "us"
	store.values[KeyServerPort] = 8080
	store.values[KeyProviderRate] = 0.5
	store.values[KeyTelegramChatID] = "42"

	svc := newTestConfigService(store, map[string]string{
		"SERPER_API_KEY":     "env-key",
		"TELEGRAM_BOT_TOKEN": "token",
		"PORT":               "not-a-number",
	})

	cfg := svc.Load()
	assert.Equal(t, "env-key", cfg.Provider.APIKey)
	assert.Equal(t, "us", cfg.Provider.Region)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.InDelta(t, 0.5, cfg.Provider.RequestsPerSecond, 0.0001)
	assert.Equal(t, "token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.True(t, cfg.Telegram.Enabled())
}

func TestConfigService_Set(t *testing.T) {
	store := newMockConfigStore()
	svc := newTestConfigService(store, nil)

	require.NoError(t, svc.Set(KeyServerPort, " 9000 "))
	assert.Equal(t, 9000, store.values[KeyServerPort])

	require.NoError(t, svc.Set(KeyProviderRate, "1.5"))
	assert.Equal(t, 1.5, store.values[KeyProviderRate])

	require.NoError(t, svc.Set(KeyProviderRegion, " de "))
	assert.Equal(t, "de", store.values[KeyProviderRegion])

	assert.ErrorIs(t, svc.Set("unknown.key", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(KeyServerPort, "abc"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(KeyProviderRate, "0"), domain.ErrInvalidInput)
}

func TestConfigService_SetStoreError(t *testing.T) {
	store := newMockConfigStore()
	store.setErr = errStoreDown
	svc := newTestConfigService(store, nil)

	assert.ErrorIs(t, svc.Set(KeyProviderRegion, "de"), errStoreDown)
}

func TestConfigService_Keys(t *testing.T) {
	svc := newTestConfigService(newMockConfigStore(), nil)
	keys := svc.Keys()

	assert.Contains(t, keys, KeyProviderAPIKey)
	assert.Contains(t, keys, KeyLogFile)
	assert.IsIncreasing(t, keys)
	assert.Equal(t, "/tmp/rankwatch/config.toml", svc.Path())
}

func TestIsSecretKey(t *testing.T) {
	assert.True(t, IsSecretKey(KeyProviderAPIKey))
	assert.True(t, IsSecretKey(KeyTelegramBotToken))
	assert.False(t, IsSecretKey(KeyProviderRegion))
}
