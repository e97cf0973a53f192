package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, BackendFile, cfg.StorageBackend)
		assert.Equal(t, ProviderNone, cfg.AIProvider)
		assert.Equal(t, 30*time.Second, cfg.AITimeout)
		assert.Equal(t, "8080", cfg.Port)
		assert.Empty(t, cfg.TelegramAllowedUserIDs)
	})

	t.Run("Groq", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "groq")
		t.Setenv("GROQ_API_KEY", "groq_key")
		t.Setenv("AI_TIMEOUT", "5s")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "groq_key", cfg.GroqAPIKey)
		assert.Equal(t, 5*time.Second, cfg.AITimeout)
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "groq")
		t.Setenv("GROQ_API_KEY", "")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Equal(t, "GROQ_API_KEY environment variable not set", err.Error())
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "gemini")
		t.Setenv("GEMINI_API_KEY", "")

		_, err := NewFromEnv()
		assert.EqualError(t, err, "GEMINI_API_KEY environment variable not set")
	})

	t.Run("MissingChatURL", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "endpoint")
		t.Setenv("AI_CHAT_URL", "")

		_, err := NewFromEnv()
		assert.EqualError(t, err, "AI_CHAT_URL environment variable not set")
	})

	t.Run("RedisNeedsAddr", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "redis")
		t.Setenv("REDIS_ADDR", "")

		_, err := NewFromEnv()
		assert.EqualError(t, err, "REDIS_ADDR environment variable not set")
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "floppy")

		_, err := NewFromEnv()
		assert.Error(t, err)
	})

	t.Run("AllowedUserIDs", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12, 34,")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, []int64{12, 34}, cfg.TelegramAllowedUserIDs)
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		_, err := NewFromEnv()
		assert.Error(t, err)
	})
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_BACKEND: memory\nLOG_LEVEL: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "debug", cfg.LogLevel)

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "warn")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	assert.EqualError(t, cfg.ValidateTelegram(), "TELEGRAM_BOT_TOKEN environment variable not set")

	cfg.TelegramBotToken = "token"
	assert.EqualError(t, cfg.ValidateTelegram(), "TELEGRAM_WEBHOOK_URL environment variable not set")

	cfg.TelegramWebhookURL = "https://example.test/webhook"
	assert.NoError(t, cfg.ValidateTelegram())
}
