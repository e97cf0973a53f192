package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// AI providers. ProviderNone always uses the deterministic planner.
const (
	ProviderNone     = "none"
	ProviderEndpoint = "endpoint"
	ProviderGroq     = "groq"
	ProviderGemini   = "gemini"
)

// Config holds the configuration for the application.
type Config struct {
	DataDir        string
	StorageBackend string
	DatabasePath   string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	AIProvider          string
	AIChatURL           string
	AITimeout           time.Duration
	AIRequestsPerMinute int
	GroqAPIKey          string
	GroqModel           string
	GeminiAPIKey        string
	GeminiModel         string

	LogLevel  string
	LogFormat string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PANTRY_DATA_DIR", "data")
	v.SetDefault("STORAGE_BACKEND", BackendFile)
	v.SetDefault("DATABASE_PATH", "data/pantry.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "pantry:")
	v.SetDefault("AI_PROVIDER", ProviderNone)
	v.SetDefault("AI_TIMEOUT", 30*time.Second)
	v.SetDefault("AI_REQUESTS_PER_MINUTE", 15)
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PORT", "8080")
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	return Load("")
}

// Load reads an optional YAML/JSON/TOML config file and lets environment
// variables override it. Keys use the environment variable names.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	allowed, err := parseUserIDs(v.GetString("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:                v.GetString("PANTRY_DATA_DIR"),
		StorageBackend:         strings.ToLower(v.GetString("STORAGE_BACKEND")),
		DatabasePath:           v.GetString("DATABASE_PATH"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		RedisKeyPrefix:         v.GetString("REDIS_KEY_PREFIX"),
		AIProvider:             strings.ToLower(v.GetString("AI_PROVIDER")),
		AIChatURL:              v.GetString("AI_CHAT_URL"),
		AITimeout:              v.GetDuration("AI_TIMEOUT"),
		AIRequestsPerMinute:    v.GetInt("AI_REQUESTS_PER_MINUTE"),
		GroqAPIKey:             v.GetString("GROQ_API_KEY"),
		GroqModel:              v.GetString("GROQ_MODEL"),
		GeminiAPIKey:           v.GetString("GEMINI_API_KEY"),
		GeminiModel:            v.GetString("GEMINI_MODEL"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFormat:              v.GetString("LOG_FORMAT"),
		TelegramBotToken:       v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     v.GetString("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        v.GetInt64("TELEGRAM_ADMIN_ID"),
		Port:                   v.GetString("PORT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend and provider have what they need.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile, BackendMemory:
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH environment variable not set")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR environment variable not set")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.AIProvider {
	case ProviderNone:
	case ProviderEndpoint:
		if c.AIChatURL == "" {
			return fmt.Errorf("AI_CHAT_URL environment variable not set")
		}
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}

	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AITimeout)
	}
	return nil
}

// ValidateTelegram checks the settings only the bot needs.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
