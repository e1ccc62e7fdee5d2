package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds everything the bot reads from the environment. It is loaded
// once at startup; there is no runtime reload.
type Config struct {
	// Model
	ModelProvider string `json:"model_provider"`
	ModelName     string `json:"model_name"`
	GoogleAPIKey  string `json:"google_api_key"`
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"`

	// Telegram
	TelegramBotToken string  `json:"telegram_bot_token"`
	AllowedChatIDs   []int64 `json:"allowed_chat_ids"`

	// Alpaca
	AlpacaAPIKey    string `json:"alpaca_api_key"`
	AlpacaAPISecret string `json:"alpaca_api_secret"`
	AlpacaBaseURL   string `json:"alpaca_base_url"`

	// Agent behavior
	HistoryDepth int `json:"history_depth"`
	MaxSteps     int `json:"max_steps"`

	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`

	Debug         bool `json:"debug"`
	EinoDebugPort int  `json:"eino_debug_port"`
}

func defaultConfig() *Config {
	currentDir, _ := os.Getwd()

	return &Config{
		ModelProvider: ProviderGemini,
		ModelName:     "gemini-1.5-pro",
		OpenAIBaseURL: "https://api.openai.com/v1",

		AlpacaBaseURL: "https://paper-api.alpaca.markets",

		HistoryDepth: 4,
		MaxSteps:     40,

		DataDir:  filepath.Join(currentDir, "data"),
		LogLevel: "info",
	}
}

// Load reads the configuration from the process environment. A .env file in
// the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	setString(&cfg.ModelProvider, "MODEL_PROVIDER")
	setString(&cfg.ModelName, "MODEL_NAME")
	setString(&cfg.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")

	setString(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")

	setString(&cfg.AlpacaAPIKey, "ALPACA_API_KEY")
	setString(&cfg.AlpacaAPISecret, "ALPACA_API_SECRET")
	setString(&cfg.AlpacaBaseURL, "ALPACA_BASE_URL")

	setInt(&cfg.HistoryDepth, "HISTORY_DEPTH")
	setInt(&cfg.MaxSteps, "MAX_STEPS")

	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setBool(&cfg.Debug, "DEBUG")
	setInt(&cfg.EinoDebugPort, "EINO_DEBUG_PORT")

	ids, err := ParseChatIDs(os.Getenv("TELEGRAM_CHAT_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AllowedChatIDs = ids

	return cfg, nil
}

// ParseChatIDs parses a comma-separated allow-list of chat identifiers.
// Empty entries are skipped; a non-numeric entry is an error.
func ParseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q in TELEGRAM_CHAT_IDS", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate checks that the credentials needed for the selected mode are set.
func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required when MODEL_PROVIDER=%s", ProviderGemini)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when MODEL_PROVIDER=%s", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q", c.ModelProvider)
	}
	if c.AlpacaAPIKey == "" || c.AlpacaAPISecret == "" {
		return fmt.Errorf("ALPACA_API_KEY and ALPACA_API_SECRET are required")
	}
	if c.HistoryDepth < 0 {
		return fmt.Errorf("HISTORY_DEPTH must not be negative")
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("MAX_STEPS must be positive")
	}
	return nil
}

// ValidateServe additionally requires the Telegram credentials used by the
// serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if len(c.AllowedChatIDs) == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_IDS must list at least one allowed chat")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.DataDir, 0o755)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		*dst = true
	case "0", "false", "no":
		*dst = false
	}
}
