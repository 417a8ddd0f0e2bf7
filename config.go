package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/nguyenvanduocit/claude-quickstart/llm"
)

const defaultSystemPrompt = "You are a world-class poet. Respond only with short poems."

type Config struct {
	LLM     llm.Config
	Timeout time.Duration

	TelegramToken  string
	TelegramChatID int64

	Batch    bool
	Workers  int
	LogLevel string
	Verbose  bool
}

// LoadConfig reads the environment, loading .env first when it exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		LLM: llm.Config{
			Provider:        getEnv("LLM_PROVIDER", llm.ProviderClaude),
			Model:           os.Getenv("LLM_MODEL"),
			MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 1000),
			Temperature:     getEnvFloat("LLM_TEMPERATURE", 0),
			SystemPrompt:    getEnv("LLM_SYSTEM_PROMPT", defaultSystemPrompt),
			MaxRetries:      getEnvInt("LLM_MAX_RETRIES", 2),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			BridgeEndpoint:  os.Getenv("BRIDGE_WS_ENDPOINT"),
			BridgeRoom:      os.Getenv("BRIDGE_ROOM"),
		},
		Timeout:        getEnvDuration("LLM_TIMEOUT", 2*time.Minute),
		TelegramToken:  os.Getenv("TELEGRAM_API_TOKEN"),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),
		Workers:        getEnvInt("BATCH_WORKERS", 4),
		LogLevel:       getEnv("LOG_LEVEL", "warn"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
