package main

import (
	"testing"
	"time"

	"github.com/nguyenvanduocit/claude-quickstart/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_TOKENS", "LLM_TEMPERATURE", "LLM_SYSTEM_PROMPT",
		"LLM_MAX_RETRIES", "LLM_TIMEOUT", "TELEGRAM_CHAT_ID", "BATCH_WORKERS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, llm.ProviderClaude, cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, 0.0, cfg.LLM.Temperature)
	assert.Equal(t, defaultSystemPrompt, cfg.LLM.SystemPrompt)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MAX_TOKENS", "256")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001905601063")
	t.Setenv("BATCH_WORKERS", "not-a-number")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()

	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 256, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, int64(-1001905601063), cfg.TelegramChatID)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIAPIKey)
}

func TestRootCommand_FlagsOverrideEnvironment(t *testing.T) {
	cfg := Config{LLM: llm.Config{Provider: llm.ProviderClaude, MaxTokens: 1000}, Workers: 4}
	cmd := newRootCommand(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"--provider", "bridge", "--max-tokens", "50", "--batch", "--workers", "8"}))

	flags := cmd.Flags()
	provider, err := flags.GetString("provider")
	require.NoError(t, err)
	assert.Equal(t, "bridge", provider)

	maxTokens, err := flags.GetInt("max-tokens")
	require.NoError(t, err)
	assert.Equal(t, 50, maxTokens)

	batch, err := flags.GetBool("batch")
	require.NoError(t, err)
	assert.True(t, batch)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(Config{LogLevel: "info"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = newLogger(Config{LogLevel: "whatever", Verbose: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger(Config{LogLevel: "loud"})
	assert.Error(t, err)
}
