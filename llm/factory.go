package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderBridge = "bridge"
)

// Config carries everything a provider needs to answer a question.
type Config struct {
	Provider     string
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
	MaxRetries   int

	AnthropicAPIKey  string
	AnthropicBaseURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	BridgeEndpoint string
	BridgeRoom     string
}

// New returns the client for cfg.Provider. An empty provider means Claude.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (LlmClient, error) {
	switch cfg.Provider {
	case "", ProviderClaude:
		return NewClaudeClient(cfg, logger), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	case ProviderBridge:
		return NewBridgeClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
