package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const DefaultClaudeModel = "claude-3-5-sonnet-20240620"

type ClaudeClient struct {
	client       anthropic.Client
	logger       *zap.Logger
	model        string
	maxTokens    int64
	temperature  float64
	systemPrompt string
}

// NewClaudeClient builds a client on top of the Anthropic SDK. An empty API key
// leaves credential lookup to the SDK, which reads ANTHROPIC_API_KEY itself.
func NewClaudeClient(cfg Config, logger *zap.Logger) *ClaudeClient {
	opts := []option.RequestOption{
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.AnthropicAPIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.AnthropicAPIKey))
	}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	return &ClaudeClient{
		client:       anthropic.NewClient(opts...),
		logger:       logger,
		model:        model,
		maxTokens:    int64(cfg.MaxTokens),
		temperature:  cfg.Temperature,
		systemPrompt: cfg.SystemPrompt,
	}
}

func (c *ClaudeClient) ChatComplete(ctx context.Context, messages []*Message) (string, error) {
	systemText, rest := splitSystem(messages)
	if len(rest) == 0 {
		return "", fmt.Errorf("claude: no user message to send")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Messages:    make([]anthropic.MessageParam, 0, len(rest)),
		Temperature: anthropic.Float(c.temperature),
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	for _, message := range rest {
		if message.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(message.Content)))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(message.Content)))
		}
	}

	c.logger.Debug("claude request",
		zap.String("model", c.model),
		zap.Int64("max_tokens", c.maxTokens),
		zap.Int("messages", len(params.Messages)),
	)

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude: create message: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("claude response",
		zap.String("id", resp.ID),
		zap.String("stop_reason", string(resp.StopReason)),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return text.String(), nil
}

func (c *ClaudeClient) SingleQuestion(ctx context.Context, question string) (string, error) {
	return c.ChatComplete(ctx, singleQuestion(c.systemPrompt, question))
}

// Close is a no-op, the SDK client holds no resources of its own.
func (c *ClaudeClient) Close() error {
	return nil
}
