package llm

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAIClient struct {
	client       *openai.Client
	logger       *zap.Logger
	model        string
	maxTokens    int
	temperature  float32
	systemPrompt string
}

func NewOpenAIClient(cfg Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai: OPENAI_API_KEY is empty")
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	// go-openai drops a zero temperature from the request, which means 1.0 upstream
	temperature := float32(cfg.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientConfig),
		logger:       logger,
		model:        model,
		maxTokens:    cfg.MaxTokens,
		temperature:  temperature,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

func (c *OpenAIClient) ChatComplete(ctx context.Context, messages []*Message) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}

	for _, message := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    message.Role,
			Content: message.Content,
		})
	}

	c.logger.Debug("openai request", zap.String("model", c.model), zap.Int("messages", len(messages)))

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("openai: create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("openai response",
		zap.String("id", resp.ID),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) SingleQuestion(ctx context.Context, question string) (string, error) {
	return c.ChatComplete(ctx, singleQuestion(c.systemPrompt, question))
}

func (c *OpenAIClient) Close() error {
	return nil
}
