package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrEmptyResponse is returned when the provider answered without any text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrUnknownProvider is returned by New for a provider name it does not know.
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type LlmClient interface {
	ChatComplete(ctx context.Context, messages []*Message) (string, error)
	SingleQuestion(ctx context.Context, question string) (string, error)

	Close() error
}

// singleQuestion builds the one-shot message list sent for a question.
func singleQuestion(systemPrompt, question string) []*Message {
	messages := make([]*Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, &Message{Role: RoleSystem, Content: systemPrompt})
	}

	return append(messages, &Message{Role: RoleUser, Content: question})
}

// splitSystem pulls the first system message out of the list.
func splitSystem(messages []*Message) (string, []*Message) {
	system := ""
	rest := make([]*Message, 0, len(messages))
	for _, message := range messages {
		if message.Role == RoleSystem {
			if system == "" {
				system = message.Content
			}
			continue
		}
		rest = append(rest, message)
	}

	return system, rest
}
