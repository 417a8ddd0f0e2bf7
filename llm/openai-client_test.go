package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOpenAIServer(t *testing.T, body string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{Provider: ProviderOpenAI}, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenAIClient_SingleQuestion(t *testing.T) {
	var seen openai.ChatCompletionRequest
	server := newOpenAIServer(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 0,
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "A short poem."}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 3, "completion_tokens": 4, "total_tokens": 7}
	}`, &seen)

	client, err := NewOpenAIClient(Config{
		Provider:      ProviderOpenAI,
		MaxTokens:     1000,
		SystemPrompt:  "be brief",
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: server.URL + "/v1",
	}, zap.NewNop())
	require.NoError(t, err)

	answer, err := client.SingleQuestion(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "A short poem.", answer)

	assert.Equal(t, DefaultOpenAIModel, seen.Model)
	assert.Greater(t, seen.Temperature, float32(0))
	assert.Less(t, seen.Temperature, float32(1e-6))
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen.Messages[0].Role)
	assert.Equal(t, "be brief", seen.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, seen.Messages[1].Role)
	assert.Equal(t, "hi", seen.Messages[1].Content)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	server := newOpenAIServer(t, `{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`, nil)

	client, err := NewOpenAIClient(Config{OpenAIAPIKey: "test-key", OpenAIBaseURL: server.URL + "/v1"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.SingleQuestion(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_KeepsChosenModel(t *testing.T) {
	var seen openai.ChatCompletionRequest
	server := newOpenAIServer(t, `{
		"id": "chatcmpl-3", "object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "ok"}, "finish_reason": "stop"}]
	}`, &seen)

	client, err := NewOpenAIClient(Config{
		Model:         DefaultClaudeModel,
		Temperature:   0.4,
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: server.URL + "/v1",
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.SingleQuestion(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, DefaultClaudeModel, seen.Model)
	assert.InDelta(t, 0.4, seen.Temperature, 1e-6)
}
