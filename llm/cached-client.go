package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

// CachedClient answers repeated message lists from memory instead of calling
// the wrapped client again. Errors are never cached.
type CachedClient struct {
	next         LlmClient
	cache        *ristretto.Cache
	logger       *zap.Logger
	systemPrompt string
}

func NewCachedClient(next LlmClient, systemPrompt string, logger *zap.Logger) (*CachedClient, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	return &CachedClient{
		next:         next,
		cache:        cache,
		logger:       logger,
		systemPrompt: systemPrompt,
	}, nil
}

func cacheKey(messages []*Message) string {
	var key strings.Builder
	for _, message := range messages {
		key.WriteString(message.Role)
		key.WriteByte(0)
		key.WriteString(message.Content)
		key.WriteByte(0)
	}
	return key.String()
}

func (c *CachedClient) ChatComplete(ctx context.Context, messages []*Message) (string, error) {
	key := cacheKey(messages)
	if value, found := c.cache.Get(key); found {
		c.logger.Debug("cache hit", zap.Int("messages", len(messages)))
		return value.(string), nil
	}

	answer, err := c.next.ChatComplete(ctx, messages)
	if err != nil {
		return "", err
	}

	c.cache.Set(key, answer, int64(len(answer)))
	// Set is buffered; wait so the very next lookup sees the value
	c.cache.Wait()

	return answer, nil
}

func (c *CachedClient) SingleQuestion(ctx context.Context, question string) (string, error) {
	return c.ChatComplete(ctx, singleQuestion(c.systemPrompt, question))
}

func (c *CachedClient) Close() error {
	c.cache.Close()
	return c.next.Close()
}
