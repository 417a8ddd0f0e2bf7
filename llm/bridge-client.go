package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const bridgeUsername = "claude-quickstart"

// BridgeClient relays questions to a browser-extension bridge over a websocket.
// The bridge answers with a stream of frames, each carrying the full answer so far.
// A connection that saw a failed or abandoned exchange is dropped and redialed
// before the next one, so stale frames never leak into a later answer.
type BridgeClient struct {
	WsAddr string
	Conn   *websocket.Conn

	dialURL      string
	logger       *zap.Logger
	systemPrompt string
	// one exchange at a time, frames carry no request id
	mu sync.Mutex
}

func NewBridgeClient(ctx context.Context, cfg Config, logger *zap.Logger) (*BridgeClient, error) {
	if cfg.BridgeEndpoint == "" {
		return nil, fmt.Errorf("bridge: BRIDGE_WS_ENDPOINT is empty")
	}

	endpoint, err := url.Parse(cfg.BridgeEndpoint)
	if err != nil {
		return nil, fmt.Errorf("bridge: parse endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("room", cfg.BridgeRoom)
	query.Set("username", bridgeUsername)
	endpoint.RawQuery = query.Encode()

	b := &BridgeClient{
		WsAddr:       cfg.BridgeEndpoint,
		dialURL:      endpoint.String(),
		logger:       logger,
		systemPrompt: cfg.SystemPrompt,
	}
	if err := b.dial(ctx); err != nil {
		return nil, err
	}

	logger.Debug("bridge connected", zap.String("endpoint", cfg.BridgeEndpoint), zap.String("room", cfg.BridgeRoom))

	return b, nil
}

func (b *BridgeClient) dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.dialURL, nil)
	if err != nil {
		return fmt.Errorf("bridge: dial %s: %w", b.WsAddr, err)
	}
	b.Conn = conn
	return nil
}

// drop closes the current connection; the next exchange redials.
func (b *BridgeClient) drop() {
	if b.Conn != nil {
		b.Conn.Close()
		b.Conn = nil
	}
}

func (b *BridgeClient) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Conn == nil {
		return nil
	}
	err := b.Conn.Close()
	b.Conn = nil
	return err
}

func (b *BridgeClient) ChatComplete(ctx context.Context, messages []*Message) (string, error) {
	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		lines = append(lines, message.Role+": "+message.Content)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":      "generateAnswer",
		"recipient": "chatgpt",
		"message":   strings.Join(lines, "\n"),
	})
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Conn == nil {
		b.logger.Debug("bridge redialing", zap.String("endpoint", b.WsAddr))
		if err := b.dial(ctx); err != nil {
			return "", err
		}
	}

	answer, err := b.exchange(ctx, b.Conn, payload)
	if err != nil {
		b.drop()
		return "", err
	}
	b.Conn.SetReadDeadline(time.Time{})

	return answer, nil
}

// exchange sends one request and reads frames until the answer is done.
// Any error leaves conn unusable.
func (b *BridgeClient) exchange(ctx context.Context, conn *websocket.Conn, payload []byte) (string, error) {
	// unblock ReadMessage when the caller gives up; ctx.Err is set by then
	done := make(chan struct{})
	watcher := make(chan struct{})
	go func() {
		defer close(watcher)
		select {
		case <-ctx.Done():
			conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-watcher
	}()

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return "", fmt.Errorf("bridge: write: %w", err)
	}

	var responseMessage string
	for {
		_, buf, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("bridge: read: %w", err)
		}

		switch gjson.GetBytes(buf, "type").String() {
		case "generateAnswer/stream":
			responseMessage = gjson.GetBytes(buf, "message").String()
		case "generateAnswer/done":
			if responseMessage == "" {
				return "", ErrEmptyResponse
			}
			// the watcher may have fired after the last frame arrived
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return responseMessage, nil
		case "generateAnswer/error", "error":
			return "", fmt.Errorf("bridge: %s", gjson.GetBytes(buf, "message").String())
		default:
			b.logger.Debug("bridge frame ignored", zap.ByteString("frame", buf))
		}
	}
}

func (b *BridgeClient) SingleQuestion(ctx context.Context, question string) (string, error) {
	return b.ChatComplete(ctx, singleQuestion(b.systemPrompt, question))
}
