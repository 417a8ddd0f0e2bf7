package main

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegramTimeout bounds every bot API call, getMe included.
var telegramTimeout = 10 * time.Second

type Notifier interface {
	Notify(question, answer string)
}

// TelegramNotifier forwards each answered question to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier connects to the bot API. An empty endpoint means the
// public Telegram API.
func NewTelegramNotifier(token string, chatID int64, endpoint string, logger *zap.Logger) (*TelegramNotifier, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: telegramTimeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}

	logger.Debug("telegram notifier ready", zap.String("bot", bot.Self.UserName), zap.Int64("chat_id", chatID))

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) Notify(question, answer string) {
	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("Q: %s\n\nA: %s", question, answer))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn("telegram send failed", zap.Int64("chat_id", n.chatID), zap.Error(err))
	}
}
