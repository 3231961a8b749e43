// Package telegram delivers feed messages to a Telegram chat
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feed-notifier/config"
)

// APIEndpoint is the bot api url template, token then method
var APIEndpoint = tgbotapi.APIEndpoint

// Notifier sends messages through a bot
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// Connect do connection to telegram
func Connect(telegramToken, telegramChatID string) (*Notifier, error) {
	chatID, err := strconv.ParseInt(telegramChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("chat id, %w", err)
	}
	bot, err := tgbotapi.NewBotAPIWithClient(telegramToken, APIEndpoint, &http.Client{Timeout: config.RequestTimeout})
	if err != nil {
		return nil, fmt.Errorf("telegram api, %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// Deliver sends the message as plain text, the bot api bounds the call by the client timeout
func (n *Notifier) Deliver(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, message)
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send message, %w", err)
	}
	return nil
}
