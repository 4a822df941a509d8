package telegram_notifier

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes drive notifications to a personal chat, so a
// headless agent can still reach the user. Enabled when TELEGRAM_TOKEN
// and TELEGRAM_CHAT_ID are configured.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Success(message string) {
	n.send("✅ " + message)
}

func (n *TelegramNotifier) Info(message string) {
	n.send("ℹ️ " + message)
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("telegram notifier: failed to send message: %v", err)
	}
}
