package notifier

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Messages from chats other than ChatID are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			log.Println("[INFO] Telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.dispatch(update, handler)
		}
	}
}

func (t *TelegramNotifier) dispatch(update tgbotapi.Update, handler CommandHandler) {
	m := update.Message
	if m == nil || m.Text == "" {
		return
	}
	if m.Chat == nil || m.Chat.ID != t.ChatID {
		log.Printf("[WARN] ignoring message from chat %v", chatID(m))
		return
	}
	text := strings.TrimSpace(m.Text)
	log.Printf("[INFO] received command: %s", text)
	reply := handler(text)
	if reply != "" {
		if err := t.Send(reply); err != nil {
			log.Printf("[ERROR] send reply: %v", err)
		}
	}
}

func chatID(m *tgbotapi.Message) int64 {
	if m.Chat == nil {
		return 0
	}
	return m.Chat.ID
}
