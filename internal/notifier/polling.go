package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"

	"DrawSentinel/internal/logging"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) error {
	updates, err := t.Bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{Timeout: 10})
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}
	logging.Infof("Telegram polling started")

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.Text == "" {
			continue
		}
		if msg.Chat.ID != t.ChatID {
			logging.Warnf("ignoring command from unknown chat %d", msg.Chat.ID)
			continue
		}
		text := normalizeCommand(msg.Text)
		logging.Infof("received command: %s", text)
		if reply := handler(text); reply != "" {
			if err := t.sendTo(ctx, msg.Chat.ID, reply); err != nil {
				logging.Errorf("send reply: %v", err)
			}
		}
	}
	logging.Infof("Telegram polling stopped")
	return nil
}

// normalizeCommand strips the "@botname" suffix and any arguments.
func normalizeCommand(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}
