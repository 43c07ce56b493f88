package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"

	"DrawSentinel/internal/logging"
)

// messageLimit stays under Telegram's 4096 character cap.
const messageLimit = 4000

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	Bot    *telego.Bot
	ChatID int64
}

// NewTelegramNotifier creates a notifier with optional proxy support.
// socks5:// proxies dial through SOCKS, anything else is used as an HTTP proxy.
func NewTelegramNotifier(botToken, chatID, proxyURL string) (*TelegramNotifier, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse chat id %q: %w", chatID, err)
	}

	var opts []telego.BotOption
	switch {
	case strings.HasPrefix(proxyURL, "socks5://"):
		opts = append(opts, telego.WithFastHTTPClient(&fasthttp.Client{
			Dial: fasthttpproxy.FasthttpSocksDialer(proxyURL),
		}))
	case proxyURL != "":
		opts = append(opts, telego.WithFastHTTPClient(&fasthttp.Client{
			Dial: fasthttpproxy.FasthttpHTTPDialerTimeout(strings.TrimPrefix(strings.TrimPrefix(proxyURL, "http://"), "https://"), 30*time.Second),
		}))
	}

	bot, err := telego.NewBot(botToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &TelegramNotifier{Bot: bot, ChatID: id}, nil
}

// RegisterCommands publishes the bot's command menu.
func (t *TelegramNotifier) RegisterCommands(ctx context.Context) error {
	return t.Bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: []telego.BotCommand{
			{Command: "predict", Description: "Ensemble prediction for the next draw"},
			{Command: "backtest", Description: "Backtest every algorithm"},
			{Command: "stats", Description: "Dataset summary"},
			{Command: "refresh", Description: "Refetch draw history"},
			{Command: "weights", Description: "Learned ensemble weights"},
		},
	})
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.sendTo(ctx, t.ChatID, text)
}

func (t *TelegramNotifier) sendTo(ctx context.Context, chatID int64, text string) error {
	for _, part := range chunkMessage(text, messageLimit) {
		if _, err := t.Bot.SendMessage(ctx, &telego.SendMessageParams{
			ChatID:    tu.ID(chatID),
			Text:      part,
			ParseMode: telego.ModeHTML,
		}); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(ctx, text); err != nil {
			lastErr = err
			if i == maxRetries {
				break
			}
			backoff := time.Duration(1<<uint(i)) * time.Second
			logging.Warnf("Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// chunkMessage splits text on blank lines into parts no longer than limit
// bytes. Oversized paragraphs are cut at rune boundaries.
func chunkMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			parts = append(parts, cur.String())
		}
		cur.Reset()
	}
	for _, para := range strings.Split(text, "\n\n") {
		for len(para) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(para[cut]) {
				cut--
			}
			parts = append(parts, para[:cut])
			para = para[cut:]
		}
		if cur.Len() > 0 && cur.Len()+2+len(para) > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(para)
	}
	flush()
	return parts
}
