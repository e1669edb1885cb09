package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/raceodds/internal/pkg/config"
	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

const queueSize = 100

var ErrNotifierStopped = errors.New("notifier stopped")

// sender is the part of *tgbotapi.BotAPI the notifier uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts race odds to a Telegram chat from a background queue
type TelegramNotifier struct {
	bot      sender
	chatID   int64
	topN     int
	interval time.Duration
	lastSend time.Time

	mu      sync.Mutex
	stopped bool
	queue   chan string
	done    chan struct{}
}

// NewTelegramNotifier creates a new Telegram notifier and checks the bot token
func NewTelegramNotifier(cfg *config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	n := newTelegramNotifier(bot, cfg.ChatID, cfg.TopN, telegramSendInterval)
	slog.Info("Telegram notifier initialized", "chat_id", cfg.ChatID, "bot", bot.Self.UserName)
	return n, nil
}

func newTelegramNotifier(bot sender, chatID int64, topN int, interval time.Duration) *TelegramNotifier {
	if topN <= 0 {
		topN = models.DefaultTopN
	}
	n := &TelegramNotifier{
		bot:      bot,
		chatID:   chatID,
		topN:     topN,
		interval: interval,
		queue:    make(chan string, queueSize),
		done:     make(chan struct{}),
	}
	go n.messageSender()
	return n
}

// NotifySnapshot queues the top favourites of snap, or "odds unavailable" (non-blocking)
func (n *TelegramNotifier) NotifySnapshot(ctx context.Context, series enums.Series, snap *models.RaceOddsSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.enqueue(FormatSnapshot(series, snap, n.topN))
}

func (n *TelegramNotifier) enqueue(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stopped {
		return ErrNotifierStopped
	}
	select {
	case n.queue <- text:
		return nil
	default:
		slog.Warn("Telegram message queue is full, dropping message", "message_preview", truncateString(text, 50))
		return fmt.Errorf("message queue is full")
	}
}

// QueueLen returns current number of messages in the send queue (for logging).
func (n *TelegramNotifier) QueueLen() int {
	return len(n.queue)
}

// Stop stops accepting messages and waits until the queued ones are sent
func (n *TelegramNotifier) Stop() {
	slog.Info("Stopping Telegram notifier", "queue_length", n.QueueLen())
	n.mu.Lock()
	if !n.stopped {
		n.stopped = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
}

// messageSender runs in background and sends queued messages with proper intervals
func (n *TelegramNotifier) messageSender() {
	defer close(n.done)
	for text := range n.queue {
		n.send(text)
	}
}

func (n *TelegramNotifier) send(text string) {
	if elapsed := time.Since(n.lastSend); elapsed < n.interval {
		time.Sleep(n.interval - elapsed)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	start := time.Now()
	n.lastSend = start
	_, err := n.bot.Send(msg)
	if err != nil {
		slog.Error("Telegram send: failed", "error", err, "message_preview", truncateString(text, 50))
		return
	}
	slog.Info("Telegram send: success", "send_duration", time.Since(start), "queue_length", len(n.queue))
}

// FormatSnapshot renders the top n favourites as a Telegram Markdown message.
func FormatSnapshot(series enums.Series, snap *models.RaceOddsSnapshot, n int) string {
	var b strings.Builder
	name := series.GetSeriesInfo().Name

	if snap.Empty() {
		fmt.Fprintf(&b, "🏁 *%s*\nodds unavailable", escapeMarkdown(name))
		return b.String()
	}

	fmt.Fprintf(&b, "🏁 *%s: %s*\n\n", escapeMarkdown(name), escapeMarkdown(snap.RaceLabel))
	for _, row := range snap.Top(n) {
		if row.Priced() {
			fmt.Fprintf(&b, "%d. %s  `%s` (%.2f)\n", row.Rank, escapeMarkdown(row.Driver), row.Odds, row.Decimal)
		} else {
			fmt.Fprintf(&b, "%d. %s  `%s`\n", row.Rank, escapeMarkdown(row.Driver), row.Odds)
		}
	}
	fmt.Fprintf(&b, "\n_Captured %s_", snap.CapturedAt.UTC().Format("2006-01-02 15:04 UTC"))
	return b.String()
}

// escapeMarkdown escapes the characters that are special in Telegram's legacy Markdown mode
func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(text)
}

// truncateString truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
