// Package notifier posts crawl summaries to a Telegram chat.
package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// maxMessageLen is the Telegram limit on message text
const maxMessageLen = 4096

// Summary describes the outcome of one pipeline run
type Summary struct {
	RunID         string
	BaseURL       string
	QuotePages    int
	Quotes        int
	Authors       int
	UniqueAuthors int
	Skipped       int
	Duration      time.Duration
	SheetURL      string
	Err           error
}

// Sender is the part of the bot API used to deliver messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends run summaries to one chat
type Telegram struct {
	bot    Sender
	chatID int64
}

// NewTelegram connects to the bot API with token
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token must not be empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Int64("chat_id", chatID).Msg("Authorized on Telegram")
	return NewTelegramWithSender(bot, chatID), nil
}

// NewTelegramWithSender creates a Telegram notifier around an existing sender
func NewTelegramWithSender(bot Sender, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

// Notify sends the formatted summary
func (t *Telegram) Notify(ctx context.Context, s Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, part := range splitMessage(FormatSummary(s), maxMessageLen) {
		msg := tgbotapi.NewMessage(t.chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true

		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
	}
	return nil
}

// splitMessage splits text on line boundaries into parts of at most maxLen
// bytes. Lines that do not fit in a part of their own are cut with cutIndex.
// Blank parts are dropped since Telegram rejects empty messages.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	add := func(part string) {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}

	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		sep := 0
		if current.Len() > 0 {
			sep = 1
		}
		if current.Len()+sep+len(line) > maxLen {
			add(current.String())
			current.Reset()
			for len(line) > maxLen {
				cut := cutIndex(line, maxLen)
				add(line[:cut])
				line = line[cut:]
			}
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	add(current.String())

	return parts
}

// cutIndex returns where to cut s so the first piece fits in maxLen bytes
// without splitting a rune or HTML markup.
func cutIndex(s string, maxLen int) int {
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	head := s[:cut]
	if open := strings.LastIndexByte(head, '<'); open > 0 && open > strings.LastIndexByte(head, '>') {
		cut = open
	} else if amp := strings.LastIndexByte(head, '&'); amp > 0 && amp > strings.LastIndexByte(head, ';') {
		cut = amp
	}

	if cut == 0 {
		return maxLen
	}
	return cut
}

// FormatSummary renders a summary as a Telegram HTML message
func FormatSummary(s Summary) string {
	var b strings.Builder

	if s.Err != nil {
		b.WriteString("❌ <b>Crawl failed</b>\n\n")
	} else {
		b.WriteString("✅ <b>Crawl finished</b>\n\n")
	}

	if s.BaseURL != "" {
		fmt.Fprintf(&b, "Site: %s\n", html.EscapeString(s.BaseURL))
	}
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run: <code>%s</code>\n", html.EscapeString(s.RunID))
	}
	fmt.Fprintf(&b, "Pages scraped: %d\n", s.QuotePages)
	fmt.Fprintf(&b, "Quotes: %d\n", s.Quotes)
	fmt.Fprintf(&b, "Authors: %d (%d unique)\n", s.Authors, s.UniqueAuthors)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "Author pages skipped: %d\n", s.Skipped)
	}
	if s.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %s\n", s.Duration.Round(time.Second))
	}
	if s.SheetURL != "" {
		fmt.Fprintf(&b, "\nView spreadsheet: %s\n", html.EscapeString(s.SheetURL))
	}
	if s.Err != nil {
		fmt.Fprintf(&b, "\nError: %s\n", html.EscapeString(s.Err.Error()))
	}

	return b.String()
}
