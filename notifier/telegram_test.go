package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestFormatSummary_Success(t *testing.T) {
	text := FormatSummary(Summary{
		RunID:         "5f0c",
		BaseURL:       "http://quotes.toscrape.com",
		QuotePages:    10,
		Quotes:        100,
		Authors:       50,
		UniqueAuthors: 50,
		Duration:      95 * time.Second,
		SheetURL:      "https://docs.google.com/spreadsheets/d/x/edit#gid=1",
	})

	assert.Contains(t, text, "✅ <b>Crawl finished</b>")
	assert.Contains(t, text, "Run: <code>5f0c</code>")
	assert.Contains(t, text, "Pages scraped: 10")
	assert.Contains(t, text, "Quotes: 100")
	assert.Contains(t, text, "Authors: 50 (50 unique)")
	assert.Contains(t, text, "Duration: 1m35s")
	assert.Contains(t, text, "gid=1")
	assert.NotContains(t, text, "skipped")
	assert.NotContains(t, text, "Error")
}

func TestFormatSummary_FailureIsEscaped(t *testing.T) {
	text := FormatSummary(Summary{Skipped: 2, Err: errors.New("status <503>")})

	assert.Contains(t, text, "❌ <b>Crawl failed</b>")
	assert.Contains(t, text, "Author pages skipped: 2")
	assert.Contains(t, text, "Error: status &lt;503&gt;")
}

func TestTelegram_Notify(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramWithSender(sender, 42)

	require.NoError(t, n.Notify(context.Background(), Summary{Quotes: 3}))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Quotes: 3")
}

func TestTelegram_NotifyError(t *testing.T) {
	sender := &fakeSender{err: errors.New("forbidden")}
	n := NewTelegramWithSender(sender, 42)

	err := n.Notify(context.Background(), Summary{})
	assert.ErrorContains(t, err, "forbidden")
}

func TestTelegram_NotifyCanceled(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramWithSender(sender, 42)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, Summary{}), context.Canceled)
	assert.Empty(t, sender.sent)
}

func TestNewTelegram_EmptyToken(t *testing.T) {
	_, err := NewTelegram("", 1)
	assert.Error(t, err)
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{"fits", "short", 10, []string{"short"}},
		{"line boundaries", "aaaa\nbbbb\ncccc", 10, []string{"aaaa\nbbbb", "cccc"}},
		{"long line is cut", "0123456789abcdef\nxy", 8, []string{"01234567", "89abcdef", "xy"}},
		{"blank lines never make a part", "aaaa\n\n\n\nbbbb", 5, []string{"aaaa\n", "bbbb"}},
		{"runes stay whole", strings.Repeat("é", 5), 5, []string{"éé", "éé", "é"}},
		{"tags stay whole", "abc<code>xyz</code>", 8, []string{"abc", "<code>xy", "z</code>"}},
		{"entities stay whole", "ab&amp;cd", 5, []string{"ab", "&amp;", "cd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitMessage(tt.text, tt.maxLen))
		})
	}
}

func TestSplitMessage_LineOfExactLimit(t *testing.T) {
	line := strings.Repeat("y", maxMessageLen)
	parts := splitMessage("Run report\n"+line, maxMessageLen)

	assert.Equal(t, []string{"Run report", line}, parts)
	for _, part := range parts {
		assert.NotEmpty(t, strings.TrimSpace(part))
		assert.LessOrEqual(t, len(part), maxMessageLen)
	}
}

func TestTelegram_NotifyLongError(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramWithSender(sender, 42)

	long := errors.New(strings.Repeat("x", 5000))
	require.NoError(t, n.Notify(context.Background(), Summary{Err: long}))
	require.Len(t, sender.sent, 3)
	for _, c := range sender.sent {
		assert.LessOrEqual(t, len(c.(tgbotapi.MessageConfig).Text), maxMessageLen)
	}
}
