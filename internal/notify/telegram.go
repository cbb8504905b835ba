package notify

import (
	"fmt"
	"strings"

	"go-updash-automation/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot pushes a Telegram note when a run finds records not seen before.
// Entirely optional: without a token the pipeline runs silently.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendRecord notifies about one newly seen record.
func (b *Bot) SendRecord(rec scraper.Record) error {
	sender := rec.Sender
	if sender == "" {
		sender = "System"
	}

	msgText := fmt.Sprintf("💬 *%s*\n", b.escapeMarkdown(sender))
	if rec.Title != "" {
		msgText += fmt.Sprintf("📋 %s\n", b.escapeMarkdown(rec.Title))
	}
	preview := rec.Preview
	if preview == "" {
		preview = rec.Content
	}
	msgText += fmt.Sprintf("📝 %s\n", b.escapeMarkdown(preview))
	if rec.Timestamp != "" {
		msgText += fmt.Sprintf("🕑 %s\n", b.escapeMarkdown(rec.Timestamp))
	}

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
