package activechat

import (
	"context"
	"log"
	"strings"
	"time"

	"go-updash-automation/internal/browser"
	"go-updash-automation/internal/config"
	"go-updash-automation/internal/identity"
	"go-updash-automation/internal/normalize"
	"go-updash-automation/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

// Scraper reads the transcript of the currently open conversation. The
// output feeds AI reply suggestions, so unlike the other modes it never
// falls back to an unrelated tab: wrong-page data would poison the
// analysis downstream.
type Scraper struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{cfg: cfg}
}

func (s *Scraper) Name() string {
	return "active-chat"
}

func (s *Scraper) Pick(tabs []browser.Tab) (browser.Tab, bool) {
	return browser.SelectStrict(tabs, browser.IsConversation)
}

// System events credit the acting party inside a <strong> element rather
// than a .user-name block.
var systemEventMarkers = []string{
	"sent an offer",
	"accepted an offer",
	"Contract started",
}

func (s *Scraper) Scrape(ctx context.Context, page playwright.Page) ([]scraper.Record, error) {
	if out := firstText(page, ".room-title, #room-header-title, .room-header-title"); out != "" {
		log.Printf("💬 Chat: %s", out)
	}
	if out := firstText(page, ".room-subtitle"); out != "" {
		log.Printf("📌 Project: %s", out)
	}

	conversationID := ""
	if id, ok := identity.FromHref(page.URL()); ok {
		conversationID = id
	}

	storyItems, err := page.Locator(".up-d-story-item").All()
	if err != nil {
		return nil, err
	}
	log.Printf("    📦 Found %d story items", len(storyItems))

	extractedAt := time.Now().UTC().Format(time.RFC3339)
	var records []scraper.Record

	for index, item := range storyItems {
		if len(records) >= s.cfg.MaxRecords {
			break
		}
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		messageOut := scraper.TextCascade(item, []string{".story-message .up-d-message", ".up-d-message"})
		if messageOut.Status != scraper.Found {
			continue
		}

		content := normalize.Clean(messageOut.Value, s.cfg.BoilerplatePhrases)
		if len([]rune(content)) < scraper.MinChatLineLength {
			continue
		}

		author := resolveAuthor(item, content)

		timestamp := ""
		if out := scraper.AttrCascade(item, []string{".story-timestamp"}, "title"); out.Status == scraper.Found {
			timestamp = out.Value
		} else if out := scraper.TextCascade(item, []string{".story-timestamp"}); out.Status == scraper.Found {
			timestamp = normalize.Collapse(out.Value)
		}

		date := ""
		if out := scraper.TextCascade(item, []string{".story-day-header .header-timestamp"}); out.Status == scraper.Found {
			date = normalize.Collapse(out.Value)
		}

		records = append(records, scraper.Record{
			ID:             identity.MessageID("", content, timestamp, index),
			ConversationID: conversationID,
			Sender:         author,
			Content:        content,
			Preview:        normalize.Preview(content),
			Timestamp:      timestamp,
			Date:           date,
			IsRead:         true,
			Type:           normalize.Classify(author),
			Source:         "story-item",
			ExtractedAt:    extractedAt,
		})
	}

	log.Printf("🗨️ Extracted %d chat messages", len(records))
	return records, nil
}

// resolveAuthor prefers the .user-name block; system events fall back to
// the <strong> attribution inside the message body.
func resolveAuthor(item playwright.Locator, content string) string {
	if out := scraper.TextCascade(item, []string{".user-name"}); out.Status == scraper.Found {
		return normalize.Collapse(out.Value)
	}

	for _, marker := range systemEventMarkers {
		if strings.Contains(content, marker) {
			if out := scraper.TextCascade(item, []string{".up-d-message strong", "strong"}); out.Status == scraper.Found {
				return normalize.Collapse(out.Value)
			}
			break
		}
	}
	return normalize.SenderSystem
}

func firstText(page playwright.Page, selector string) string {
	loc := page.Locator(selector)
	if count, err := loc.Count(); err != nil || count == 0 {
		return ""
	}
	text, err := loc.First().TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(1000),
	})
	if err != nil {
		return ""
	}
	return normalize.Collapse(text)
}
