package messages

import (
	"context"
	"log"
	"time"

	"go-updash-automation/internal/browser"
	"go-updash-automation/internal/config"
	"go-updash-automation/internal/identity"
	"go-updash-automation/internal/normalize"
	"go-updash-automation/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

// Scraper extracts the room list / notification panel: one record per
// conversation entry or story item visible on the page.
type Scraper struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{cfg: cfg}
}

func (s *Scraper) Name() string {
	return "messages"
}

func (s *Scraper) Pick(tabs []browser.Tab) (browser.Tab, bool) {
	return browser.SelectTab(tabs, browser.IsUpwork)
}

// Container strategies in precedence order: the room list sidebar first,
// then in-chat story items, then data-test and class-fragment fallbacks,
// finally Upwork's generic card components.
var containerStrategies = []scraper.Strategy{
	{Name: "room-list-item", Selector: ".room-list-item"},
	{Name: "room-list-link", Selector: "a.room-list-item"},
	{Name: "rooms-panel-item", Selector: ".rooms-panel-room-list .room-list-item"},
	{Name: "story-item", Selector: ".up-d-story-item"},
	{Name: "story-list-item", Selector: ".story-list .up-d-story-item"},
	{Name: "room-list-item-test", Selector: `[data-test="room-list-item"]`},
	{Name: "story-container-test", Selector: `[data-test="story-container"]`},
	{Name: "room-list-item-class", Selector: `[class*="room-list-item"]`},
	{Name: "story-item-class", Selector: `[class*="story-item"]`},
	{Name: "air-card", Selector: ".air-card"},
	{Name: "up-card", Selector: ".up-card"},
}

var senderSelectors = []string{
	".user-name",
	".room-list-item-base-text.item-title",
	`[data-test="room-name"]`,
	".profile-title",
	".sender-name",
	".client-name",
	".freelancer-name",
	`[class*="name"]`,
	"h3", "h4", "h5",
	".title",
}

var previewSelectors = []string{
	".up-d-message",
	".room-list-item-story",
	".story-message .up-d-message",
	`[data-test="story-message"]`,
	".message-preview",
	".preview-text",
	".summary",
	"p:first-of-type",
	".description",
}

var timeSelectors = []string{
	".story-timestamp",
	".timestamp.text-base-sm",
	"time",
	".timestamp",
	".time",
	"[datetime]",
	".date",
}

var unreadSelectors = []string{
	".unread",
	".new-message",
	`[class*="unread"]`,
	".notification-dot",
}

var linkSelectors = []string{
	`a[href*="/messages/"]`,
	`a[href*="/conversations/"]`,
	`a[href*="/rooms/"]`,
	`a[href*="/conversation/"]`,
}

func (s *Scraper) Scrape(ctx context.Context, page playwright.Page) ([]scraper.Record, error) {
	containers, strat, ok := scraper.FirstContainers(page, containerStrategies)
	if !ok {
		log.Println("⚠️ No message containers matched any strategy")
		return nil, nil
	}

	extractedAt := time.Now().UTC().Format(time.RFC3339)
	var records []scraper.Record

	for index, el := range containers {
		if len(records) >= s.cfg.MaxRecords {
			break
		}
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		rawText, err := el.TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(1000),
		})
		if err != nil {
			continue
		}

		content := normalize.Clean(rawText, s.cfg.BoilerplatePhrases)
		//minimum-content filter: room-list UI chrome comes in under this
		if len([]rune(content)) <= scraper.MinMessageLength {
			continue
		}

		timestamp := extractTimestamp(el)

		sender := normalize.SenderUnknown
		if out := scraper.TextCascade(el, senderSelectors); out.Status == scraper.Found {
			sender = normalize.Collapse(out.Value)
		}

		preview := ""
		if out := scraper.TextCascade(el, previewSelectors); out.Status == scraper.Found {
			preview = normalize.Preview(normalize.Clean(out.Value, s.cfg.BoilerplatePhrases))
		}

		//absence of an unread indicator implies read; heuristic, not ground truth
		isRead := !scraper.HasAny(el, unreadSelectors)

		href := ""
		if out := scraper.AttrCascade(el, linkSelectors, "href"); out.Status == scraper.Found {
			href = out.Value
		} else if out := scraper.OwnAttr(el, "href"); out.Status == scraper.Found {
			//the container itself may be the room link (a.room-list-item)
			href = out.Value
		}

		hints := identity.ConversationHints{
			Sender:    sender,
			Timestamp: timestamp,
			Href:      href,
		}
		if out := scraper.OwnAttr(el, "data-conversation-id", "data-room-id", "data-id", "id"); out.Status == scraper.Found {
			hints.AttrID = out.Value
		}
		if out := scraper.OwnAttr(el, "id"); out.Status == scraper.Found {
			hints.ElementID = out.Value
		}
		if out := scraper.OwnAttr(el, "onclick"); out.Status == scraper.Found {
			hints.Onclick = out.Value
		}

		conversationID := identity.ConversationID(hints)
		if conversationID == "" {
			conversationID = "chat_" + identity.Hash36(sender)
		}

		domID := ""
		if out := scraper.OwnAttr(el, "data-message-id", "data-id", "id"); out.Status == scraper.Found {
			domID = out.Value
		}

		records = append(records, scraper.Record{
			ID:             identity.MessageID(domID, content, timestamp, index),
			ConversationID: conversationID,
			Sender:         sender,
			Content:        content,
			Preview:        preview,
			Timestamp:      timestamp,
			IsRead:         isRead,
			IsUnread:       !isRead,
			Type:           normalize.Classify(sender),
			ChatURL:        identity.ChatURL(href, conversationID),
			Source:         strat.Name,
			ExtractedAt:    extractedAt,
		})
	}

	log.Printf("📬 Extracted %d messages (strategy %q)", len(records), strat.Name)
	return records, nil
}

// extractTimestamp prefers a machine-readable datetime attribute over the
// human-facing label text. Empty when nothing resolves; the scraped
// timestamp is never fabricated.
func extractTimestamp(el playwright.Locator) string {
	if out := scraper.AttrCascade(el, timeSelectors, "datetime"); out.Status == scraper.Found {
		return out.Value
	}
	if out := scraper.TextCascade(el, timeSelectors); out.Status == scraper.Found {
		return normalize.Collapse(out.Value)
	}
	return ""
}
