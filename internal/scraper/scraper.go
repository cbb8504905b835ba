// Define an interface for all scrapers
// Ensure consistency

package scraper

import (
	"context"

	"go-updash-automation/internal/browser"

	"github.com/playwright-community/playwright-go"
)

// Record is the canonical shape for one scraped unit: a chat message, a
// room-list entry or a job tile. Fields that do not apply to a given kind
// stay empty and are omitted from JSON.
type Record struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId,omitempty"`
	Sender         string `json:"sender,omitempty"`
	Title          string `json:"title,omitempty"`
	Content        string `json:"content"`
	Preview        string `json:"preview,omitempty"`
	Budget         string `json:"budget,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	Date           string `json:"date,omitempty"`
	IsRead         bool   `json:"isRead"`
	IsUnread       bool   `json:"isUnread"`
	//Type is "system" when no real author resolved, otherwise "user"
	Type    string `json:"type,omitempty"`
	ChatURL string `json:"chatUrl,omitempty"`
	URL     string `json:"url,omitempty"`
	//Source names the container strategy that produced the record,
	//or "universal-dom" for the degraded broad-search path
	Source      string `json:"source"`
	ExtractedAt string `json:"extractedAt"`
}

// PageInfo describes the page a batch came from.
type PageInfo struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp"`
	Total     int    `json:"total"`
	Source    string `json:"source"`
	Error     string `json:"error,omitempty"`
}

// Batch is one extraction pass: records in DOM encounter order plus the
// page they came from. It is handed to delivery and then discarded.
type Batch struct {
	Records  []Record `json:"records"`
	PageInfo PageInfo `json:"pageInfo"`
}

//Scraper defines the interface that all extraction modes must implement
type Scraper interface {
	//Name is the mode name (messages, jobs, active-chat)
	Name() string

	//Pick chooses the target tab for this mode out of the open tabs
	Pick(tabs []browser.Tab) (browser.Tab, bool)

	//Scrape extracts records from the picked page
	Scrape(ctx context.Context, page playwright.Page) ([]Record, error)
}

const (
	//MaxRecords bounds one run so a pathological page cannot flood the pipeline
	MaxRecords = 20

	//MinMessageLength filters UI chrome matched by broad container selectors
	MinMessageLength = 10

	//MinChatLineLength is the floor for individual chat transcript lines
	MinChatLineLength = 2

	//subfield lookups must not stall a run when a field is simply absent
	fieldTimeoutMs = 500
)
