package activechat

import (
	"context"
	"testing"

	"go-updash-automation/internal/browser"
	"go-updash-automation/internal/config"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

func TestPick_NeverFallsBackToUnrelatedTab(t *testing.T) {
	tabs := []browser.Tab{
		{URL: "https://www.upwork.com/nx/find-work/", Title: "Find Work", Visible: true},
		{URL: "https://news.example.com/", Title: "News", Visible: true},
	}

	_, ok := New(testConfig()).Pick(tabs)
	assert.False(t, ok, "a visible non-conversation tab must not be picked")
}

func TestPick_HiddenConversationStillWins(t *testing.T) {
	tabs := []browser.Tab{
		{URL: "https://www.upwork.com/nx/find-work/", Visible: true},
		{URL: "https://www.upwork.com/ab/rooms/room_4f2a9c", Visible: false},
	}

	tab, ok := New(testConfig()).Pick(tabs)
	assert.True(t, ok)
	assert.Contains(t, tab.URL, "room_4f2a9c")
}

func setupPage(t *testing.T, html string) playwright.Page {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("could not launch playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("could not launch browser: %v", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	if err := page.SetContent(html); err != nil {
		t.Fatalf("could not set page content: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})
	return page
}

func testConfig() *config.Config {
	return &config.Config{
		MaxRecords:         20,
		BoilerplatePhrases: []string{"end-of-message"},
	}
}

const transcriptHTML = `<html><body>
<div class="room-title">Jane Client</div>
<div class="room-subtitle">Logo design project</div>
<div class="story-list">
  <div class="up-d-story-item">
    <div class="story-day-header"><span class="header-timestamp">Jan 5</span></div>
    <div class="user-name">Jane Client</div>
    <div class="story-message"><div class="up-d-message">Hi, thanks for applying end-of-message</div></div>
    <div class="story-timestamp" title="2024-01-05T10:00:00Z">10:00 AM</div>
  </div>
  <div class="up-d-story-item">
    <div class="story-message"><div class="up-d-message"><strong>Jane Client</strong> sent an offer</div></div>
  </div>
  <div class="up-d-story-item">
    <div class="story-message"><div class="up-d-message">x</div></div>
  </div>
  <div class="up-d-story-item">
    <div class="story-message"><div class="up-d-message">Terms look good, contract attached for review</div></div>
  </div>
</div>
</body></html>`

func TestScrape_Transcript(t *testing.T) {
	page := setupPage(t, transcriptHTML)

	records, err := New(testConfig()).Scrape(context.Background(), page)
	assert.NoError(t, err)
	assert.Len(t, records, 3, "the single-character line must be dropped")

	first := records[0]
	assert.Equal(t, "Jane Client", first.Sender)
	assert.Equal(t, "Hi, thanks for applying", first.Content)
	assert.Equal(t, "2024-01-05T10:00:00Z", first.Timestamp, "title attribute wins over label text")
	assert.Equal(t, "Jan 5", first.Date)
	assert.Equal(t, "user", first.Type)
	assert.True(t, first.IsRead)
	assert.Equal(t, "story-item", first.Source)

	//system event attribution comes from the strong element
	offer := records[1]
	assert.Equal(t, "Jane Client", offer.Sender)
	assert.Contains(t, offer.Content, "sent an offer")
	assert.Equal(t, "user", offer.Type)

	//no author markup at all resolves to the system sender
	last := records[2]
	assert.Equal(t, "System", last.Sender)
	assert.Equal(t, "system", last.Type)
}

func TestScrape_EmptyTranscript(t *testing.T) {
	page := setupPage(t, `<html><body><div class="room-title">Jane Client</div></body></html>`)

	records, err := New(testConfig()).Scrape(context.Background(), page)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestScrape_CapEnforced(t *testing.T) {
	html := `<html><body>`
	for i := 0; i < 30; i++ {
		html += `<div class="up-d-story-item">
		  <div class="user-name">Jane Client</div>
		  <div class="story-message"><div class="up-d-message">A message long enough to keep</div></div>
		</div>`
	}
	html += `</body></html>`
	page := setupPage(t, html)

	records, err := New(testConfig()).Scrape(context.Background(), page)
	assert.NoError(t, err)
	assert.Len(t, records, 20)
}
