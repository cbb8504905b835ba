package jobs

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

// Scraper extracts job tiles from search/feed pages. When no declared
// strategy matches it degrades to a broad DOM sweep flagged as
// "universal-dom" so consumers can tell low-confidence results apart.
type Scraper struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{cfg: cfg}
}

func (s *Scraper) Name() string {
	return "jobs"
}

func (s *Scraper) Pick(tabs []browser.Tab) (browser.Tab, bool) {
	return browser.SelectTab(tabs, browser.IsUpwork)
}

var containerStrategies = []scraper.Strategy{
	{Name: "job-tile", Selector: `[data-test="job-tile"]`},
	{Name: "job-tile-alt", Selector: `[data-ev-label="job_tile"], .job-tile, .air3-card`},
	{Name: "job-link", Selector: `a[href*="/jobs/"]`},
}

var titleSelectors = []string{
	`[data-test="job-title-link"]`,
	`a[href*="/jobs/"]`,
	"h4 a",
	"h3 a",
}

var descriptionSelectors = []string{
	`[data-test="job-description-text"]`,
	".job-description",
}

var budgetSelectors = []string{
	`[data-test="budget"]`,
	".budget",
}

func (s *Scraper) Scrape(ctx context.Context, page playwright.Page) ([]scraper.Record, error) {
	containers, strat, ok := scraper.FirstContainers(page, containerStrategies)
	if ok {
		return s.extractTiles(ctx, containers, strat)
	}

	log.Println("🌐 No job tile strategy matched, trying universal DOM sweep...")
	return s.extractUniversal(ctx, page)
}

func (s *Scraper) extractTiles(ctx context.Context, containers []playwright.Locator, strat scraper.Strategy) ([]scraper.Record, error) {
	extractedAt := time.Now().UTC().Format(time.RFC3339)
	var records []scraper.Record

	for index, el := range containers {
		if index >= s.cfg.MaxRecords {
			break
		}
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		var title, jobURL, description, budget string

		if strat.Name == "job-link" {
			//the container is the link itself
			if text, err := el.TextContent(playwright.LocatorTextContentOptions{Timeout: playwright.Float(1000)}); err == nil {
				title = normalize.Collapse(text)
			}
			if out := scraper.OwnAttr(el, "href"); out.Status == scraper.Found {
				jobURL = out.Value
			}
		} else {
			if out := scraper.TextCascade(el, titleSelectors); out.Status == scraper.Found {
				title = normalize.Collapse(out.Value)
			}
			if out := scraper.AttrCascade(el, titleSelectors, "href"); out.Status == scraper.Found {
				jobURL = out.Value
			}
			if out := scraper.TextCascade(el, descriptionSelectors); out.Status == scraper.Found {
				description = normalize.Clean(out.Value, s.cfg.BoilerplatePhrases)
			}
			if out := scraper.TextCascade(el, budgetSelectors); out.Status == scraper.Found {
				budget = normalize.Collapse(out.Value)
			}
		}

		if title == "" && jobURL == "" {
			continue
		}
		if title == "" {
			title = "No title"
		}

		records = append(records, scraper.Record{
			ID:          jobID(title, jobURL),
			Title:       title,
			Content:     description,
			Preview:     normalize.Preview(description),
			Budget:      budget,
			URL:         jobURL,
			Source:      strat.Name,
			ExtractedAt: extractedAt,
		})
	}

	log.Printf("📋 Extracted %d jobs (strategy %q)", len(records), strat.Name)
	return records, nil
}

// extractUniversal is the degraded broad-search path: anything job-ish by
// class or href, minus navigation chrome, minus short noise.
func (s *Scraper) extractUniversal(ctx context.Context, page playwright.Page) ([]scraper.Record, error) {
	elements, err := page.Locator(`a[href*="job"], [class*="job"]`).All()
	if err != nil {
		return nil, err
	}
	log.Printf("    🔎 Broad sweep found %d candidates", len(elements))

	extractedAt := time.Now().UTC().Format(time.RFC3339)
	var records []scraper.Record
	seen := make(map[string]bool)

	for _, el := range elements {
		if len(records) >= s.cfg.MaxRecords {
			break
		}
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		text := ""
		if raw, err := el.TextContent(playwright.LocatorTextContentOptions{Timeout: playwright.Float(1000)}); err == nil {
			text = normalize.Collapse(raw)
		}

		classes := ""
		if out := scraper.OwnAttr(el, "class"); out.Status == scraper.Found {
			classes = out.Value
		}
		href := ""
		if out := scraper.OwnAttr(el, "href"); out.Status == scraper.Found {
			href = out.Value
		}

		if !KeepCandidate(text, classes, href) {
			continue
		}

		title := normalize.Preview(text)
		if len([]rune(title)) <= 3 {
			continue
		}

		//broad selectors overlap heavily; drop repeats of the same element
		key := title + "|" + href
		if seen[key] {
			continue
		}
		seen[key] = true

		records = append(records, scraper.Record{
			ID:          jobID(title, href),
			Title:       truncateTitle(title),
			Content:     text,
			Preview:     normalize.Preview(text),
			URL:         href,
			Source:      "universal-dom",
			ExtractedAt: extractedAt,
		})
	}

	log.Printf("📋 Universal sweep kept %d records", len(records))
	return records, nil
}

// KeepCandidate filters the broad sweep: navigation, header and footer
// elements are out; what stays must either carry substantial text or be
// a real job deep link.
func KeepCandidate(text, classes, href string) bool {
	if strings.Contains(classes, "nav") || strings.Contains(classes, "header") || strings.Contains(classes, "footer") {
		return false
	}
	hasRealContent := len([]rune(text)) > 20
	isJobLink := strings.Contains(href, "/jobs/") && len(href) > 30
	return hasRealContent || isJobLink
}

func jobID(title, url string) string {
	return "job_" + identity.Hash36(identity.Fold(title)+url)
}

func truncateTitle(title string) string {
	r := []rune(title)
	if len(r) > 100 {
		return string(r[:100])
	}
	return title
}
