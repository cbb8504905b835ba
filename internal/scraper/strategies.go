package scraper

import (
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Strategy is one named way of locating record containers. Strategies are
// tried in declared order and the first one with any matches wins; results
// are never merged across strategies, which keeps overlapping selectors
// from double-counting the same elements.
type Strategy struct {
	Name     string
	Selector string
}

// OutcomeStatus tags the result of one cascade step.
type OutcomeStatus int

const (
	NotFound OutcomeStatus = iota
	Found
	Degraded
)

// Outcome is the result of running a selector cascade for a single field.
// A NotFound outcome means the caller falls back to its sentinel default;
// it is never an error.
type Outcome struct {
	Status   OutcomeStatus
	Value    string
	Selector string
}

// FirstContainers runs the container strategies in order and returns the
// matches of the first strategy that finds anything.
func FirstContainers(page playwright.Page, strategies []Strategy) ([]playwright.Locator, Strategy, bool) {
	for _, strat := range strategies {
		elements, err := page.Locator(strat.Selector).All()
		if err != nil {
			log.Printf("    ⚠️ Strategy %q failed: %v", strat.Name, err)
			continue
		}
		if len(elements) > 0 {
			log.Printf("    🎯 Found %d elements with strategy %q", len(elements), strat.Name)
			return elements, strat, true
		}
	}
	return nil, Strategy{}, false
}

// TextCascade tries each selector under root until one yields non-empty
// text content.
func TextCascade(root playwright.Locator, selectors []string) Outcome {
	for _, sel := range selectors {
		loc := root.Locator(sel)
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		text, err := loc.First().TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(fieldTimeoutMs),
		})
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return Outcome{Status: Found, Value: trimmed, Selector: sel}
		}
	}
	return Outcome{Status: NotFound}
}

// AttrCascade tries each selector under root and returns the first
// non-empty value of attr. Selectors may target root itself via ":scope".
func AttrCascade(root playwright.Locator, selectors []string, attr string) Outcome {
	for _, sel := range selectors {
		loc := root.Locator(sel)
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		value, err := loc.First().GetAttribute(attr, playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(fieldTimeoutMs),
		})
		if err != nil || value == "" {
			continue
		}
		return Outcome{Status: Found, Value: value, Selector: sel}
	}
	return Outcome{Status: NotFound}
}

// OwnAttr reads an attribute of the container element itself.
func OwnAttr(root playwright.Locator, attrs ...string) Outcome {
	for _, attr := range attrs {
		value, err := root.GetAttribute(attr, playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(fieldTimeoutMs),
		})
		if err != nil || value == "" {
			continue
		}
		return Outcome{Status: Found, Value: value, Selector: "@" + attr}
	}
	return Outcome{Status: NotFound}
}

// HasAny reports whether any of the selectors matches under root. Used for
// presence checks such as unread indicators.
func HasAny(root playwright.Locator, selectors []string) bool {
	for _, sel := range selectors {
		if count, err := root.Locator(sel).Count(); err == nil && count > 0 {
			return true
		}
	}
	return false
}
