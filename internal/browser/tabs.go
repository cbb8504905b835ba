package browser

import (
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Tab is a read-only snapshot of one open page, taken at enumeration time.
type Tab struct {
	URL     string
	Title   string
	Visible bool
	Page    playwright.Page
}

// IsUpwork reports whether the tab shows any Upwork page.
func IsUpwork(t Tab) bool {
	return strings.Contains(t.URL, "upwork.com")
}

// IsConversation reports whether the tab shows an open Upwork chat.
func IsConversation(t Tab) bool {
	if !IsUpwork(t) {
		return false
	}
	for _, marker := range []string{"/messages", "/ab/messages", "/nx/messages", "rooms/room_"} {
		if strings.Contains(t.URL, marker) {
			return true
		}
	}
	return false
}

// SelectTab picks the best candidate tab for extraction. The target
// content may be open but not focused, so the tiers trade precision for
// availability: visible match, any match, any visible tab, then the most
// recently opened tab as last resort.
func SelectTab(tabs []Tab, pred func(Tab) bool) (Tab, bool) {
	if len(tabs) == 0 {
		return Tab{}, false
	}

	//tier 1: visible tab satisfying the predicate
	for _, t := range tabs {
		if t.Visible && pred(t) {
			return t, true
		}
	}

	//tier 2: any matching tab, focused or not
	for _, t := range tabs {
		if pred(t) {
			return t, true
		}
	}

	//tier 3: any visible tab, predicate relaxed
	for _, t := range tabs {
		if t.Visible {
			return t, true
		}
	}

	//tier 4: most recently opened tab
	return tabs[len(tabs)-1], true
}

// SelectStrict is SelectTab without the relaxed tiers; used when scraping
// the wrong page would be worse than scraping nothing (active chat).
func SelectStrict(tabs []Tab, pred func(Tab) bool) (Tab, bool) {
	for _, t := range tabs {
		if t.Visible && pred(t) {
			return t, true
		}
	}
	for _, t := range tabs {
		if pred(t) {
			return t, true
		}
	}
	return Tab{}, false
}
