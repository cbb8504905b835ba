package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/playwright-community/playwright-go"
)

var (
	//ErrControlPlaneUnavailable means the debugging endpoint did not answer the cheap probe
	ErrControlPlaneUnavailable = errors.New("chrome control plane unavailable")
	//ErrConnection means attach failed after the retry budget was exhausted
	ErrConnection = errors.New("chrome connection failed")
)

const (
	connectTimeout = 30 * time.Second
	retryBackoff   = 2 * time.Second
	probeTimeout   = 5 * time.Second
)

// Session is a live control channel to an external Chrome instance.
// It is owned by exactly one extraction run and must be released with
// Disconnect; the browser itself keeps running for other consumers.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Probe checks the debugging endpoint with a lightweight /json/version
// request before committing to the full attach cycle.
func Probe(endpoint string) error {
	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get(endpoint + "/json/version")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrControlPlaneUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d", ErrControlPlaneUnavailable, resp.StatusCode)
	}
	return nil
}

// Connect attaches to the running Chrome over CDP, retrying up to
// maxAttempts times with a fixed backoff. Each attempt is bounded by its
// own timeout so a hung attach counts as a failed attempt.
func Connect(ctx context.Context, endpoint string, maxAttempts int) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright driver: %w", err)
	}

	var browser playwright.Browser
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			pw.Stop()
			return nil, ctx.Err()
		}

		log.Printf("🔗 Connecting to logged-in Chrome... (attempt %d/%d)", attempt, maxAttempts)
		browser, lastErr = pw.Chromium.ConnectOverCDP(endpoint, playwright.BrowserTypeConnectOverCDPOptions{
			Timeout: playwright.Float(float64(connectTimeout.Milliseconds())),
		})
		if lastErr == nil {
			log.Println("✅ Connected to Chrome debugger")
			return &Session{pw: pw, browser: browser}, nil
		}

		log.Printf("❌ Connection attempt %d failed: %v", attempt, lastErr)
		if attempt < maxAttempts {
			log.Printf("⏳ Waiting %v before retry...", retryBackoff)
			time.Sleep(retryBackoff)
		}
	}

	pw.Stop()
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrConnection, maxAttempts, lastErr)
}

// Tabs snapshots every open page in the browser. Visibility reads go
// through the page itself, so a wedged tab degrades to Visible=false
// instead of failing the enumeration.
func (s *Session) Tabs() []Tab {
	var tabs []Tab
	for _, browserCtx := range s.browser.Contexts() {
		for _, page := range browserCtx.Pages() {
			tab := Tab{URL: page.URL(), Page: page}

			if title, err := page.Title(); err == nil {
				tab.Title = title
			}

			if visible, err := page.Evaluate("() => !document.hidden"); err == nil {
				if v, ok := visible.(bool); ok {
					tab.Visible = v
				}
			}

			tabs = append(tabs, tab)
		}
	}
	log.Printf("📄 Found %d open tabs", len(tabs))
	return tabs
}

// Disconnect releases the control channel. Closing a CDP-attached browser
// only detaches, it never terminates the external process.
func (s *Session) Disconnect() {
	if err := s.browser.Close(); err != nil {
		log.Printf("⚠️ Error disconnecting from Chrome: %v", err)
	}
	if err := s.pw.Stop(); err != nil {
		log.Printf("⚠️ Error stopping playwright driver: %v", err)
	}
}
