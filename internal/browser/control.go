package browser

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Controller drives the raw DevTools HTTP endpoints (/json, /json/new,
// /json/activate). Unlike a Session it never attaches to a page; it is
// used for the open-conversation feature where the dashboard wants a
// chat brought up in the human's browser.
type Controller struct {
	baseURL string
	client  *http.Client
}

// TabInfo is the DevTools /json description of one open target.
type TabInfo struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// OpenResult describes what the controller did to surface a conversation.
type OpenResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	TabID   string `json:"tab_id,omitempty"`
	URL     string `json:"url"`
	Error   string `json:"error,omitempty"`
}

func NewController(endpoint string) *Controller {
	return &Controller{
		baseURL: strings.TrimRight(endpoint, "/"),
		client:  &http.Client{Timeout: probeTimeout},
	}
}

// ListTabs returns all open targets known to the debugging endpoint.
func (c *Controller) ListTabs() ([]TabInfo, error) {
	resp, err := c.client.Get(c.baseURL + "/json")
	if err != nil {
		return nil, fmt.Errorf("failed to list Chrome tabs: %w", err)
	}
	defer resp.Body.Close()

	var tabs []TabInfo
	if err := json.NewDecoder(resp.Body).Decode(&tabs); err != nil {
		return nil, fmt.Errorf("failed to parse tab list: %w", err)
	}
	return tabs, nil
}

// FindUpworkTab returns the first open Upwork tab, if any.
func (c *Controller) FindUpworkTab() (TabInfo, bool) {
	tabs, err := c.ListTabs()
	if err != nil {
		log.Printf("⚠️ Could not enumerate tabs: %v", err)
		return TabInfo{}, false
	}
	for _, tab := range tabs {
		if strings.Contains(tab.URL, "upwork.com") {
			return tab, true
		}
	}
	return TabInfo{}, false
}

// NewTab opens target in a fresh tab via /json/new.
func (c *Controller) NewTab(target string) (TabInfo, error) {
	req, err := http.NewRequest(http.MethodPut, c.baseURL+"/json/new?"+url.QueryEscape(target), nil)
	if err != nil {
		return TabInfo{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return TabInfo{}, fmt.Errorf("failed to create new tab: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return TabInfo{}, fmt.Errorf("new tab request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tab TabInfo
	if err := json.NewDecoder(resp.Body).Decode(&tab); err != nil {
		return TabInfo{}, fmt.Errorf("failed to parse new tab response: %w", err)
	}
	return tab, nil
}

// ActivateTab focuses an existing tab. Best effort: activation failing
// still leaves the tab open, so callers only log the error.
func (c *Controller) ActivateTab(id string) error {
	resp, err := c.client.Post(c.baseURL+"/json/activate/"+id, "text/plain", nil)
	if err != nil {
		return fmt.Errorf("failed to activate tab %s: %w", id, err)
	}
	defer resp.Body.Close()
	return nil
}

// OpenConversation surfaces an Upwork chat in the external browser. An
// already-open Upwork tab is reused by navigating a fresh tab next to it;
// otherwise a new tab is created. The tab is activated afterwards so the
// human lands on the conversation.
func (c *Controller) OpenConversation(conversationID string) OpenResult {
	target := "https://www.upwork.com/messages/" + conversationID
	log.Printf("💬 Opening Upwork conversation: %s", target)

	action := "created_new_tab"
	if existing, ok := c.FindUpworkTab(); ok {
		log.Printf("🔍 Found existing Upwork tab %s (%s)", existing.ID, existing.URL)
		action = "created_new_tab_near_existing"
	}

	tab, err := c.NewTab(target)
	if err != nil {
		return OpenResult{Success: false, URL: target, Error: err.Error()}
	}

	if err := c.ActivateTab(tab.ID); err != nil {
		log.Printf("⚠️ Could not activate tab: %v", err)
	}

	//give Chrome a beat to bring the window forward
	time.Sleep(200 * time.Millisecond)

	return OpenResult{Success: true, Action: action, TabID: tab.ID, URL: target}
}
