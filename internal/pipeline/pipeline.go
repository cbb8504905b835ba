// Run orchestration: one invocation = one linear pass of
// probe → connect → pick tab → extract → dedup → deliver.

package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-updash-automation/internal/browser"
	"go-updash-automation/internal/config"
	"go-updash-automation/internal/dedup"
	"go-updash-automation/internal/delivery"
	"go-updash-automation/internal/scraper"
	"go-updash-automation/internal/scraper/activechat"
	"go-updash-automation/internal/scraper/jobs"
	"go-updash-automation/internal/scraper/messages"
)

// Non-fatal outcome reasons. These complete the run with an empty record
// set so callers can tell "nothing to scrape right now" from "broken".
const (
	ReasonNoTarget        = "no target tab found"
	ReasonExtractionEmpty = "no records passed extraction filters"
)

// TabSource is the slice of a browser session the pipeline needs; tests
// substitute a fake so no real browser is involved.
type TabSource interface {
	Tabs() []browser.Tab
	Disconnect()
}

// Connector establishes the session for one run.
type Connector func(ctx context.Context) (TabSource, error)

// Deliverer hands a batch to the persistence API.
type Deliverer interface {
	Deliver(batch scraper.Batch) delivery.Result
}

// SeenStore tracks record ids across runs.
type SeenStore interface {
	IsSeen(id string) bool
	Add(ids []string)
}

// Notifier pushes newly seen records somewhere a human will look.
type Notifier interface {
	SendRecord(rec scraper.Record) error
}

// RunResult is the structured payload every run ends with, fatal or not.
type RunResult struct {
	Mode         string           `json:"mode"`
	Records      []scraper.Record `json:"records"`
	PageInfo     scraper.PageInfo `json:"pageInfo"`
	Participants []string         `json:"participants,omitempty"`
	NewRecords   int              `json:"new_records"`
	Delivered    int              `json:"delivered"`
	Error        string           `json:"error,omitempty"`
}

type Runner struct {
	cfg      *config.Config
	probe    func(endpoint string) error
	connect  Connector
	scrapers map[string]scraper.Scraper
	sink     Deliverer
	cache    SeenStore
	notifier Notifier
}

// New wires a Runner against the real browser, sink and cache.
func New(cfg *config.Config) *Runner {
	r := &Runner{
		cfg:   cfg,
		probe: browser.Probe,
		connect: func(ctx context.Context) (TabSource, error) {
			return browser.Connect(ctx, cfg.ChromeEndpoint, cfg.ConnectAttempts)
		},
		sink:  delivery.NewSink(cfg.APIBase),
		cache: dedup.NewSeenCache(cfg.CachePath),
	}
	r.scrapers = map[string]scraper.Scraper{}
	for _, sc := range []scraper.Scraper{messages.New(cfg), jobs.New(cfg), activechat.New(cfg)} {
		r.scrapers[sc.Name()] = sc
	}
	return r
}

// WithNotifier attaches an optional notifier for newly seen records.
func (r *Runner) WithNotifier(n Notifier) *Runner {
	r.notifier = n
	return r
}

// Modes lists the available extraction modes.
func (r *Runner) Modes() []string {
	modes := make([]string, 0, len(r.scrapers))
	for name := range r.scrapers {
		modes = append(modes, name)
	}
	return modes
}

// Run executes one batch pass. A returned error means the run could not
// happen at all (unknown mode, unreachable control plane, attach
// exhausted); the RunResult still carries a structured empty payload so
// callers never have to parse a bare failure.
func (r *Runner) Run(ctx context.Context, mode string) (RunResult, error) {
	result := RunResult{Mode: mode, Records: []scraper.Record{}}

	sc, ok := r.scrapers[mode]
	if !ok {
		err := fmt.Errorf("unknown extraction mode %q", mode)
		result.Error = err.Error()
		return result, err
	}

	//cheap reachability probe before committing to the retry cycle
	if err := r.probe(r.cfg.ChromeEndpoint); err != nil {
		log.Printf("❌ Control plane probe failed: %v", err)
		result.Error = err.Error()
		delivery.WriteErrorSnapshot(r.cfg.DataDir, err.Error())
		return result, err
	}

	session, err := r.connect(ctx)
	if err != nil {
		log.Printf("❌ Could not establish session: %v", err)
		result.Error = err.Error()
		delivery.WriteErrorSnapshot(r.cfg.DataDir, err.Error())
		return result, err
	}
	defer session.Disconnect()

	tabs := session.Tabs()
	tab, found := sc.Pick(tabs)
	if !found {
		log.Printf("⚠️ %s (checked %d tabs)", ReasonNoTarget, len(tabs))
		result.Error = ReasonNoTarget
		result.PageInfo = r.pageInfo(browser.Tab{}, mode, 0, ReasonNoTarget)
		return result, nil
	}
	log.Printf("✅ Selected tab: %s", tab.URL)

	startTime := time.Now()
	records, scrapeErr := sc.Scrape(ctx, tab.Page)
	log.Printf("⏱️ Extraction completed in %v", time.Since(startTime).Round(time.Millisecond))

	result.Records = records
	result.Participants = participants(records)
	reason := ""
	if scrapeErr != nil {
		log.Printf("⚠️ Extraction error: %v", scrapeErr)
		reason = scrapeErr.Error()
	} else if len(records) == 0 {
		reason = ReasonExtractionEmpty
	}
	result.PageInfo = r.pageInfo(tab, mode, len(records), reason)
	result.Error = reason

	if len(records) == 0 {
		return result, nil
	}

	//suppress records already persisted by earlier polling runs
	var newIDs []string
	for _, rec := range records {
		if !r.cache.IsSeen(rec.ID) {
			newIDs = append(newIDs, rec.ID)
			r.notify(rec)
		}
	}
	result.NewRecords = len(newIDs)
	log.Printf("🔍 Deduplication: %d total -> %d new records", len(records), len(newIDs))

	batch := scraper.Batch{Records: records, PageInfo: result.PageInfo}
	delivered := r.sink.Deliver(batch)
	result.Delivered = delivered.Delivered
	if delivered.Err != "" {
		//the batch is not lost: keep it in the result and on disk so the
		//orchestrating layer can retry delivery separately
		result.Error = delivered.Err
		if _, err := delivery.WriteSnapshot(r.cfg.DataDir, batch); err != nil {
			log.Printf("⚠️ Snapshot fallback failed: %v", err)
		}
	}

	r.cache.Add(newIDs)
	return result, nil
}

func (r *Runner) pageInfo(tab browser.Tab, mode string, total int, reason string) scraper.PageInfo {
	return scraper.PageInfo{
		URL:       tab.URL,
		Title:     tab.Title,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Total:     total,
		Source:    mode,
		Error:     reason,
	}
}

func (r *Runner) notify(rec scraper.Record) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.SendRecord(rec); err != nil {
		log.Printf("⚠️ Failed to send notification: %v", err)
	}
}

// participants collects the distinct real authors in extraction order.
func participants(records []scraper.Record) []string {
	var out []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Type != "user" || rec.Sender == "" || seen[rec.Sender] {
			continue
		}
		seen[rec.Sender] = true
		out = append(out, rec.Sender)
	}
	return out
}
