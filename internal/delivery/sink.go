package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"go-updash-automation/internal/scraper"
)

// Sink hands extracted batches to the dashboard backend. Delivery is
// strictly best-effort: the scraping process is invoked by that same
// backend, which must never see a process crash for a transient network
// blip, so every failure path degrades to a reported, zero-delivered
// result.
type Sink struct {
	endpoint string
	client   *http.Client
}

// Result reports what happened to one batch. Err is a reason string, not
// an error: delivery failure is an outcome, not a fault.
type Result struct {
	Delivered int    `json:"delivered"`
	Err       string `json:"error,omitempty"`
}

type payload struct {
	Records   []scraper.Record `json:"records"`
	PageInfo  scraper.PageInfo `json:"pageInfo"`
	Timestamp string           `json:"timestamp"`
}

type saveResponse struct {
	Success bool `json:"success"`
	Data    struct {
		SavedMessages int `json:"saved_messages"`
	} `json:"data"`
}

func NewSink(apiBase string) *Sink {
	return &Sink{
		endpoint: strings.TrimRight(apiBase, "/") + "/api/upwork-messages/save-messages/",
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Deliver posts the batch. It never returns an error and never panics;
// the caller keeps the extracted records either way.
func (s *Sink) Deliver(batch scraper.Batch) Result {
	body, err := json.Marshal(payload{
		Records:   batch.Records,
		PageInfo:  batch.PageInfo,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Result{Err: fmt.Sprintf("marshal batch: %v", err)}
	}

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️ Delivery failed: %v", err)
		return Result{Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		reason := fmt.Sprintf("delivery API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		log.Printf("⚠️ %s", reason)
		return Result{Err: reason}
	}

	//the backend reports how many records it actually persisted; fall
	//back to the batch size when the response is unparseable
	delivered := len(batch.Records)
	var parsed saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil && parsed.Data.SavedMessages > 0 {
		delivered = parsed.Data.SavedMessages
	}

	log.Printf("✅ Delivered %d records to dashboard API", delivered)
	return Result{Delivered: delivered}
}
