package delivery

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-updash-automation/internal/scraper"
)

// Snapshots are the durability fallback when the delivery API is down:
// a timestamped JSON file per batch, replayable by the backend later.

type snapshotData struct {
	Records     []scraper.Record `json:"records"`
	PageInfo    scraper.PageInfo `json:"pageInfo"`
	ExtractedAt string           `json:"extractedAt"`
}

// WriteSnapshot saves the batch under dataDir and returns the file path.
// The ISO timestamp has colons and periods replaced for filesystem safety.
func WriteSnapshot(dataDir string, batch scraper.Batch) (string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("could not create data directory: %w", err)
	}

	filename := fmt.Sprintf("upwork_messages_%s.json", safeTimestamp())
	path := filepath.Join(dataDir, filename)

	data, err := json.MarshalIndent(snapshotData{
		Records:     batch.Records,
		PageInfo:    batch.PageInfo,
		ExtractedAt: time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("could not write snapshot: %w", err)
	}

	log.Printf("💾 Snapshot saved to %s", path)
	return path, nil
}

// WriteErrorSnapshot records a failed run so callers can distinguish
// "ran, found nothing" from "could not run at all" after the fact.
func WriteErrorSnapshot(dataDir, reason string) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("⚠️ Could not create data directory: %v", err)
		return
	}

	filename := fmt.Sprintf("upwork_messages_error_%s.json", safeTimestamp())
	empty := snapshotData{
		Records:     []scraper.Record{},
		PageInfo:    scraper.PageInfo{Error: reason},
		ExtractedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(empty, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(filepath.Join(dataDir, filename), data, 0644); err != nil {
		log.Printf("⚠️ Could not save error snapshot: %v", err)
	}
}

func safeTimestamp() string {
	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.ReplaceAll(ts, ":", "-")
	return strings.ReplaceAll(ts, ".", "-")
}
