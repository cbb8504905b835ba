package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type seenEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// SeenCache remembers record ids across polling runs so repeated
// extraction of an unchanged page reports zero new records.
type SeenCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewSeenCache creates or loads the seen-record cache
func NewSeenCache(cacheDir string) *SeenCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &SeenCache{
		filePath: filepath.Join(cacheDir, "seen_records.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// IsSeen checks if a record id has already been processed
func (sc *SeenCache) IsSeen(id string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	_, exists := sc.seen[id]
	return exists
}

func (sc *SeenCache) Add(ids []string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, id := range ids {
		if _, exists := sc.seen[id]; !exists {
			sc.seen[id] = now
			changed = true
		}
	}

	if changed {
		sc.save()
	}
}

// load reads the cache from disk, dropping entries older than 30 days
func (sc *SeenCache) load() {
	data, err := os.ReadFile(sc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_records.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_records.json: %v", err)
		return
	}

	thirtyDaysAgo := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > thirtyDaysAgo {
			sc.seen[e.ID] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen records (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk
func (sc *SeenCache) save() {
	entries := make([]seenEntry, 0, len(sc.seen))
	for id, ts := range sc.seen {
		entries = append(entries, seenEntry{ID: id, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen records: %v", err)
		return
	}
	if err := os.WriteFile(sc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_records.json: %v", err)
	}
}
