package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeenCache_AddAndCheck(t *testing.T) {
	dir := t.TempDir()
	cache := NewSeenCache(dir)

	assert.False(t, cache.IsSeen("msg_abc_0"))

	cache.Add([]string{"msg_abc_0", "msg_def_1"})
	assert.True(t, cache.IsSeen("msg_abc_0"))
	assert.True(t, cache.IsSeen("msg_def_1"))
	assert.False(t, cache.IsSeen("msg_ghi_2"))
}

func TestSeenCache_PersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()

	cache := NewSeenCache(dir)
	cache.Add([]string{"upwork_room_17"})

	reloaded := NewSeenCache(dir)
	assert.True(t, reloaded.IsSeen("upwork_room_17"))
}

func TestSeenCache_ExpiresOldEntries(t *testing.T) {
	dir := t.TempDir()

	old := time.Now().UnixMilli() - thirtyDaysMs - 1000
	fresh := time.Now().UnixMilli()
	entries := []seenEntry{
		{ID: "stale", Timestamp: old},
		{ID: "recent", Timestamp: fresh},
	}
	data, err := json.Marshal(entries)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "seen_records.json"), data, 0644))

	cache := NewSeenCache(dir)
	assert.False(t, cache.IsSeen("stale"))
	assert.True(t, cache.IsSeen("recent"))
}

func TestSeenCache_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "seen_records.json"), []byte("not json"), 0644))

	cache := NewSeenCache(dir)
	assert.False(t, cache.IsSeen("anything"))
}
