package delivery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-updash-automation/internal/scraper"

	"github.com/stretchr/testify/assert"
)

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteSnapshot(dir, sampleBatch())
	assert.NoError(t, err)

	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "upwork_messages_"))
	assert.True(t, strings.HasSuffix(base, ".json"))

	//ISO timestamp must be filesystem safe
	stem := strings.TrimSuffix(base, ".json")
	assert.NotContains(t, stem, ":")
	assert.NotContains(t, stem, ".")

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	var saved struct {
		Records     []scraper.Record `json:"records"`
		ExtractedAt string           `json:"extractedAt"`
	}
	assert.NoError(t, json.Unmarshal(data, &saved))
	assert.Len(t, saved.Records, 2)
	assert.NotEmpty(t, saved.ExtractedAt)
}

func TestWriteErrorSnapshot(t *testing.T) {
	dir := t.TempDir()

	WriteErrorSnapshot(dir, "chrome control plane unavailable")

	files, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Contains(t, files[0].Name(), "upwork_messages_error_")

	data, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	assert.NoError(t, err)

	var saved struct {
		Records  []scraper.Record `json:"records"`
		PageInfo scraper.PageInfo `json:"pageInfo"`
	}
	assert.NoError(t, json.Unmarshal(data, &saved))
	assert.Empty(t, saved.Records)
	assert.Equal(t, "chrome control plane unavailable", saved.PageInfo.Error)
}
