package mirror

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/channelchangers/intelextract/internal/types"
)

func TestBuildRecord_ClientTags(t *testing.T) {
	result := &types.AnalysisResult{
		Title:     "Pricing Strategy Shift",
		SourceURL: "https://example.com/talk",
		Summary:   "summary",
		Category:  "Strategy",
		StrategicAlignment: &types.StrategicAlignment{Score: 85},
		ClientRelevanceScores: []types.ClientRelevanceScore{
			{ClientName: "Darwinium", Score: 80},
			{ClientName: "EY", Score: 50},
			{ClientName: "Botivo", Score: 51},
		},
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	record := BuildRecord("tenant-1", result)

	assert.Equal(t, "tenant-1", record.TenantID)
	assert.Equal(t, 85, record.RelevanceScore)
	assert.Equal(t, []string{"Darwinium", "Botivo"}, record.ClientTags,
		"only scores above 50 are tagged")
	assert.Equal(t, "https://example.com/talk", record.SourceURL)
}

func TestBuildRecord_RawInputFallback(t *testing.T) {
	record := BuildRecord("tenant-1", &types.AnalysisResult{Title: "Memo"})

	assert.Equal(t, "raw_input", record.SourceURL)
	assert.Zero(t, record.RelevanceScore)
	assert.Empty(t, record.ClientTags)
}
