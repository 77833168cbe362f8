package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/channelchangers/intelextract/internal/types"
)

func TestPrintAnalysisResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.AnalysisResult{
		ID:                 "abc12345-0000",
		Title:              "Pricing Strategy Shift",
		Category:           "Strategy",
		IsHighRelevance:    true,
		StrategicAlignment: &types.StrategicAlignment{Score: 85},
		KeyInsights:        []string{"Usage pricing wins", "Entry tier matters"},
		ClientRelevanceScores: []types.ClientRelevanceScore{
			{ClientName: "Darwinium", Score: 80},
		},
	}

	p.PrintAnalysisResult(result)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED INTELLIGENCE")
	assert.Contains(t, output, "Pricing Strategy Shift")
	assert.Contains(t, output, "85/100")
	assert.Contains(t, output, "HIGH RELEVANCE")
	assert.Contains(t, output, "Darwinium")
}

func TestPrintAnalysisResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysisResult(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAnalysisResult_VoiceDNA(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysisResult(&types.AnalysisResult{
		Title: "Founder Voice",
		VoiceDNA: &types.VoiceProfile{
			SignaturePhrases: []string{"here's the thing"},
			HookStyles:       []string{"contrarian opener"},
		},
	})

	assert.Contains(t, buf.String(), "Voice DNA captured")
	assert.Contains(t, buf.String(), "1 signature phrases")
}

func TestPrintCritique(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCritique(&types.TacticalCritique{
		BlindSpots: []string{"No distribution plan"},
		Advisors: []types.BoardAdvisor{
			{Persona: "CFO", Critique: "Margins unclear", Priority: types.PriorityHigh},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "TACTICAL CRITIQUE")
	assert.Contains(t, output, "No distribution plan")
	assert.Contains(t, output, "CFO")
	assert.Contains(t, output, "high")
}

func TestPrintTasks(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTasks([]types.AutomationTask{
		{Type: types.TaskDocs, Status: types.TaskCompleted, Label: "Transcript preserved"},
	})

	assert.Contains(t, buf.String(), "AUTOMATION PIPELINE")
	assert.Contains(t, buf.String(), "Transcript preserved")
}

func TestPrintLibrary_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLibrary(nil)

	assert.Contains(t, buf.String(), "(empty)")
}
