package types

import "time"

// HighRelevanceThreshold is the strategic alignment score above which a
// result is flagged high relevance. A score of exactly 70 is not high
// relevance; 71 is.
const HighRelevanceThreshold = 70

// StrategicAlignment scores how well a piece of intelligence lines up with
// the tenant's stated goals, with narrative context for both directions.
type StrategicAlignment struct {
	Score            int    `json:"score"` // 0-100
	AccelerationPath string `json:"accelerationPath"`
	ThreatAssessment string `json:"threatAssessment"`
}

// HighRelevance reports whether the alignment score crosses the high
// relevance threshold. A nil alignment is never high relevance.
func (a *StrategicAlignment) HighRelevance() bool {
	if a == nil {
		return false
	}
	return a.Score > HighRelevanceThreshold
}

// GroundingSource is one citation returned from a web-grounded call.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// GlossaryEntry defines a domain term surfaced during extraction.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// StudySuggestion is a follow-up study topic proposed by the model.
type StudySuggestion struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// VisualMarker flags a visually significant moment in the source material.
type VisualMarker struct {
	Timestamp    string `json:"timestamp,omitempty"`
	Description  string `json:"description"`
	Significance string `json:"significance"`
}

// ClientRelevanceScore estimates how pertinent a result is to one named client.
type ClientRelevanceScore struct {
	ClientName string `json:"clientName"`
	Score      int    `json:"score"` // 0-100
	Reasoning  string `json:"reasoning"`
}

// LuckySuggestion is a speculative product idea derived from the content.
type LuckySuggestion struct {
	AppIdea         string `json:"appIdea"`
	MarketPotential string `json:"marketPotential"`
}

// AnalysisResult is the unit of stored intelligence: the library "pod".
// ID and Timestamp are set at creation and never change. Enrichment
// operations (critique, automation, research) mutate the record in place;
// deletion always removes the whole record.
type AnalysisResult struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Summary  string `json:"summary"`

	KeyInsights           []string               `json:"keyInsights,omitempty"`
	ActionItems           []string               `json:"actionItems,omitempty"`
	HookBank              []string               `json:"hookBank,omitempty"`
	QuotableMoments       []string               `json:"quotableMoments,omitempty"`
	StrategicAlignment    *StrategicAlignment    `json:"strategicAlignment,omitempty"`
	StudySuggestions      []StudySuggestion      `json:"studySuggestions,omitempty"`
	VisualIntel           []VisualMarker         `json:"visualIntel,omitempty"`
	Glossary              []GlossaryEntry        `json:"glossary,omitempty"`
	ClientRelevanceScores []ClientRelevanceScore `json:"clientRelevanceScores,omitempty"`
	LuckySuggestion       *LuckySuggestion       `json:"luckySuggestion,omitempty"`
	OfficialDocs          []GroundingSource      `json:"officialDocs,omitempty"`

	Transcript string    `json:"transcript"`
	SourceURL  string    `json:"sourceUrl,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	Rating               int    `json:"rating,omitempty"` // 1-5
	FeedbackNote         string `json:"feedbackNote,omitempty"`
	IsHighRelevance      bool   `json:"isHighRelevance"`
	DeepResearchMarkdown string `json:"deepResearchMarkdown,omitempty"`

	AutomationHistory []AutomationTask  `json:"automationHistory,omitempty"`
	TacticalCritique  *TacticalCritique `json:"tacticalCritique,omitempty"`

	// VoiceDNA is populated only by voice extraction runs; standard and
	// competitor runs populate the intelligence fields above instead.
	VoiceDNA *VoiceProfile `json:"voiceDna,omitempty"`
}

// TopClient returns the name of the highest-scoring client in the
// relevance scores, or the empty string if none were scored. Callers
// choose their own fallback ("Internal" for automation, "Global" for chat).
func (r *AnalysisResult) TopClient() string {
	best := ""
	bestScore := -1
	for _, s := range r.ClientRelevanceScores {
		if s.Score > bestScore {
			best = s.ClientName
			bestScore = s.Score
		}
	}
	return best
}

// AnalysisStage tracks a request's progress through the extraction flow.
type AnalysisStage string

// Analysis stages, in order of progression.
const (
	StageIdle         AnalysisStage = "IDLE"
	StageExtracting   AnalysisStage = "EXTRACTING"
	StageSearching    AnalysisStage = "SEARCHING"
	StageDeepResearch AnalysisStage = "DEEP_RESEARCH"
	StageCompleted    AnalysisStage = "COMPLETED"
	StageError        AnalysisStage = "ERROR"
)
