package analysis

import (
	"encoding/json"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/channelchangers/intelextract/internal/prompts"
	"github.com/channelchangers/intelextract/internal/schemas"
	"github.com/channelchangers/intelextract/internal/types"
)

// Mode selects the extraction behavior for one analysis run. Each mode
// carries its own prompt builder, structured-output schema, and decoder,
// so the standard and voice paths cannot leak fields into each other.
type Mode interface {
	// Name is a short identifier used in logs and CLI output.
	Name() string
	// DefaultCategory is used when the model omits a category.
	DefaultCategory() string
	// VoiceExtraction reports whether this mode produces a voice profile
	// instead of the standard intelligence fields.
	VoiceExtraction() bool
	// Prompt builds the full extraction prompt for a profile and content.
	Prompt(profile *types.CompanyProfile, content string) string
	// Schema is the provider-side structured-output constraint.
	Schema() *genai.Schema
	// Decode validates and decodes a model response into a partial result
	// (identity, transcript, and timestamp are assembled by the engine).
	Decode(data []byte) (*types.AnalysisResult, error)
}

// The three analysis modes.
var (
	Standard   Mode = extractionMode{name: "standard", category: "Strategy", promptKey: "standard-extraction"}
	Competitor Mode = extractionMode{name: "competitor", category: "Market Research", promptKey: "competitor-extraction"}
	VoiceDNA   Mode = voiceMode{}
)

// ModeFor maps the two request flags onto a Mode. Voice extraction wins
// when both are set, matching the upstream UI's mutual exclusion.
func ModeFor(competitor, voiceDNA bool) Mode {
	if voiceDNA {
		return VoiceDNA
	}
	if competitor {
		return Competitor
	}
	return Standard
}

// clientRoster renders the client list for prompt injection.
func clientRoster(profile *types.CompanyProfile) string {
	if len(profile.ClientProfiles) == 0 {
		return "none configured"
	}
	entries := make([]string, len(profile.ClientProfiles))
	for i, c := range profile.ClientProfiles {
		entries[i] = c.Name + " (" + c.Industry + ")"
	}
	return strings.Join(entries, ", ")
}

// extractionMode covers the standard and competitor paths, which share a
// schema and differ only in prompt framing and default category.
type extractionMode struct {
	name      string
	category  string
	promptKey string
}

func (m extractionMode) Name() string            { return m.name }
func (m extractionMode) DefaultCategory() string { return m.category }
func (m extractionMode) VoiceExtraction() bool   { return false }

func (m extractionMode) Prompt(profile *types.CompanyProfile, content string) string {
	template := prompts.MustGet("analysis.json", m.promptKey)
	return prompts.Format(template, map[string]string{
		"Company":  profile.Name,
		"Goals":    profile.Goals,
		"Industry": profile.Industry,
		"Clients":  clientRoster(profile),
		"Content":  content,
	})
}

func (m extractionMode) Schema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"category":    {Type: genai.TypeString},
			"summary":     {Type: genai.TypeString},
			"keyInsights": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"actionItems": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"hookBank":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"strategicAlignment": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"score":            {Type: genai.TypeNumber},
					"accelerationPath": {Type: genai.TypeString},
					"threatAssessment": {Type: genai.TypeString},
				},
				Required: []string{"score", "accelerationPath", "threatAssessment"},
			},
			"studySuggestions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic":       {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"topic", "description"},
				},
			},
			"visualIntel": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"timestamp":    {Type: genai.TypeString},
						"description":  {Type: genai.TypeString},
						"significance": {Type: genai.TypeString},
					},
					Required: []string{"description", "significance"},
				},
			},
			"glossary": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"term":       {Type: genai.TypeString},
						"definition": {Type: genai.TypeString},
					},
					Required: []string{"term", "definition"},
				},
			},
			"clientRelevanceScores": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"clientName": {Type: genai.TypeString},
						"score":      {Type: genai.TypeNumber},
						"reasoning":  {Type: genai.TypeString},
					},
					Required: []string{"clientName", "score", "reasoning"},
				},
			},
			"luckySuggestion": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"appIdea":         {Type: genai.TypeString},
					"marketPotential": {Type: genai.TypeString},
				},
				Required: []string{"appIdea", "marketPotential"},
			},
		},
		Required: []string{
			"title", "summary", "keyInsights", "strategicAlignment",
			"visualIntel", "clientRelevanceScores", "luckySuggestion", "studySuggestions",
		},
	}
}

// standardPayload mirrors the standard extraction schema.
type standardPayload struct {
	Title                 string                       `json:"title"`
	Category              string                       `json:"category"`
	Summary               string                       `json:"summary"`
	KeyInsights           []string                     `json:"keyInsights"`
	ActionItems           []string                     `json:"actionItems"`
	HookBank              []string                     `json:"hookBank"`
	StrategicAlignment    *types.StrategicAlignment    `json:"strategicAlignment"`
	StudySuggestions      []types.StudySuggestion      `json:"studySuggestions"`
	VisualIntel           []types.VisualMarker         `json:"visualIntel"`
	Glossary              []types.GlossaryEntry        `json:"glossary"`
	ClientRelevanceScores []types.ClientRelevanceScore `json:"clientRelevanceScores"`
	LuckySuggestion       *types.LuckySuggestion       `json:"luckySuggestion"`
}

func (m extractionMode) Decode(data []byte) (*types.AnalysisResult, error) {
	if err := schemas.Validate(schemas.AnalysisStandard, data); err != nil {
		return nil, err
	}

	var payload standardPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	return &types.AnalysisResult{
		Title:                 payload.Title,
		Category:              payload.Category,
		Summary:               payload.Summary,
		KeyInsights:           payload.KeyInsights,
		ActionItems:           payload.ActionItems,
		HookBank:              payload.HookBank,
		StrategicAlignment:    payload.StrategicAlignment,
		StudySuggestions:      payload.StudySuggestions,
		VisualIntel:           payload.VisualIntel,
		Glossary:              payload.Glossary,
		ClientRelevanceScores: payload.ClientRelevanceScores,
		LuckySuggestion:       payload.LuckySuggestion,
	}, nil
}

// voiceMode extracts a voice profile; it never populates the standard
// intelligence fields.
type voiceMode struct{}

func (voiceMode) Name() string            { return "voice-dna" }
func (voiceMode) DefaultCategory() string { return "Voice DNA" }
func (voiceMode) VoiceExtraction() bool   { return true }

func (voiceMode) Prompt(profile *types.CompanyProfile, content string) string {
	template := prompts.MustGet("analysis.json", "voice-dna-extraction")
	return prompts.Format(template, map[string]string{
		"Company": profile.Name,
		"Goals":   profile.Goals,
		"Content": content,
	})
}

func (voiceMode) Schema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":    {Type: genai.TypeString},
			"category": {Type: genai.TypeString},
			"summary":  {Type: genai.TypeString},
			"voiceDna": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"signaturePhrases":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"sentenceStructures": {Type: genai.TypeString},
					"hookStyles":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"vocabulary":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"antiPatterns":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"signaturePhrases", "sentenceStructures", "hookStyles", "vocabulary", "antiPatterns"},
			},
		},
		Required: []string{"title", "summary", "voiceDna"},
	}
}

// voicePayload mirrors the voice extraction schema.
type voicePayload struct {
	Title    string              `json:"title"`
	Category string              `json:"category"`
	Summary  string              `json:"summary"`
	VoiceDNA *types.VoiceProfile `json:"voiceDna"`
}

func (voiceMode) Decode(data []byte) (*types.AnalysisResult, error) {
	if err := schemas.Validate(schemas.AnalysisVoice, data); err != nil {
		return nil, err
	}

	var payload voicePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	return &types.AnalysisResult{
		Title:    payload.Title,
		Category: payload.Category,
		Summary:  payload.Summary,
		VoiceDNA: payload.VoiceDNA,
	}, nil
}
