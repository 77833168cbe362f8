// Package critique runs the advisory board pass: a schema-constrained
// model call that surfaces blind spots, risks, and growth levers for a
// stored analysis result.
package critique

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/prompts"
	"github.com/channelchangers/intelextract/internal/schemas"
	"github.com/channelchangers/intelextract/internal/types"
)

// maxContextInsights caps how many key insights are injected into the
// critique prompt. The full transcript is deliberately excluded.
const maxContextInsights = 5

// CritiqueError wraps failures in the critique flow.
type CritiqueError struct {
	Message string
	Cause   error
}

func (e *CritiqueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("critique error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("critique error: %s", e.Message)
}

func (e *CritiqueError) Unwrap() error {
	return e.Cause
}

// Critic runs tactical critiques against stored results.
type Critic struct {
	client llm.Client
	log    *zap.Logger
}

// NewCritic creates a Critic.
func NewCritic(client llm.Client, log *zap.Logger) *Critic {
	if log == nil {
		log = zap.NewNop()
	}
	return &Critic{client: client, log: log}
}

// Critique produces a tactical critique of one result. The critique is
// returned for the caller to merge into the stored record; a failure
// leaves the record untouched.
func (c *Critic) Critique(ctx context.Context, profile *types.CompanyProfile, result *types.AnalysisResult) (*types.TacticalCritique, error) {
	if result == nil {
		return nil, &CritiqueError{Message: "no result to critique"}
	}

	prompt := prompts.Format(prompts.MustGet("critique.json", "tactical-critique"), map[string]string{
		"Company":  profile.Name,
		"Industry": profile.Industry,
		"Context":  buildContext(result),
	})

	raw, err := c.client.GenerateJSON(ctx, prompt, critiqueSchema(), llm.TierAdvanced)
	if err != nil {
		return nil, &CritiqueError{Message: "model call failed", Cause: err}
	}

	data := []byte(llm.CleanJSONBlock(raw))
	if err := schemas.Validate(schemas.Critique, data); err != nil {
		return nil, &CritiqueError{Message: "response failed strict decode", Cause: err}
	}

	var critique types.TacticalCritique
	if err := json.Unmarshal(data, &critique); err != nil {
		return nil, &CritiqueError{Message: "response failed strict decode", Cause: err}
	}

	c.log.Info("critique completed",
		zap.String("id", result.ID),
		zap.Int("advisors", len(critique.Advisors)))

	return &critique, nil
}

// buildContext renders the compact result context handed to the model:
// title, summary, and the leading insights.
func buildContext(result *types.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nSummary: %s\n", result.Title, result.Summary)
	if len(result.KeyInsights) > 0 {
		b.WriteString("Key Insights:\n")
		insights := result.KeyInsights
		if len(insights) > maxContextInsights {
			insights = insights[:maxContextInsights]
		}
		for _, insight := range insights {
			fmt.Fprintf(&b, "- %s\n", insight)
		}
	}
	if result.StrategicAlignment != nil {
		fmt.Fprintf(&b, "Alignment Score: %d\n", result.StrategicAlignment.Score)
	}
	return b.String()
}

func critiqueSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"blindSpots":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"hiddenRisks":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"growthLevers": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"advisors": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"persona":  {Type: genai.TypeString},
						"critique": {Type: genai.TypeString},
						"priority": {Type: genai.TypeString, Enum: []string{"low", "medium", "high"}},
					},
					Required: []string{"persona", "critique", "priority"},
				},
			},
		},
		Required: []string{"blindSpots", "hiddenRisks", "growthLevers", "advisors"},
	}
}
