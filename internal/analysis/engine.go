// Package analysis implements the intelligence extraction engine: prompt
// construction, web grounding for link inputs, schema-constrained model
// calls, and strict decoding into analysis results.
package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/types"
)

// Grounding is the output of a web-grounding sub-call for a link input.
type Grounding struct {
	Context string
	Sources []types.GroundingSource
}

// Grounder supplies web-grounded context and citations. OfficialDocs is
// best-effort: implementations return an empty slice instead of an error.
type Grounder interface {
	GroundLink(ctx context.Context, link string) (*Grounding, error)
	OfficialDocs(ctx context.Context, title, industry string) []types.GroundingSource
}

// Engine runs analysis requests against the generative model.
type Engine struct {
	client   llm.Client
	grounder Grounder
	log      *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine creates an analysis engine. The grounder may be nil, in which
// case link inputs fail with an ExtractionError.
func NewEngine(client llm.Client, grounder Grounder, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		client:   client,
		grounder: grounder,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Analyze runs one extraction: classify the input, ground it if
// link-shaped, invoke the model with the mode's schema, strictly decode,
// and assemble the final result. Any model or decode failure surfaces as
// an *ExtractionError; there is never a partial result.
func (e *Engine) Analyze(ctx context.Context, input string, profile *types.CompanyProfile, mode Mode) (*types.AnalysisResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &ExtractionError{Message: "input is empty"}
	}
	if profile == nil {
		return nil, &ExtractionError{Message: "company profile is required"}
	}

	isLink := IsLink(input)
	groundedContext := input
	var citations []types.GroundingSource

	if isLink {
		if e.grounder == nil {
			return nil, &ExtractionError{Message: "link input requires a configured grounder"}
		}
		e.log.Debug("analysis stage", zap.String("stage", string(types.StageSearching)))
		grounding, err := e.grounder.GroundLink(ctx, input)
		if err != nil {
			return nil, &ExtractionError{Message: "grounding call failed", Cause: err}
		}
		groundedContext = "Original Link: " + input +
			"\n\nVerified Content Details from Web Search:\n" + grounding.Context
		citations = grounding.Sources
	}

	prompt := mode.Prompt(profile, groundedContext)

	e.log.Debug("analysis stage", zap.String("stage", string(types.StageExtracting)))
	raw, err := e.client.GenerateJSON(ctx, prompt, mode.Schema(), llm.TierStandard)
	if err != nil {
		return nil, &ExtractionError{Message: "model call failed", Cause: err}
	}

	result, err := mode.Decode([]byte(llm.CleanJSONBlock(raw)))
	if err != nil {
		return nil, &ExtractionError{Message: "response failed strict decode", Cause: err}
	}

	// Authoritative reference lookup is best-effort enrichment: a failure
	// yields an empty list, never an error.
	if !mode.VoiceExtraction() && e.grounder != nil {
		docs := e.grounder.OfficialDocs(ctx, result.Title, profile.Industry)
		result.OfficialDocs = mergeSources(citations, docs)
	}

	result.ID = e.newID()
	if result.Category == "" {
		result.Category = mode.DefaultCategory()
	}
	result.Transcript = groundedContext
	if isLink {
		result.SourceURL = input
	}
	result.Timestamp = e.now()
	result.IsHighRelevance = result.StrategicAlignment.HighRelevance()

	e.log.Info("analysis completed",
		zap.String("mode", mode.Name()),
		zap.String("id", result.ID),
		zap.Bool("link", isLink),
		zap.Bool("highRelevance", result.IsHighRelevance))

	return result, nil
}

// mergeSources combines grounding citations with looked-up references,
// deduplicating by URI and keeping first occurrence order.
func mergeSources(groups ...[]types.GroundingSource) []types.GroundingSource {
	seen := make(map[string]bool)
	var merged []types.GroundingSource
	for _, group := range groups {
		for _, s := range group {
			if s.URI == "" || seen[s.URI] {
				continue
			}
			seen[s.URI] = true
			merged = append(merged, s)
		}
	}
	return merged
}
