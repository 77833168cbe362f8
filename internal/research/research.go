// Package research handles external web lookups: grounding link inputs,
// finding authoritative references, and on-demand deep research reports.
package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/channelchangers/intelextract/internal/analysis"
	"github.com/channelchangers/intelextract/internal/fetch"
	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/prompts"
	"github.com/channelchangers/intelextract/internal/types"
)

// NoFindings is returned by DeepResearch when the model produces nothing
// usable. Callers store it verbatim.
const NoFindings = "No research findings available."

// ResearchError wraps failures in the research flow.
type ResearchError struct {
	Message string
	Cause   error
}

func (e *ResearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("research error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("research error: %s", e.Message)
}

func (e *ResearchError) Unwrap() error {
	return e.Cause
}

// searcher abstracts the web search backend so the synthesis paths stay
// testable without network access.
type searcher interface {
	Search(ctx context.Context, query string, num int64) ([]*customsearch.Result, error)
}

// cseSearcher runs queries through the Google custom search API.
type cseSearcher struct {
	svc *customsearch.Service
	cx  string
}

func (s *cseSearcher) Search(ctx context.Context, query string, num int64) ([]*customsearch.Result, error) {
	resp, err := s.svc.Cse.List().Cx(s.cx).Q(query).Num(num).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Researcher handles web search and model-synthesized research. It
// implements the grounding interface the analysis engine depends on.
type Researcher struct {
	search searcher
	client llm.Client
	opts   *fetch.Options
	log    *zap.Logger
}

// NewResearcher creates a Researcher backed by the custom search API.
func NewResearcher(ctx context.Context, apiKey, cx string, client llm.Client, log *zap.Logger) (*Researcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Researcher{
		search: &cseSearcher{svc: svc, cx: cx},
		client: client,
		opts:   fetch.DefaultOptions(),
		log:    log,
	}, nil
}

// GroundLink resolves a link input into verified textual context plus
// citations. It searches for the link, fetches the page where possible,
// and has the model synthesize the findings into analyzable prose.
func (r *Researcher) GroundLink(ctx context.Context, link string) (*analysis.Grounding, error) {
	items, err := r.search.Search(ctx, link, 5)
	if err != nil {
		return nil, &ResearchError{Message: "link search failed", Cause: err}
	}

	sources := make([]types.GroundingSource, 0, len(items))
	var results strings.Builder
	for _, item := range items {
		sources = append(sources, types.GroundingSource{Title: item.Title, URI: item.Link})
		fmt.Fprintf(&results, "- %s (%s): %s\n", item.Title, item.Link, item.Snippet)
	}

	// Page fetch is best-effort: video hosts and paywalled pages often
	// yield nothing useful, and the search snippets still carry signal.
	pageText, err := fetch.PageText(ctx, link, r.opts)
	if err != nil {
		r.log.Debug("page fetch failed during grounding",
			zap.String("link", link), zap.Error(err))
		pageText = "(page content unavailable)"
	}

	prompt := prompts.Format(prompts.MustGet("research.json", "ground-link"), map[string]string{
		"Link":     link,
		"Results":  results.String(),
		"PageText": pageText,
	})

	synthesis, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ResearchError{Message: "grounding synthesis failed", Cause: err}
	}

	return &analysis.Grounding{
		Context: strings.TrimSpace(synthesis),
		Sources: sources,
	}, nil
}

// OfficialDocs looks up authoritative references for an analyzed topic.
// It is strictly best-effort: any failure returns an empty slice.
func (r *Researcher) OfficialDocs(ctx context.Context, title, industry string) []types.GroundingSource {
	query := fmt.Sprintf("%q %s official documentation", title, industry)
	items, err := r.search.Search(ctx, query, 4)
	if err != nil {
		r.log.Debug("reference lookup failed",
			zap.String("title", title), zap.Error(err))
		return nil
	}

	docs := make([]types.GroundingSource, 0, len(items))
	for _, item := range items {
		docs = append(docs, types.GroundingSource{Title: item.Title, URI: item.Link})
	}
	return docs
}

// DeepResearch produces a Markdown research report on a stored result's
// topic, grounded in fresh web findings. An empty synthesis yields the
// NoFindings placeholder; only transport failures surface as errors.
func (r *Researcher) DeepResearch(ctx context.Context, profile *types.CompanyProfile, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", &ResearchError{Message: "research query is empty"}
	}

	items, err := r.search.Search(ctx, query, 5)
	if err != nil {
		return "", &ResearchError{Message: "research search failed", Cause: err}
	}

	var findings strings.Builder
	for _, item := range items {
		fmt.Fprintf(&findings, "### %s\nSource: %s\n%s\n\n", item.Title, item.Link, item.Snippet)
	}
	if findings.Len() == 0 {
		return NoFindings, nil
	}

	prompt := prompts.Format(prompts.MustGet("research.json", "deep-research"), map[string]string{
		"Company":  profile.Name,
		"Industry": profile.Industry,
		"Query":    query,
		"Findings": findings.String(),
	})

	report, err := r.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &ResearchError{Message: "research synthesis failed", Cause: err}
	}

	report = strings.TrimSpace(report)
	if report == "" {
		return NoFindings, nil
	}
	return report, nil
}
