package research

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"

	"github.com/channelchangers/intelextract/internal/fetch"
	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/types"
)

type stubSearcher struct {
	items   []*customsearch.Result
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, num int64) ([]*customsearch.Result, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubClient struct {
	response string
	err      error
	prompts  []string
}

func (s *stubClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, tier llm.ModelTier) (string, error) {
	return s.GenerateContent(ctx, prompt, tier)
}

func (s *stubClient) StartChat(systemInstruction string, tier llm.ModelTier) (llm.ChatSession, error) {
	return nil, errors.New("not supported")
}

func (s *stubClient) GetModel(tier llm.ModelTier) string { return "stub" }

func (s *stubClient) Close() error { return nil }

func newTestResearcher(search searcher, client llm.Client) *Researcher {
	return &Researcher{
		search: search,
		client: client,
		opts:   fetch.DefaultOptions(),
		log:    zap.NewNop(),
	}
}

func searchItem(title, link, snippet string) *customsearch.Result {
	return &customsearch.Result{Title: title, Link: link, Snippet: snippet}
}

func TestGroundLink(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><article><p>Quarterly revenue grew forty percent.</p></article></body></html>"))
	}))
	defer page.Close()

	search := &stubSearcher{items: []*customsearch.Result{
		searchItem("Earnings Call", page.URL, "Q3 results discussion"),
		searchItem("Press Release", "https://example.com/pr", "official announcement"),
	}}
	client := &stubClient{response: "  The video covers the quarterly earnings call.  \n"}
	r := newTestResearcher(search, client)

	grounding, err := r.GroundLink(context.Background(), page.URL)
	require.NoError(t, err)

	assert.Equal(t, "The video covers the quarterly earnings call.", grounding.Context)
	require.Len(t, grounding.Sources, 2)
	assert.Equal(t, "https://example.com/pr", grounding.Sources[1].URI)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Q3 results discussion")
	assert.Contains(t, client.prompts[0], "Quarterly revenue grew forty percent.")
}

func TestGroundLink_PageUnreachable(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	search := &stubSearcher{items: []*customsearch.Result{
		searchItem("Earnings Call", "https://example.com/call", "Q3 results discussion"),
	}}
	client := &stubClient{response: "synthesis from snippets"}
	r := newTestResearcher(search, client)

	grounding, err := r.GroundLink(context.Background(), dead.URL)
	require.NoError(t, err, "page fetch is best-effort")

	assert.Equal(t, "synthesis from snippets", grounding.Context)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "(page content unavailable)")
}

func TestGroundLink_SearchFailure(t *testing.T) {
	search := &stubSearcher{err: errors.New("quota exceeded")}
	r := newTestResearcher(search, &stubClient{})

	_, err := r.GroundLink(context.Background(), "https://youtu.be/abc")

	var researchErr *ResearchError
	require.ErrorAs(t, err, &researchErr)
	assert.Contains(t, researchErr.Message, "link search failed")
}

func TestOfficialDocs(t *testing.T) {
	search := &stubSearcher{items: []*customsearch.Result{
		searchItem("Platform Docs", "https://docs.example.com", "reference"),
	}}
	r := newTestResearcher(search, &stubClient{})

	docs := r.OfficialDocs(context.Background(), "Agent Platform", "AI Video")

	require.Len(t, docs, 1)
	assert.Equal(t, "https://docs.example.com", docs[0].URI)
	require.Len(t, search.queries, 1)
	assert.Contains(t, search.queries[0], "official documentation")
}

func TestOfficialDocs_FailureReturnsNil(t *testing.T) {
	r := newTestResearcher(&stubSearcher{err: errors.New("timeout")}, &stubClient{})

	assert.Nil(t, r.OfficialDocs(context.Background(), "Agent Platform", "AI Video"))
}

func TestDeepResearch(t *testing.T) {
	search := &stubSearcher{items: []*customsearch.Result{
		searchItem("Market Report", "https://example.com/report", "segment growing fast"),
	}}
	client := &stubClient{response: "## Market Overview\n\nThe segment is growing.\n"}
	r := newTestResearcher(search, client)

	report, err := r.DeepResearch(context.Background(), types.DefaultCompanyProfile(), "AI video market")
	require.NoError(t, err)

	assert.Equal(t, "## Market Overview\n\nThe segment is growing.", report)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Channel Changers")
	assert.Contains(t, client.prompts[0], "segment growing fast")
}

func TestDeepResearch_NoSearchResults(t *testing.T) {
	client := &stubClient{}
	r := newTestResearcher(&stubSearcher{}, client)

	report, err := r.DeepResearch(context.Background(), types.DefaultCompanyProfile(), "obscure topic")
	require.NoError(t, err)

	assert.Equal(t, NoFindings, report)
	assert.Empty(t, client.prompts, "nothing to synthesize without findings")
}

func TestDeepResearch_EmptySynthesis(t *testing.T) {
	search := &stubSearcher{items: []*customsearch.Result{
		searchItem("Market Report", "https://example.com/report", "snippet"),
	}}
	r := newTestResearcher(search, &stubClient{response: "  \n"})

	report, err := r.DeepResearch(context.Background(), types.DefaultCompanyProfile(), "AI video market")
	require.NoError(t, err)
	assert.Equal(t, NoFindings, report)
}

func TestDeepResearch_EmptyQuery(t *testing.T) {
	r := newTestResearcher(&stubSearcher{}, &stubClient{})

	_, err := r.DeepResearch(context.Background(), types.DefaultCompanyProfile(), "   ")

	var researchErr *ResearchError
	require.ErrorAs(t, err, &researchErr)
}

func TestResearchError_Format(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &ResearchError{Message: "link search failed", Cause: cause}

	assert.Contains(t, err.Error(), "link search failed")
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestResearchError_NoCause(t *testing.T) {
	err := &ResearchError{Message: "research query is empty"}

	assert.Equal(t, "research error: research query is empty", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
