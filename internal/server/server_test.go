package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelchangers/intelextract/internal/analysis"
	"github.com/channelchangers/intelextract/internal/library"
	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/profile"
	"github.com/channelchangers/intelextract/internal/store"
	"github.com/channelchangers/intelextract/internal/types"
	"github.com/channelchangers/intelextract/internal/workspace"
)

type fakeAnalyzer struct {
	result *types.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, input string, p *types.CompanyProfile, mode analysis.Mode) (*types.AnalysisResult, error) {
	return f.result, f.err
}

type fakeCritic struct {
	critique *types.TacticalCritique
	err      error
}

func (f *fakeCritic) Critique(ctx context.Context, p *types.CompanyProfile, result *types.AnalysisResult) (*types.TacticalCritique, error) {
	return f.critique, f.err
}

type fakeResearcher struct {
	report string
	err    error
}

func (f *fakeResearcher) DeepResearch(ctx context.Context, p *types.CompanyProfile, query string) (string, error) {
	return f.report, f.err
}

type fakeRunner struct {
	tasks []types.AutomationTask
	err   error
}

func (f *fakeRunner) RunPipeline(ctx context.Context, result *types.AnalysisResult, onProgress workspace.ProgressFunc) ([]types.AutomationTask, error) {
	return f.tasks, f.err
}

func (f *fakeRunner) Trigger(ctx context.Context, taskType types.TaskType, result *types.AnalysisResult) (types.AutomationTask, error) {
	if f.err != nil {
		return types.AutomationTask{}, f.err
	}
	return types.AutomationTask{Type: taskType, Status: types.TaskCompleted}, nil
}

type fakeChatSession struct {
	reply string
}

func (f *fakeChatSession) Send(ctx context.Context, message string) (string, error) {
	return f.reply, nil
}

type fakeLLM struct {
	reply string
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.reply, nil
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, tier llm.ModelTier) (string, error) {
	return f.reply, nil
}

func (f *fakeLLM) StartChat(systemInstruction string, tier llm.ModelTier) (llm.ChatSession, error) {
	return &fakeChatSession{reply: f.reply}, nil
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return "fake" }

func (f *fakeLLM) Close() error { return nil }

type testEnv struct {
	server  *Server
	library *library.Store
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	lib := library.NewStore(db, nil, nil, "tenant-1", nil)
	opts.Library = lib
	opts.Profiles = profile.NewStore(db, nil)
	if opts.Runner == nil {
		opts.Runner = &fakeRunner{}
	}

	return &testEnv{server: New(opts), library: lib}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func storedResult(id string) *types.AnalysisResult {
	return &types.AnalysisResult{
		ID:                 id,
		Title:              "Stored Result",
		Category:           "Strategy",
		Summary:            "summary",
		StrategicAlignment: &types.StrategicAlignment{Score: 85},
	}
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestHandleAnalyze(t *testing.T) {
	env := newTestEnv(t, Options{
		Analyzer: &fakeAnalyzer{result: storedResult("r1")},
	})

	rec := env.do(t, http.MethodPost, "/analyze", map[string]any{"input": "a memo"})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "r1", resp.Result.ID)
	assert.False(t, resp.Synced, "no mirror configured")
	assert.Equal(t, types.StageCompleted, resp.Stage)

	assert.Len(t, env.library.Load(context.Background()), 1)
}

func TestHandleAnalyze_EmptyInput(t *testing.T) {
	env := newTestEnv(t, Options{Analyzer: &fakeAnalyzer{}})

	rec := env.do(t, http.MethodPost, "/analyze", map[string]any{"input": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_ExtractionFailure(t *testing.T) {
	env := newTestEnv(t, Options{
		Analyzer: &fakeAnalyzer{err: &analysis.ExtractionError{Message: "model call failed"}},
	})

	rec := env.do(t, http.MethodPost, "/analyze", map[string]any{"input": "a memo"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, env.library.Load(context.Background()), "failed runs store nothing")
}

func TestHandleGetRecord_NotFound(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/library/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDeleteRecord(t *testing.T) {
	env := newTestEnv(t, Options{})
	_, _, err := env.library.Add(context.Background(), storedResult("r1"))
	require.NoError(t, err)

	rec := env.do(t, http.MethodDelete, "/library/r1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.library.Load(context.Background()))
}

func TestHandleCritique(t *testing.T) {
	env := newTestEnv(t, Options{
		Critic: &fakeCritic{critique: &types.TacticalCritique{BlindSpots: []string{"gap"}}},
	})
	_, _, err := env.library.Add(context.Background(), storedResult("r1"))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/library/r1/critique", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	updated := env.library.Get(context.Background(), "r1")
	require.NotNil(t, updated.TacticalCritique)
	assert.Equal(t, []string{"gap"}, updated.TacticalCritique.BlindSpots)
}

func TestHandleAutomate(t *testing.T) {
	env := newTestEnv(t, Options{
		Runner: &fakeRunner{tasks: []types.AutomationTask{
			{ID: "t1", Type: types.TaskDocs, Status: types.TaskCompleted},
		}},
	})
	_, _, err := env.library.Add(context.Background(), storedResult("r1"))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/library/r1/automate", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.library.Get(context.Background(), "r1").AutomationHistory, 1)
}

func TestHandleResearch(t *testing.T) {
	env := newTestEnv(t, Options{
		Researcher: &fakeResearcher{report: "## Findings"},
	})
	_, _, err := env.library.Add(context.Background(), storedResult("r1"))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/research", map[string]string{"id": "r1"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "## Findings", env.library.Get(context.Background(), "r1").DeepResearchMarkdown)
}

func TestHandleResearch_NotConfigured(t *testing.T) {
	env := newTestEnv(t, Options{})
	_, _, err := env.library.Add(context.Background(), storedResult("r1"))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/research", map[string]string{"id": "r1"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
	assert.Empty(t, env.library.Get(context.Background(), "r1").DeepResearchMarkdown)
}

func TestHandleChat(t *testing.T) {
	env := newTestEnv(t, Options{LLMClient: &fakeLLM{reply: "analysis ready"}})

	rec := env.do(t, http.MethodPost, "/chat", map[string]string{"message": "status?"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "analysis ready", resp.Reply)
	assert.Len(t, resp.Messages, 2)
}

func TestHandleChat_ConcurrentTurns(t *testing.T) {
	env := newTestEnv(t, Options{LLMClient: &fakeLLM{reply: "ok"}})

	const turns = 8
	var wg sync.WaitGroup
	codes := make([]int, turns)
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = env.do(t, http.MethodPost, "/chat", map[string]string{"message": "status?"}).Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}

	rec := env.do(t, http.MethodPost, "/chat", map[string]string{"message": "done"})
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 2*(turns+1), "every turn lands in the conversation log")
}

func TestHandleProfile_RoundTrip(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Channel Changers")

	update := types.DefaultCompanyProfile()
	update.Goals = "Updated goals"
	rec = env.do(t, http.MethodPut, "/profile", update)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/profile", nil)
	assert.Contains(t, rec.Body.String(), "Updated goals")
}

func TestHandlePutProfile_Invalid(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodPut, "/profile", map[string]string{"industry": "Video"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
