package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/analysis"
	"github.com/channelchangers/intelextract/internal/chat"
	"github.com/channelchangers/intelextract/internal/types"
)

type analyzeRequest struct {
	Input      string `json:"input"`
	Competitor bool   `json:"competitor"`
	VoiceDNA   bool   `json:"voiceDna"`
}

type analyzeResponse struct {
	Result *types.AnalysisResult `json:"result"`
	Synced bool                  `json:"synced"`
	Stage  types.AnalysisStage   `json:"stage"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeError(w, &ErrValidation{Field: "input", Message: "input is required"})
		return
	}

	ctx := r.Context()
	companyProfile := s.profiles.Load(ctx)
	mode := analysis.ModeFor(req.Competitor, req.VoiceDNA)

	result, err := s.analyzer.Analyze(ctx, req.Input, companyProfile, mode)
	if err != nil {
		writeError(w, err)
		return
	}

	if mode.VoiceExtraction() && result.VoiceDNA != nil {
		if _, err := s.profiles.ApplyVoiceDNA(ctx, result.VoiceDNA); err != nil {
			s.log.Warn("failed to apply voice profile", zap.Error(err))
		}
	}

	_, synced, err := s.library.Add(ctx, result)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, analyzeResponse{Result: result, Synced: synced, Stage: types.StageCompleted})
}

func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.library.Load(r.Context()))
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result := s.library.Get(r.Context(), id)
	if result == nil {
		writeError(w, &ErrNotFound{ID: id})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if _, err := s.library.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCritique(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	result := s.library.Get(ctx, id)
	if result == nil {
		writeError(w, &ErrNotFound{ID: id})
		return
	}

	tactical, err := s.critic.Critique(ctx, s.profiles.Load(ctx), result)
	if err != nil {
		writeError(w, err)
		return
	}

	result.TacticalCritique = tactical
	if _, err := s.library.Update(ctx, result); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAutomate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	result := s.library.Get(ctx, id)
	if result == nil {
		writeError(w, &ErrNotFound{ID: id})
		return
	}

	tasks, err := s.runner.RunPipeline(ctx, result, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	result.AutomationHistory = append(result.AutomationHistory, tasks...)
	if _, err := s.library.Update(ctx, result); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type researchRequest struct {
	ID    string `json:"id"`
	Query string `json:"query,omitempty"`
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	if s.researcher == nil {
		writeError(w, &ErrUnavailable{Feature: "deep research"})
		return
	}

	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	ctx := r.Context()
	result := s.library.Get(ctx, req.ID)
	if result == nil {
		writeError(w, &ErrNotFound{ID: req.ID})
		return
	}

	query := req.Query
	if query == "" {
		query = result.Title
	}

	report, err := s.researcher.DeepResearch(ctx, s.profiles.Load(ctx), query)
	if err != nil {
		writeError(w, err)
		return
	}

	result.DeepResearchMarkdown = report
	if _, err := s.library.Update(ctx, result); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string              `json:"reply"`
	Messages []types.ChatMessage `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, &ErrValidation{Field: "message", Message: "message is required"})
		return
	}

	ctx := r.Context()

	s.chatMu.Lock()
	defer s.chatMu.Unlock()

	if s.agent == nil {
		agent, err := chat.NewAgent(s.llmClient, s.profiles.Load(ctx), s.log)
		if err != nil {
			writeError(w, err)
			return
		}
		s.agent = agent
	}

	reply := s.agent.Send(ctx, req.Message, s.library.Load(ctx))
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Messages: s.agent.Messages()})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profiles.Load(r.Context()))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var companyProfile types.CompanyProfile
	if err := json.NewDecoder(r.Body).Decode(&companyProfile); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	if err := s.profiles.Save(r.Context(), &companyProfile); err != nil {
		writeError(w, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, &companyProfile)
}
