package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/channelchangers/intelextract/internal/analysis"
	"github.com/channelchangers/intelextract/internal/chat"
	"github.com/channelchangers/intelextract/internal/library"
	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/profile"
	"github.com/channelchangers/intelextract/internal/types"
	"github.com/channelchangers/intelextract/internal/workspace"
)

// Analyzer runs extractions.
type Analyzer interface {
	Analyze(ctx context.Context, input string, profile *types.CompanyProfile, mode analysis.Mode) (*types.AnalysisResult, error)
}

// Critic runs tactical critiques.
type Critic interface {
	Critique(ctx context.Context, profile *types.CompanyProfile, result *types.AnalysisResult) (*types.TacticalCritique, error)
}

// Researcher runs deep research reports.
type Researcher interface {
	DeepResearch(ctx context.Context, profile *types.CompanyProfile, query string) (string, error)
}

// AutomationRunner executes workspace pipelines.
type AutomationRunner interface {
	RunPipeline(ctx context.Context, result *types.AnalysisResult, onProgress workspace.ProgressFunc) ([]types.AutomationTask, error)
	Trigger(ctx context.Context, taskType types.TaskType, result *types.AnalysisResult) (types.AutomationTask, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	log        *zap.Logger

	analyzer   Analyzer
	critic     Critic
	researcher Researcher
	runner     AutomationRunner
	library    *library.Store
	profiles   *profile.Store
	llmClient  llm.Client

	// agent is lazily created on the first chat turn so it picks up the
	// voice profile as of that moment. chatMu serializes chat requests:
	// the agent's conversation log is not safe for concurrent use.
	chatMu sync.Mutex
	agent  *chat.Agent
}

// Options holds the dependencies and settings for a server.
type Options struct {
	Port       int
	Analyzer   Analyzer
	Critic     Critic
	Researcher Researcher
	Runner     AutomationRunner
	Library    *library.Store
	Profiles   *profile.Store
	LLMClient  llm.Client
	Logger     *zap.Logger
}

// New creates a new server instance
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Runner == nil {
		opts.Runner = workspace.NewRunner(opts.Logger)
	}

	s := &Server{
		log:        opts.Logger,
		analyzer:   opts.Analyzer,
		critic:     opts.Critic,
		researcher: opts.Researcher,
		runner:     opts.Runner,
		library:    opts.Library,
		profiles:   opts.Profiles,
		llmClient:  opts.LLMClient,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /library", s.handleListLibrary)
	mux.HandleFunc("GET /library/{id}", s.handleGetRecord)
	mux.HandleFunc("DELETE /library/{id}", s.handleDeleteRecord)
	mux.HandleFunc("POST /library/{id}/critique", s.handleCritique)
	mux.HandleFunc("POST /library/{id}/automate", s.handleAutomate)
	mux.HandleFunc("POST /research", s.handleResearch)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /profile", s.handleGetProfile)
	mux.HandleFunc("PUT /profile", s.handlePutProfile)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Run starts the server and blocks until the context is cancelled or a
// termination signal arrives, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

// Handler exposes the configured routing stack for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
