package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/analysis"
	"github.com/channelchangers/intelextract/internal/config"
	"github.com/channelchangers/intelextract/internal/critique"
	"github.com/channelchangers/intelextract/internal/library"
	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/mirror"
	"github.com/channelchangers/intelextract/internal/notify"
	"github.com/channelchangers/intelextract/internal/observability"
	"github.com/channelchangers/intelextract/internal/profile"
	"github.com/channelchangers/intelextract/internal/research"
	"github.com/channelchangers/intelextract/internal/store"
	"github.com/channelchangers/intelextract/internal/workspace"
)

// app holds the wired application services shared by all subcommands.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	db        *store.DB
	llmClient llm.Client
	mirrorDB  *mirror.Client

	engine     *analysis.Engine
	researcher *research.Researcher
	critic     *critique.Critic
	libStore   *library.Store
	profiles   *profile.Store
	runner     *workspace.Runner
	printer    *observability.Printer
}

// loadSettings resolves configuration: file, environment, then flags.
func loadSettings() (config.Config, error) {
	var cfg config.Config
	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	cfg.FromEnv()

	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagStore != "" {
		cfg.StorePath = flagStore
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg.MergeWithDefaults(), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// newApp wires the full service graph. The mirror and notifier are
// optional: missing endpoints leave them disabled rather than failing.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY or use --api-key)")
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		llmClient: llmClient,
		critic:    critique.NewCritic(llmClient, logger),
		profiles:  profile.NewStore(db, logger),
		runner:    workspace.NewRunner(logger),
		printer:   observability.NewPrinter(os.Stdout),
	}
	a.runner.Delay = time.Duration(cfg.StepDelayMS) * time.Millisecond

	if cfg.SearchAPIKey != "" {
		a.researcher, err = research.NewResearcher(ctx, cfg.SearchAPIKey, cfg.SearchCX, llmClient, logger)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
	}

	// The engine takes the researcher as its grounder; without search
	// credentials only raw text inputs can be analyzed.
	var grounder analysis.Grounder
	if a.researcher != nil {
		grounder = a.researcher
	}
	a.engine = analysis.NewEngine(llmClient, grounder, logger)

	var libMirror library.Mirror
	if cfg.DatabaseURL != "" {
		a.mirrorDB, err = mirror.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("mirror unavailable, records will stay local", zap.Error(err))
		} else {
			libMirror = a.mirrorDB
		}
	}

	notifier := notify.NewNotifier(cfg.WebhookURL, logger)
	a.libStore = library.NewStore(db, libMirror, notifier, cfg.TenantID, logger)

	return a, nil
}

// Close releases all held resources.
func (a *app) Close(ctx context.Context) {
	if a.mirrorDB != nil {
		_ = a.mirrorDB.Close(ctx)
	}
	if a.llmClient != nil {
		_ = a.llmClient.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.logger.Sync()
}
