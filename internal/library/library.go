// Package library manages the stored intelligence collection: a local
// newest-first list of analysis results with a best-effort remote mirror
// and high-relevance notifications on ingest.
package library

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/mirror"
	"github.com/channelchangers/intelextract/internal/store"
	"github.com/channelchangers/intelextract/internal/types"
)

// Mirror pushes ingested records to the remote knowledge base.
type Mirror interface {
	Push(ctx context.Context, record *mirror.Record) error
}

// Notifier announces high-relevance results.
type Notifier interface {
	NotifyHighRelevance(ctx context.Context, result *types.AnalysisResult)
}

// Store is the library: local persistence is authoritative, the mirror
// and notifier are side effects of ingest only.
type Store struct {
	kv       *store.DB
	mirror   Mirror
	notifier Notifier
	tenantID string
	log      *zap.Logger
}

// NewStore creates a library store. Mirror and notifier may be nil, which
// disables the respective side effect.
func NewStore(kv *store.DB, m Mirror, n Notifier, tenantID string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, mirror: m, notifier: n, tenantID: tenantID, log: log}
}

// Load returns the stored library, newest first. A missing or corrupt
// slot yields an empty library, never an error: the user can always
// start analyzing.
func (s *Store) Load(ctx context.Context) []types.AnalysisResult {
	value, ok, err := s.kv.Get(ctx, store.SlotLibrary)
	if err != nil || !ok {
		if err != nil {
			s.log.Warn("library slot unreadable, starting empty", zap.Error(err))
		}
		return []types.AnalysisResult{}
	}

	var library []types.AnalysisResult
	if err := json.Unmarshal([]byte(value), &library); err != nil {
		s.log.Warn("library slot corrupt, starting empty", zap.Error(err))
		return []types.AnalysisResult{}
	}
	return library
}

// Add prepends a new result, persists the library, then runs the ingest
// side effects: notification and mirror push. The returned synced flag
// reports whether the mirror accepted the record; a mirror failure does
// not fail the add.
func (s *Store) Add(ctx context.Context, result *types.AnalysisResult) ([]types.AnalysisResult, bool, error) {
	if result == nil {
		return nil, false, fmt.Errorf("cannot add nil result to library")
	}

	library := append([]types.AnalysisResult{*result}, s.Load(ctx)...)
	if err := s.persist(ctx, library); err != nil {
		return nil, false, err
	}

	if s.notifier != nil {
		s.notifier.NotifyHighRelevance(ctx, result)
	}

	synced := false
	if s.mirror != nil {
		record := mirror.BuildRecord(s.tenantID, result)
		if err := s.mirror.Push(ctx, record); err != nil {
			s.log.Warn("mirror push failed, record kept locally",
				zap.String("id", result.ID), zap.Error(err))
		} else {
			synced = true
		}
	}

	return library, synced, nil
}

// Update replaces the stored record with the same ID. An absent ID is a
// no-op that returns the library unchanged. Enrichments are local-only:
// ingest side effects ran once at add time and do not repeat.
func (s *Store) Update(ctx context.Context, result *types.AnalysisResult) ([]types.AnalysisResult, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot update library with nil result")
	}

	library := s.Load(ctx)
	found := false
	for i := range library {
		if library[i].ID == result.ID {
			library[i] = *result
			found = true
			break
		}
	}
	if !found {
		return library, nil
	}

	if err := s.persist(ctx, library); err != nil {
		return nil, err
	}
	return library, nil
}

// Remove deletes the record with the given ID. Removing an absent ID is
// a no-op.
func (s *Store) Remove(ctx context.Context, id string) ([]types.AnalysisResult, error) {
	library := s.Load(ctx)
	kept := library[:0]
	for _, item := range library {
		if item.ID != id {
			kept = append(kept, item)
		}
	}

	if err := s.persist(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Get returns the stored record with the given ID, or nil.
func (s *Store) Get(ctx context.Context, id string) *types.AnalysisResult {
	for _, item := range s.Load(ctx) {
		if item.ID == id {
			result := item
			return &result
		}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, library []types.AnalysisResult) error {
	data, err := json.Marshal(library)
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	if err := s.kv.Put(ctx, store.SlotLibrary, string(data)); err != nil {
		return fmt.Errorf("failed to persist library: %w", err)
	}
	return nil
}
