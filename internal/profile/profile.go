// Package profile manages the tenant configuration snapshot and the
// signed-in user session.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/store"
	"github.com/channelchangers/intelextract/internal/types"
)

// Store persists the company profile and user session in local slots.
type Store struct {
	kv       *store.DB
	validate *validator.Validate
	log      *zap.Logger

	now func() time.Time
}

// NewStore creates a profile store.
func NewStore(kv *store.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		kv:       kv,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Load returns the stored company profile. A missing or corrupt slot
// yields the seeded defaults, never an error.
func (s *Store) Load(ctx context.Context) *types.CompanyProfile {
	value, ok, err := s.kv.Get(ctx, store.SlotProfile)
	if err != nil || !ok {
		if err != nil {
			s.log.Warn("profile slot unreadable, using defaults", zap.Error(err))
		}
		return types.DefaultCompanyProfile()
	}

	var profile types.CompanyProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		s.log.Warn("profile slot corrupt, using defaults", zap.Error(err))
		return types.DefaultCompanyProfile()
	}
	return &profile
}

// Save validates and persists the profile as the new current snapshot.
func (s *Store) Save(ctx context.Context, profile *types.CompanyProfile) error {
	if profile == nil {
		return fmt.Errorf("cannot save nil profile")
	}
	if err := s.validate.Struct(profile); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.kv.Put(ctx, store.SlotProfile, string(data)); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// ApplyVoiceDNA overwrites the stored voice profile with a freshly
// extracted one, stamping it with the current time.
func (s *Store) ApplyVoiceDNA(ctx context.Context, voice *types.VoiceProfile) (*types.CompanyProfile, error) {
	if voice == nil {
		return nil, fmt.Errorf("cannot apply empty voice profile")
	}

	stamped := *voice
	stamped.LastUpdated = s.now()

	profile := s.Load(ctx)
	profile.VoiceProfile = &stamped
	if err := s.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveUser persists the signed-in user session.
func (s *Store) SaveUser(ctx context.Context, user *types.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user session: %w", err)
	}
	return s.kv.Put(ctx, store.SlotSessionUser, string(data))
}

// LoadUser returns the signed-in user, or nil when signed out.
func (s *Store) LoadUser(ctx context.Context) *types.UserProfile {
	value, ok, err := s.kv.Get(ctx, store.SlotSessionUser)
	if err != nil || !ok {
		return nil
	}

	var user types.UserProfile
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		s.log.Warn("session slot corrupt, treating as signed out", zap.Error(err))
		return nil
	}
	return &user
}

// ClearUser signs the user out.
func (s *Store) ClearUser(ctx context.Context) error {
	return s.kv.Delete(ctx, store.SlotSessionUser)
}
