package library

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelchangers/intelextract/internal/mirror"
	"github.com/channelchangers/intelextract/internal/store"
	"github.com/channelchangers/intelextract/internal/types"
)

type fakeMirror struct {
	records []*mirror.Record
	err     error
}

func (f *fakeMirror) Push(ctx context.Context, record *mirror.Record) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

type fakeNotifier struct {
	notified []string
}

func (f *fakeNotifier) NotifyHighRelevance(ctx context.Context, result *types.AnalysisResult) {
	f.notified = append(f.notified, result.ID)
}

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func libraryResult(id string) *types.AnalysisResult {
	return &types.AnalysisResult{
		ID:                 id,
		Title:              "Result " + id,
		Summary:            "summary",
		Category:           "Strategy",
		StrategicAlignment: &types.StrategicAlignment{Score: 85},
		Timestamp:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAdd_PrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTestDB(t), nil, nil, "tenant-1", nil)

	_, _, err := s.Add(ctx, libraryResult("a"))
	require.NoError(t, err)
	library, _, err := s.Add(ctx, libraryResult("b"))
	require.NoError(t, err)

	require.Len(t, library, 2)
	assert.Equal(t, "b", library[0].ID, "newest first")

	reloaded := s.Load(ctx)
	require.Len(t, reloaded, 2)
	assert.Equal(t, "b", reloaded[0].ID)
}

func TestAdd_SideEffects(t *testing.T) {
	ctx := context.Background()
	m := &fakeMirror{}
	n := &fakeNotifier{}
	s := NewStore(openTestDB(t), m, n, "tenant-1", nil)

	_, synced, err := s.Add(ctx, libraryResult("a"))
	require.NoError(t, err)

	assert.True(t, synced)
	require.Len(t, m.records, 1)
	assert.Equal(t, "tenant-1", m.records[0].TenantID)
	assert.Equal(t, []string{"a"}, n.notified)
}

func TestAdd_MirrorFailureKeepsLocal(t *testing.T) {
	ctx := context.Background()
	m := &fakeMirror{err: errors.New("connection refused")}
	s := NewStore(openTestDB(t), m, nil, "tenant-1", nil)

	library, synced, err := s.Add(ctx, libraryResult("a"))
	require.NoError(t, err, "mirror failure must not fail the add")
	assert.False(t, synced)
	assert.Len(t, library, 1)
	assert.Len(t, s.Load(ctx), 1)
}

func TestLoad_CorruptSlot(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.Put(ctx, store.SlotLibrary, "{not json"))

	s := NewStore(db, nil, nil, "tenant-1", nil)
	assert.Empty(t, s.Load(ctx))
}

func TestUpdate_LocalOnly(t *testing.T) {
	ctx := context.Background()
	m := &fakeMirror{}
	n := &fakeNotifier{}
	s := NewStore(openTestDB(t), m, n, "tenant-1", nil)

	_, _, err := s.Add(ctx, libraryResult("a"))
	require.NoError(t, err)

	updated := libraryResult("a")
	updated.DeepResearchMarkdown = "## Findings"
	library, err := s.Update(ctx, updated)
	require.NoError(t, err)

	assert.Equal(t, "## Findings", library[0].DeepResearchMarkdown)
	assert.Len(t, m.records, 1, "update must not re-mirror")
	assert.Len(t, n.notified, 1, "update must not re-notify")
}

func TestUpdate_UnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTestDB(t), nil, nil, "tenant-1", nil)

	_, _, err := s.Add(ctx, libraryResult("a"))
	require.NoError(t, err)

	// Updating an absent ID is a no-op: the library comes back unchanged.
	library, err := s.Update(ctx, libraryResult("ghost"))
	require.NoError(t, err)
	require.Len(t, library, 1)
	assert.Equal(t, "a", library[0].ID)
	assert.Len(t, s.Load(ctx), 1)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTestDB(t), nil, nil, "tenant-1", nil)

	_, _, err := s.Add(ctx, libraryResult("a"))
	require.NoError(t, err)
	_, _, err = s.Add(ctx, libraryResult("b"))
	require.NoError(t, err)

	library, err := s.Remove(ctx, "a")
	require.NoError(t, err)
	require.Len(t, library, 1)
	assert.Equal(t, "b", library[0].ID)

	// Removing an absent ID is a no-op.
	library, err = s.Remove(ctx, "ghost")
	require.NoError(t, err)
	assert.Len(t, library, 1)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTestDB(t), nil, nil, "tenant-1", nil)

	_, _, err := s.Add(ctx, libraryResult("a"))
	require.NoError(t, err)

	found := s.Get(ctx, "a")
	require.NotNil(t, found)
	assert.Equal(t, "Result a", found.Title)
	assert.Nil(t, s.Get(ctx, "ghost"))
}
