package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"audioscribe/internal/app/model"
)

func newTestRepo(t *testing.T) *FileRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "history.json")
	return NewFileRepository(path, DefaultCapacity, zap.NewNop())
}

func TestFileRepository_ListCreatesMissingFile(t *testing.T) {
	repo := newTestRepo(t)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	// The document must now exist on disk holding an empty array.
	data, err := os.ReadFile(repo.path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestFileRepository_CorruptFileSelfHeals(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(repo.path), 0o755))
	require.NoError(t, os.WriteFile(repo.path, []byte("{not json"), 0o644))

	// Corruption is discarded, not surfaced: the store recreates an
	// empty collection and keeps serving.
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	data, err := os.ReadFile(repo.path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestFileRepository_AddAssignsIDAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)

	item, err := repo.Add(context.Background(), NewItem{
		Kind:     model.KindText,
		Text:     "a note",
		Language: "en",
		Metadata: &model.Metadata{Filename: "note.txt"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, model.KindText, item.Kind)

	stored, err := repo.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, stored.ID)
	assert.Equal(t, "a note", stored.Text)
	require.NotNil(t, stored.Metadata)
	assert.Equal(t, "note.txt", stored.Metadata.Filename)
}

func TestFileRepository_CapacityEviction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 6; i++ {
		item, err := repo.Add(ctx, NewItem{
			Kind: model.KindText,
			Text: fmt.Sprintf("item %d", i),
		})
		require.NoError(t, err)
		ids = append(ids, item.ID)
		// Distinct timestamps keep the ordering deterministic.
		time.Sleep(2 * time.Millisecond)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, DefaultCapacity)

	// The single oldest item is gone; the rest are newest first.
	assert.Equal(t, "item 5", items[0].Text)
	assert.Equal(t, "item 1", items[4].Text)
	for i := 0; i < len(items)-1; i++ {
		assert.True(t, items[i].CreatedAt.After(items[i+1].CreatedAt) ||
			items[i].CreatedAt.Equal(items[i+1].CreatedAt))
	}

	_, err = repo.Get(ctx, ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepository_ConcurrentAddsLoseNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := NewFileRepository(path, 100, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Add(ctx, NewItem{
				Kind: model.KindText,
				Text: fmt.Sprintf("concurrent %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 20, "overlapping adds must not overwrite each other")
}

func TestFileRepository_DeleteIdempotence(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item, err := repo.Add(ctx, NewItem{Kind: model.KindText, Text: "to delete"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete must report not found, not fail")

	deleted, err = repo.Delete(ctx, "never-existed")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFileRepository_ClearThenList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Add(ctx, NewItem{Kind: model.KindText, Text: "x"})
		require.NoError(t, err)
	}

	require.NoError(t, repo.Clear(ctx))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFileRepository_ImportMergeRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Add(ctx, NewItem{Kind: model.KindText, Text: fmt.Sprintf("orig %d", i)})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	exported, err := repo.List(ctx)
	require.NoError(t, err)

	// Re-importing an export leaves the collection unchanged.
	require.NoError(t, repo.ImportMerge(ctx, exported))

	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, exported, after)
}

func TestFileRepository_ImportMergeEvictsAndSorts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var candidates []model.HistoryItem
	for i := 0; i < 8; i++ {
		candidates = append(candidates, model.HistoryItem{
			ID:        fmt.Sprintf("import-%d", i),
			Kind:      model.KindTranscription,
			Text:      fmt.Sprintf("imported %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	require.NoError(t, repo.ImportMerge(ctx, candidates))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, DefaultCapacity)
	assert.Equal(t, "import-7", items[0].ID)
	assert.Equal(t, "import-3", items[4].ID)
}

func TestFileRepository_PersistedDocumentIsAnArray(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, NewItem{Kind: model.KindTranscription, Text: "hello"})
	require.NoError(t, err)

	data, err := os.ReadFile(repo.path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "transcription", raw[0]["kind"])
	assert.Equal(t, "hello", raw[0]["text"])
}
