package history

import (
	"context"
	"errors"
	"sort"

	"github.com/samber/lo"

	"audioscribe/internal/app/model"
)

// DefaultCapacity is the fixed maximum number of history items kept. The
// history is a scratch pad for the last few transcriptions, not an archive:
// inserting beyond the capacity evicts the oldest entries.
const DefaultCapacity = 5

// ErrNotFound is returned by Get when no item carries the requested id.
var ErrNotFound = errors.New("history item not found")

// NewItem is the caller-supplied part of a history item. ID and CreatedAt
// are assigned by the repository on Add.
type NewItem struct {
	Kind          model.ItemKind
	Text          string
	Language      string
	LanguageCodes []string
	Metadata      *model.Metadata
}

// Repository exposes the operations clients perform against the bounded
// history collection. Every implementation guarantees that List returns
// items strictly newest-first and that the collection never exceeds
// Capacity items.
type Repository interface {
	List(ctx context.Context) ([]model.HistoryItem, error)
	Get(ctx context.Context, id string) (model.HistoryItem, error)
	Add(ctx context.Context, candidate NewItem) (model.HistoryItem, error)
	// Delete reports whether an item existed and was removed. A missing
	// id is not an error.
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
	// ImportMerge merges externally supplied items with the existing
	// collection, re-sorts newest-first and truncates to Capacity.
	// When a candidate id already exists, the existing item wins.
	ImportMerge(ctx context.Context, candidates []model.HistoryItem) error
	Count(ctx context.Context) (int, error)
	Capacity() int
	Close() error
}

// sortNewestFirst orders items by CreatedAt descending in place.
func sortNewestFirst(items []model.HistoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// evict truncates a newest-first slice to the capacity.
func evict(items []model.HistoryItem, capacity int) []model.HistoryItem {
	if len(items) <= capacity {
		return items
	}
	return items[:capacity]
}

// mergeByID concatenates existing and candidates, keeping the existing
// item when both carry the same id.
func mergeByID(existing, candidates []model.HistoryItem) []model.HistoryItem {
	merged := append(append([]model.HistoryItem{}, existing...), candidates...)
	return lo.UniqBy(merged, func(it model.HistoryItem) string { return it.ID })
}
