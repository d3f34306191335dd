package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"audioscribe/internal/app/metrics"
	"audioscribe/internal/app/model"
)

// FileRepository persists the whole collection as one JSON document. Every
// operation runs a load-mutate-save sequence under the FIFO lock, so
// overlapping calls never lose updates. A crash mid-write can still corrupt
// the document; load self-heals by recreating an empty collection.
type FileRepository struct {
	path     string
	capacity int
	lock     *Locker
	logger   *zap.Logger
}

// NewFileRepository creates a repository backed by the JSON document at
// path. The file and its directory are created on first use.
func NewFileRepository(path string, capacity int, logger *zap.Logger) *FileRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FileRepository{
		path:     path,
		capacity: capacity,
		lock:     NewLocker(),
		logger:   logger,
	}
}

func (r *FileRepository) Capacity() int { return r.capacity }

func (r *FileRepository) Close() error { return nil }

// load reads the full collection. A missing file is created holding an
// empty array; unparseable content is discarded and the file recreated.
// The data loss in the corrupt case is deliberate: the store favors
// self-healing over refusing to start.
func (r *FileRepository) load() ([]model.HistoryItem, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		if err := r.save(nil); err != nil {
			return nil, err
		}
		return []model.HistoryItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var items []model.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		r.logger.Warn("history file is corrupt, recreating empty collection",
			zap.String("path", r.path),
			zap.Error(err),
		)
		if err := r.save(nil); err != nil {
			return nil, err
		}
		return []model.HistoryItem{}, nil
	}

	sortNewestFirst(items)
	return items, nil
}

// save overwrites the document with the full collection in one write call.
func (r *FileRepository) save(items []model.HistoryItem) error {
	if items == nil {
		items = []model.HistoryItem{}
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

func (r *FileRepository) List(ctx context.Context) ([]model.HistoryItem, error) {
	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	items, err := r.load()
	metrics.ObserveHistoryOp("list", err)
	return items, err
}

func (r *FileRepository) Get(ctx context.Context, id string) (model.HistoryItem, error) {
	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return model.HistoryItem{}, err
	}
	defer release()

	items, err := r.load()
	if err != nil {
		return model.HistoryItem{}, err
	}
	item, found := lo.Find(items, func(it model.HistoryItem) bool { return it.ID == id })
	if !found {
		return model.HistoryItem{}, ErrNotFound
	}
	return item, nil
}

func (r *FileRepository) Add(ctx context.Context, candidate NewItem) (model.HistoryItem, error) {
	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return model.HistoryItem{}, err
	}
	defer release()

	items, err := r.load()
	if err != nil {
		metrics.ObserveHistoryOp("add", err)
		return model.HistoryItem{}, err
	}

	item := model.HistoryItem{
		ID:            uuid.New().String(),
		Kind:          candidate.Kind,
		Text:          candidate.Text,
		Language:      candidate.Language,
		LanguageCodes: candidate.LanguageCodes,
		Metadata:      candidate.Metadata,
		CreatedAt:     time.Now().UTC(),
	}

	items = append([]model.HistoryItem{item}, items...)
	sortNewestFirst(items)
	items = evict(items, r.capacity)

	err = r.save(items)
	metrics.ObserveHistoryOp("add", err)
	if err != nil {
		return model.HistoryItem{}, err
	}
	return item, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) (bool, error) {
	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	items, err := r.load()
	if err != nil {
		metrics.ObserveHistoryOp("delete", err)
		return false, err
	}

	remaining := lo.Reject(items, func(it model.HistoryItem, _ int) bool { return it.ID == id })
	if len(remaining) == len(items) {
		metrics.ObserveHistoryOp("delete", nil)
		return false, nil
	}

	err = r.save(remaining)
	metrics.ObserveHistoryOp("delete", err)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FileRepository) Clear(ctx context.Context) error {
	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = r.save(nil)
	metrics.ObserveHistoryOp("clear", err)
	return err
}

func (r *FileRepository) ImportMerge(ctx context.Context, candidates []model.HistoryItem) error {
	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	items, err := r.load()
	if err != nil {
		metrics.ObserveHistoryOp("import", err)
		return err
	}

	merged := mergeByID(items, candidates)
	sortNewestFirst(merged)
	merged = evict(merged, r.capacity)

	err = r.save(merged)
	metrics.ObserveHistoryOp("import", err)
	return err
}

func (r *FileRepository) Count(ctx context.Context) (int, error) {
	items, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
