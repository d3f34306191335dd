package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"audioscribe/internal/app/history"
	"audioscribe/internal/app/metrics"
	"audioscribe/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS history (
	id UUID PRIMARY KEY,
	kind VARCHAR(32) NOT NULL,
	text TEXT NOT NULL,
	language VARCHAR(10),
	language_codes TEXT,
	metadata JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// PostgresRepository keeps the history collection in one Postgres table.
// Concurrency control is delegated to the database: every multi-statement
// operation runs inside a transaction, so this variant is safe across
// multiple server instances.
type PostgresRepository struct {
	db       *sql.DB
	capacity int
}

// NewPostgresRepository opens a connection and ensures the history table
// exists.
func NewPostgresRepository(connectionString string, capacity int) (*PostgresRepository, error) {
	if capacity <= 0 {
		capacity = history.DefaultCapacity
	}
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}
	return &PostgresRepository{db: db, capacity: capacity}, nil
}

// NewPostgresRepositoryWithDB wraps an existing connection. The schema is
// assumed to exist. Used by tests.
func NewPostgresRepositoryWithDB(db *sql.DB, capacity int) *PostgresRepository {
	if capacity <= 0 {
		capacity = history.DefaultCapacity
	}
	return &PostgresRepository{db: db, capacity: capacity}
}

func (r *PostgresRepository) Capacity() int { return r.capacity }

func (r *PostgresRepository) Close() error { return r.db.Close() }

const selectColumns = `id, kind, text, language, language_codes, metadata, created_at`

func scanItem(scan func(dest ...any) error) (model.HistoryItem, error) {
	var (
		item          model.HistoryItem
		language      sql.NullString
		languageCodes sql.NullString
		metadata      []byte
	)
	if err := scan(&item.ID, &item.Kind, &item.Text, &language, &languageCodes, &metadata, &item.CreatedAt); err != nil {
		return model.HistoryItem{}, err
	}
	item.Language = language.String
	if languageCodes.Valid && languageCodes.String != "" {
		if err := json.Unmarshal([]byte(languageCodes.String), &item.LanguageCodes); err != nil {
			return model.HistoryItem{}, fmt.Errorf("decode language_codes: %w", err)
		}
	}
	if len(metadata) > 0 {
		item.Metadata = &model.Metadata{}
		if err := json.Unmarshal(metadata, item.Metadata); err != nil {
			return model.HistoryItem{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return item, nil
}

func encodeItem(item model.HistoryItem) (language, languageCodes any, metadata any, err error) {
	language = sql.NullString{String: item.Language, Valid: item.Language != ""}
	if len(item.LanguageCodes) > 0 {
		data, err := json.Marshal(item.LanguageCodes)
		if err != nil {
			return nil, nil, nil, err
		}
		languageCodes = string(data)
	}
	if item.Metadata != nil {
		data, err := json.Marshal(item.Metadata)
		if err != nil {
			return nil, nil, nil, err
		}
		metadata = string(data)
	}
	return language, languageCodes, metadata, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.HistoryItem, error) {
	query := `SELECT ` + selectColumns + ` FROM history ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	metrics.ObserveHistoryOp("list", err)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	items := make([]model.HistoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (model.HistoryItem, error) {
	query := `SELECT ` + selectColumns + ` FROM history WHERE id = $1`
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return model.HistoryItem{}, history.ErrNotFound
	}
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("query history item: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Add(ctx context.Context, candidate history.NewItem) (model.HistoryItem, error) {
	item := model.HistoryItem{
		ID:            uuid.New().String(),
		Kind:          candidate.Kind,
		Text:          candidate.Text,
		Language:      candidate.Language,
		LanguageCodes: candidate.LanguageCodes,
		Metadata:      candidate.Metadata,
		CreatedAt:     time.Now().UTC(),
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertItem(ctx, tx, item, false); err != nil {
			return err
		}
		return r.evict(ctx, tx)
	})
	metrics.ObserveHistoryOp("add", err)
	if err != nil {
		return model.HistoryItem{}, err
	}
	return item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = $1`, id)
	metrics.ObserveHistoryOp("delete", err)
	if err != nil {
		return false, fmt.Errorf("delete history item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history`)
	metrics.ObserveHistoryOp("clear", err)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ImportMerge(ctx context.Context, candidates []model.HistoryItem) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, item := range candidates {
			if err := insertItem(ctx, tx, item, true); err != nil {
				return err
			}
		}
		return r.evict(ctx, tx)
	})
	metrics.ObserveHistoryOp("import", err)
	return err
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, tx *sql.Tx, item model.HistoryItem, ignoreConflict bool) error {
	language, languageCodes, metadata, err := encodeItem(item)
	if err != nil {
		return fmt.Errorf("encode history item: %w", err)
	}

	query := `INSERT INTO history (id, kind, text, language, language_codes, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if ignoreConflict {
		query += ` ON CONFLICT (id) DO NOTHING`
	}
	if _, err := tx.ExecContext(ctx, query,
		item.ID, item.Kind, item.Text, language, languageCodes, metadata, item.CreatedAt); err != nil {
		return fmt.Errorf("insert history item: %w", err)
	}
	return nil
}

// evict removes all rows beyond the newest capacity entries.
func (r *PostgresRepository) evict(ctx context.Context, tx *sql.Tx) error {
	query := `DELETE FROM history WHERE id NOT IN (
		SELECT id FROM history ORDER BY created_at DESC LIMIT $1
	)`
	if _, err := tx.ExecContext(ctx, query, r.capacity); err != nil {
		return fmt.Errorf("evict history items: %w", err)
	}
	return nil
}
