package pg

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioscribe/internal/app/history"
	"audioscribe/internal/app/model"
)

// TestPostgresRepository_Interface verifies the repository contract.
func TestPostgresRepository_Interface(t *testing.T) {
	var _ history.Repository = (*PostgresRepository)(nil)
}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepositoryWithDB(db, history.DefaultCapacity), mock
}

var itemColumns = []string{"id", "kind", "text", "language", "language_codes", "metadata", "created_at"}

func TestPostgresRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(itemColumns).
		AddRow("id-2", "transcription", "newer", "en", `["fr","en"]`, []byte(`{"filename":"b.mp3"}`), now).
		AddRow("id-1", "text", "older", nil, nil, nil, now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, kind, text, language, language_codes, metadata, created_at FROM history ORDER BY created_at DESC`,
	)).WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "id-2", items[0].ID)
	assert.Equal(t, model.KindTranscription, items[0].Kind)
	assert.Equal(t, []string{"fr", "en"}, items[0].LanguageCodes)
	require.NotNil(t, items[0].Metadata)
	assert.Equal(t, "b.mp3", items[0].Metadata.Filename)

	assert.Equal(t, "id-1", items[1].ID)
	assert.Empty(t, items[1].Language)
	assert.Nil(t, items[1].Metadata)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, kind, text, language, language_codes, metadata, created_at FROM history WHERE id = $1`,
	)).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, history.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_AddInsertsAndEvicts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO history (id, kind, text, language, language_codes, metadata, created_at)`,
	)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM history WHERE id NOT IN (`,
	)).WithArgs(history.DefaultCapacity).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	item, err := repo.Add(context.Background(), history.NewItem{
		Kind: model.KindText,
		Text: "a note",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "existing row removed", affected: 1, want: true},
		{name: "missing row reports false", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM history WHERE id = $1`)).
				WithArgs("some-id").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			deleted, err := repo.Delete(context.Background(), "some-id")
			require.NoError(t, err)
			assert.Equal(t, tt.want, deleted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_Clear(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM history`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ImportMergeUsesOnConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (id) DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (id) DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM history WHERE id NOT IN (`)).
		WithArgs(history.DefaultCapacity).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	items := []model.HistoryItem{
		{ID: "a", Kind: model.KindText, Text: "one", CreatedAt: now},
		{ID: "b", Kind: model.KindText, Text: "two", CreatedAt: now},
	}
	require.NoError(t, repo.ImportMerge(context.Background(), items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ImportMergeRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (id) DO NOTHING`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	items := []model.HistoryItem{
		{ID: "a", Kind: model.KindText, Text: "one", CreatedAt: now},
		{ID: "b", Kind: model.KindText, Text: "two", CreatedAt: now},
	}
	err := repo.ImportMerge(context.Background(), items)
	assert.Error(t, err, "the whole batch must fail when one row fails")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Count(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM history`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
