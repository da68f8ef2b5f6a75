package metadata

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func newMockRepo(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "deletedUserIds", []byte(`[3]`)))

	v, err := r.Get(ctx, "deletedUserIds")
	require.NoError(t, err)
	require.Equal(t, []byte(`[3]`), v)
}

func TestGet_Absent_ReturnsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_ManyKeys_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{1}))
	require.NoError(t, r.Set(ctx, "y", []byte{2}))
	require.NoError(t, r.Set(ctx, "z", []byte{3}))

	require.NoError(t, r.Delete(ctx, "x", "y", "never-there"))
	require.NoError(t, r.Delete(ctx, "x"))

	for _, k := range []string{"x", "y"} {
		_, err := r.Get(ctx, k)
		assert.ErrorIs(t, err, common.ErrorNotFound, k)
	}
	v, err := r.Get(ctx, "z")
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, v)
}

func TestWorksInsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, "a", []byte("1")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = NewSQLiteRepository(db).Get(ctx, "a")
	require.ErrorIs(t, err, common.ErrorNotFound, "rolled back write must not be visible")
}

func TestGet_DBErrorWrapped(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT value FROM metadata WHERE key = \?`).
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	_, err := r.Get(context.Background(), "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")
	require.NotErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_DBErrorWrapped(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO metadata`).
		WithArgs("k", []byte("v")).
		WillReturnError(errors.New("readonly database"))

	err := r.Set(context.Background(), "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_StopsAtFirstError(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM metadata WHERE key = \?`).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM metadata WHERE key = \?`).
		WithArgs("b").
		WillReturnError(errors.New("locked"))

	err := r.Delete(context.Background(), "a", "b", "c")
	require.ErrorContains(t, err, "failed to delete metadata[b]")
	require.NoError(t, mock.ExpectationsWereMet())
}
