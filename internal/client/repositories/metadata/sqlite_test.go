package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_Cookies(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyCookies, []byte(`[{"name":"sessionid"}]`)))

	v, err := r.Get(ctx, KeyCookies)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"sessionid"}]`, string(v))
}

func TestGet_Absent_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyLastPath, []byte("/pets")))
	require.NoError(t, r.Set(ctx, KeyLastPath, []byte("/jobs")))

	v, err := r.Get(ctx, KeyLastPath)
	require.NoError(t, err)
	require.Equal(t, []byte("/jobs"), v)
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestDelete_LeavesOtherKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyCookies, []byte("c")))
	require.NoError(t, r.Set(ctx, KeyLastPath, []byte("/home")))

	require.NoError(t, r.Delete(ctx, KeyCookies))
	require.NoError(t, r.Delete(ctx, KeyCookies))
	v, err := r.Get(ctx, KeyCookies)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = r.Get(ctx, KeyLastPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("/home"), v)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")
	require.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set metadata[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
}

func TestPathStore_RoundTripAndDelete(t *testing.T) {
	ps := NewPathStore(NewSQLiteRepository(setupDB(t)))
	ctx := context.Background()

	p, err := ps.LoadLastPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", p)

	require.NoError(t, ps.SaveLastPath(ctx, "/locations"))
	p, err = ps.LoadLastPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/locations", p)

	require.NoError(t, ps.SaveLastPath(ctx, ""))
	p, err = ps.LoadLastPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", p)
}

func TestPurge_RemovesOnlyGivenKeys(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyCookies, []byte(`[]`)))
	require.NoError(t, r.Set(ctx, KeyLastPath, []byte("/pets")))
	require.NoError(t, r.Set(ctx, "other", []byte("keep")))

	require.NoError(t, Purge(ctx, db, KeyCookies, KeyLastPath))

	for _, k := range []string{KeyCookies, KeyLastPath} {
		v, err := r.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, v, k)
	}
	v, err := r.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), v)
}

func TestPurge_ClosedDB(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())
	require.Error(t, Purge(context.Background(), db, KeyCookies))
}
