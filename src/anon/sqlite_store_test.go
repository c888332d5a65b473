//go:build unit

package anon

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

func newTestSqliteStore(t *testing.T) *SqliteStore {
	store, err := NewSqliteStore(filepath.Join(t.TempDir(), "mappings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSqliteStoreLoadMissingDB(t *testing.T) {
	store := newTestSqliteStore(t)
	_, err := store.Load()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSqliteStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestSqliteStore(t)

	want := populatedState(t)
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assertStatesEqual(t, want, got)
}

func TestSqliteStoreSaveReplacesWholesale(t *testing.T) {
	store := newTestSqliteStore(t)
	require.NoError(t, store.Save(populatedState(t)))

	replacement := NewMappingState()
	_, err := replacement.AssignPlaceholder(sqllex.CategoryLiteral, "'fresh'")
	require.NoError(t, err)
	require.NoError(t, store.Save(replacement))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, got.Size())
	original, _, ok := got.LookupOriginal("literal_1")
	require.True(t, ok)
	assert.Equal(t, "'fresh'", original)
}

func TestSqliteStoreWithLock(t *testing.T) {
	store := newTestSqliteStore(t)
	ran := false
	err := store.WithLock(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}
