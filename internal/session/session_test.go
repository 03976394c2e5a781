package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("books_data", `[{"SKU":"E01"}]`))

	value, ok, err := store.Get("books_data", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"SKU":"E01"}]`, value)
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Get("absent", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetExpiredEntry(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("books_data", "stale"))

	// A negative TTL makes any entry older than allowed.
	_, ok, err := store.Get("books_data", -time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetReplacesValue(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("books_data", "old"))
	require.NoError(t, store.Set("books_data", "new"))

	value, ok, err := store.Get("books_data", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", value)

	entries, err := store.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("books_data", "value"))
	require.NoError(t, store.Delete("books_data"))

	_, ok, err := store.Get("books_data", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete("absent"))
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("b", "2"))

	rows, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	entries, err := store.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	rows, err = store.Clear()
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestEntries(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("zeta", "12345"))
	require.NoError(t, store.Set("alpha", "xy"))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Sorted by key.
	assert.Equal(t, "alpha", entries[0].Key)
	assert.Equal(t, 2, entries[0].Size)
	assert.Equal(t, "zeta", entries[1].Key)
	assert.Equal(t, 5, entries[1].Size)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].CachedAt, time.Minute)
}

func TestOpenEmptyPathFallsBackToMemory(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set("k", "v"))
	_, ok, err := store.Get("k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}
