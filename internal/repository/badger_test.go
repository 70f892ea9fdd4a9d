package repository

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	store := NewBadgerStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	store := newTestBadgerStore(t)

	type record struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	require.NoError(t, store.Set("records/a", record{Name: "a", Value: 1.5}))

	var got record
	found, err := store.Get("records/a", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a", got.Name)
	assert.InDelta(t, 1.5, got.Value, 1e-12)

	found, err = store.Get("records/missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBadgerStoreSetBatch(t *testing.T) {
	store := newTestBadgerStore(t)

	require.NoError(t, store.SetBatch(map[string]any{
		"records/a": "first",
		"records/b": "second",
	}))

	var value string
	for key, want := range map[string]string{"records/a": "first", "records/b": "second"} {
		found, err := store.Get(key, &value)
		require.NoError(t, err)
		require.True(t, found, key)
		assert.Equal(t, want, value)
	}
}

func TestBadgerStoreListPrefix(t *testing.T) {
	store := newTestBadgerStore(t)

	require.NoError(t, store.Set("records/a", 1))
	require.NoError(t, store.Set("records/b", 2))
	require.NoError(t, store.Set("other/c", 3))

	var keys []string
	err := store.List("records/", func(key string, value []byte) error {
		keys = append(keys, key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"records/a", "records/b"}, keys)
}
