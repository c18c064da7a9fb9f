package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aatumaykin/slacknuke/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	return NewStore(filepath.Join(t.TempDir(), "processed_conversations.json"), log)
}

func TestStore_Load_MissingFile(t *testing.T) {
	store := newTestStore(t)

	set, err := store.Load()

	// Should return empty set and no error
	assert.NoError(t, err)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	set := NewSet()
	set.Add("C0000000001")
	set.Add("D0000000002")
	set.Add("G0000000003")

	require.NoError(t, store.Save(set))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
	assert.True(t, loaded.Contains("C0000000001"))
	assert.True(t, loaded.Contains("D0000000002"))
	assert.True(t, loaded.Contains("G0000000003"))
	assert.False(t, loaded.Contains("C0000000099"))
}

func TestStore_Save_FlatJSONArray(t *testing.T) {
	store := newTestStore(t)

	set := NewSet()
	set.Add("C2")
	set.Add("C1")
	require.NoError(t, store.Save(set))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	// Sorted flat array, no wrapper object
	assert.JSONEq(t, `["C1","C2"]`, string(data))
}

func TestStore_Save_Overwrites(t *testing.T) {
	store := newTestStore(t)

	first := NewSet()
	first.Add("C1")
	first.Add("C2")
	require.NoError(t, store.Save(first))

	second := NewSet()
	second.Add("C3")
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.True(t, loaded.Contains("C3"))
	assert.False(t, loaded.Contains("C1"))
}

func TestStore_Load_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestStore_Load_DeduplicatesEntries(t *testing.T) {
	store := newTestStore(t)
	// A hand-edited or legacy file may contain duplicates
	require.NoError(t, os.WriteFile(store.Path(), []byte(`["C1","C1","C2"]`), 0644))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestStore_Save_CreatesDirectory(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state", "cache.json")
	store := NewStore(path, log)

	set := NewSet()
	set.Add("C1")
	require.NoError(t, store.Save(set))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)

	set := NewSet()
	set.Add("C1")
	require.NoError(t, store.Save(set))

	require.NoError(t, store.Clear())

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))

	// Clearing again is fine
	assert.NoError(t, store.Clear())
}
