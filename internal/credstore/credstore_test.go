package credstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadClear(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "creds.db"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token, "fresh store holds no credential")

	require.NoError(t, store.Save("jwt-token"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	require.NoError(t, store.Save("newer-token"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "newer-token", token, "saving overwrites the single slot")

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// clearing an empty store is fine
	require.NoError(t, store.Clear())
}

func TestCredentialSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("persisted-token"))
	require.NoError(t, store.Close())

	reopened := openTestStore(t, path)
	token, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted-token", token)
}
