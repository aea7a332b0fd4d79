package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		dir := filepath.Join(tmpDir, "astba")

		store, err := NewStore(dir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("missing session file reads as empty", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		assert.Empty(t, store.Get(KeyToken))
		assert.Empty(t, store.Permissions())
	})
}

func TestStore_SetGetRemove(t *testing.T) {
	t.Run("set is immediately visible", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set(KeyToken, "abc123"))
		assert.Equal(t, "abc123", store.Get(KeyToken))
	})

	t.Run("values survive a second store instance", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyEmail, "admin@astba.fr"))

		reopened, err := NewStore(dir)
		require.NoError(t, err)
		assert.Equal(t, "admin@astba.fr", reopened.Get(KeyEmail))
	})

	t.Run("session file is private", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyToken, "secret"))

		info, err := os.Stat(filepath.Join(dir, "session.json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("remove deletes a single key", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyToken, "abc123"))
		require.NoError(t, store.Set(KeyRole, "ADMIN"))

		require.NoError(t, store.Remove(KeyToken))

		assert.Empty(t, store.Get(KeyToken))
		assert.Equal(t, "ADMIN", store.Get(KeyRole))
	})

	t.Run("removing an absent key is not an error", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		assert.NoError(t, store.Remove(KeyToken))
	})
}

func TestStore_Clear(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range AllKeys {
		require.NoError(t, store.Set(key, "value"))
	}

	require.NoError(t, store.Clear())

	for _, key := range AllKeys {
		assert.Empty(t, store.Get(key), key)
	}
}

func TestStore_Permissions(t *testing.T) {
	t.Run("round-trips an ordered list", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		perms := []string{"ATTENDANCE_MARK", "TRAININGS_VIEW"}
		require.NoError(t, store.SetPermissions(perms))
		assert.Equal(t, perms, store.Permissions())
	})

	t.Run("corrupted value yields empty without error", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set(KeyPermissions, "{not json"))
		assert.Equal(t, []string{}, store.Permissions())
	})

	t.Run("nil persists as empty list", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetPermissions(nil))
		assert.Equal(t, []string{}, store.Permissions())
	})
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("garbage"), 0600))

	assert.Empty(t, store.Get(KeyToken))
	assert.NoError(t, store.Set(KeyToken, "fresh"))
	assert.Equal(t, "fresh", store.Get(KeyToken))
}
