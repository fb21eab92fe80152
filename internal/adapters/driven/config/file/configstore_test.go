package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_Defaults(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, "", store.GetString(driven.ConfigKeyAPIToken))
	assert.False(t, store.GetBool(driven.ConfigKey12HourClock))
}

func TestConfigStore_SetSaveLoad(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	store.Set(driven.ConfigKeyAPIToken, "secret-token")
	store.Set(driven.ConfigKey12HourClock, true)
	store.Set(driven.ConfigKeyDocID, "doc-1")
	require.NoError(t, store.Save())

	// A fresh store over the same directory sees the persisted values.
	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", reloaded.GetString(driven.ConfigKeyAPIToken))
	assert.True(t, reloaded.GetBool(driven.ConfigKey12HourClock))
	assert.Equal(t, "doc-1", reloaded.GetString(driven.ConfigKeyDocID))
}

func TestConfigStore_Delete(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	store.Set(driven.ConfigKeyAPIToken, "secret-token")
	require.NoError(t, store.Save())

	store.Delete(driven.ConfigKeyAPIToken)
	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "", reloaded.GetString(driven.ConfigKeyAPIToken))
}

func TestConfigStore_WrongTypeReadsAsZero(t *testing.T) {
	store := newTestStore(t)

	store.Set(driven.ConfigKeyDocID, 42)
	assert.Equal(t, "", store.GetString(driven.ConfigKeyDocID))
	assert.False(t, store.GetBool(driven.ConfigKeyDocID))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	store.Set(driven.ConfigKeyAPIToken, "secret-token")
	require.NoError(t, store.Save())

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
