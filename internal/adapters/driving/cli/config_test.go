package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachadex/catalogsync/internal/adapters/driven/config/file"
	"github.com/gachadex/catalogsync/internal/core/domain"
)

func TestConfigCmd_SetThenGet(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "config", "set", "exclude.weapons", "11419, 11420", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "exclude.weapons = 11419,11420")

	stdout, _, err = execute(t, "config", "get", "exclude.weapons", "--config-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "11419,11420\n", stdout)

	data, err := os.ReadFile(filepath.Join(dir, file.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[exclude]")
}

func TestConfigCmd_SetFeedsSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_PATH", "")

	_, _, err := execute(t, "config", "set", "store.driver", "SQLite", "--config-dir", dir)
	require.NoError(t, err)
	_, _, err = execute(t, "config", "set", "store.path", "/srv/catalog", "--config-dir", dir)
	require.NoError(t, err)

	configDir = dir
	t.Cleanup(func() { configDir = "" })
	settings, err := loadSettings()
	require.NoError(t, err)

	assert.Equal(t, domain.StoreDriverSQLite, settings.Store.Driver)
	assert.Equal(t, "/srv/catalog", settings.Store.Path)
}

func TestConfigCmd_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "config", "set", "images.concurrency", "lots", "--config-dir", dir)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = execute(t, "config", "set", "github.password", "x", "--config-dir", dir)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.NoFileExists(t, filepath.Join(dir, file.FileName))
}

func TestConfigCmd_GetUnset(t *testing.T) {
	_, _, err := execute(t, "config", "get", "github.repo", "--config-dir", t.TempDir())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfigCmd_Path(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "config", "path", "--config-dir", dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, file.FileName)+"\n", stdout)
}

func TestFormatConfigValue(t *testing.T) {
	assert.Equal(t, "en,ru", formatConfigValue([]string{"en", "ru"}))
	assert.Equal(t, "1,2", formatConfigValue([]any{int64(1), int64(2)}))
	assert.Equal(t, "main", formatConfigValue("main"))
	assert.Equal(t, "4", formatConfigValue(int64(4)))
}
