package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachadex/catalogsync/internal/adapters/driven/catalogfile"
	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

func seedCatalogs(t *testing.T, settings domain.Settings) *catalogfile.Files {
	t.Helper()
	files := catalogfile.New(settings.Paths)
	require.NoError(t, files.SaveCharacters([]domain.Character{
		{EnkaID: 10000002, Code: "Ayaka", Rank: 5},
		{EnkaID: 10000006, Code: "Lisa", Rank: 4},
	}))
	require.NoError(t, files.SaveWeapons([]domain.Weapon{{EnkaID: 11501, Rank: 5}}))
	return files
}

func TestSyncCmd_AllCatalogs(t *testing.T) {
	settings := testSettings(t)
	stubSettings(t, settings)
	files := seedCatalogs(t, settings)

	stdout, _, err := execute(t, "sync")

	require.NoError(t, err)
	assert.Contains(t, stdout, "agents: 2 records")
	assert.Contains(t, stdout, "engines: 1 records")
	assert.Contains(t, stdout, "(2 backfilled)")

	characters, err := files.LoadCharacters()
	require.NoError(t, err)
	for _, c := range characters {
		assert.False(t, c.ID.IsZero())
	}
}

func TestSyncCmd_SelectedCatalog(t *testing.T) {
	settings := testSettings(t)
	stubSettings(t, settings)
	files := seedCatalogs(t, settings)

	stdout, _, err := execute(t, "sync", "engines")

	require.NoError(t, err)
	assert.Contains(t, stdout, "engines: 1 records")
	assert.NotContains(t, stdout, "agents")

	characters, err := files.LoadCharacters()
	require.NoError(t, err)
	assert.True(t, characters[0].ID.IsZero())
}

func TestSyncCmd_WatchLogsFirstRunFailure(t *testing.T) {
	settings := testSettings(t)
	stubSettings(t, settings)
	require.NoError(t, os.WriteFile(settings.Paths.Characters, []byte("{"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stderr, err := executeContext(t, ctx, "sync", "agents", "--watch")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Sync failed")
	assert.Contains(t, stderr, "agents")
}

func TestSyncCmd_SQLiteStore(t *testing.T) {
	dataDir := t.TempDir()
	settings := testSettings(t)
	settings.Store = domain.StoreSettings{Driver: domain.StoreDriverMongo, Path: dataDir}
	stubSettings(t, settings)
	files := seedCatalogs(t, settings)

	_, _, err := execute(t, "sync", "agents", "--store", "sqlite")
	require.NoError(t, err)
	first, err := files.LoadCharacters()
	require.NoError(t, err)

	stdout, _, err := execute(t, "sync", "agents", "--store", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(0 backfilled)")

	second, err := files.LoadCharacters()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.FileExists(t, filepath.Join(dataDir, "catalog.db"))
}

func TestSyncCmd_SQLiteIgnoresDatabaseURL(t *testing.T) {
	dataDir := t.TempDir()
	settings := testSettings(t)
	settings.Store = domain.StoreSettings{
		Driver: domain.StoreDriverMongo,
		URI:    "mongodb://localhost:27017",
		Path:   dataDir,
	}
	stubSettings(t, settings)
	seedCatalogs(t, settings)

	_, _, err := execute(t, "sync", "agents", "--store", "sqlite")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dataDir, "catalog.db"))
	assert.NoDirExists(t, "mongodb:")
}

func TestSyncCmd_MongoRequiresURI(t *testing.T) {
	settings := testSettings(t)
	settings.Store = domain.StoreSettings{Driver: domain.StoreDriverMongo}
	stubSettings(t, settings)

	_, _, err := execute(t, "sync")

	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestSyncCmd_UnknownStoreDriver(t *testing.T) {
	stubSettings(t, testSettings(t))

	_, _, err := execute(t, "sync", "--store", "postgres")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestSyncCmd_InvalidCatalog(t *testing.T) {
	stubSettings(t, testSettings(t))

	_, _, err := execute(t, "sync", "enemies")

	assert.Error(t, err)
}

type closeTracker struct {
	driven.Database
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestSyncCmd_ClosesDatabase(t *testing.T) {
	settings := testSettings(t)
	stubSettings(t, settings)
	seedCatalogs(t, settings)

	tracker := &closeTracker{}
	original := openDatabase
	openDatabase = func(ctx context.Context, s domain.StoreSettings) (driven.Database, error) {
		db, err := original(ctx, s)
		tracker.Database = db
		return tracker, err
	}
	t.Cleanup(func() { openDatabase = original })

	_, _, err := execute(t, "sync")

	require.NoError(t, err)
	assert.True(t, tracker.closed)
}

func TestCatalogPaths(t *testing.T) {
	paths := domain.PathSettings{Characters: "c.json", Weapons: "w.json", Avatars: "a.json"}

	assert.Equal(t, []string{"c.json", "w.json"}, catalogPaths(paths, nil))
	assert.Equal(t, []string{"w.json"}, catalogPaths(paths, []domain.Catalog{domain.CatalogEngines}))
}
