package cli

import (
	"context"
	"fmt"

	"github.com/gachadex/catalogsync/internal/adapters/driven/catalogfile"
	"github.com/gachadex/catalogsync/internal/adapters/driven/config/file"
	"github.com/gachadex/catalogsync/internal/adapters/driven/images"
	"github.com/gachadex/catalogsync/internal/adapters/driven/storage/memory"
	"github.com/gachadex/catalogsync/internal/adapters/driven/storage/mongo"
	"github.com/gachadex/catalogsync/internal/adapters/driven/storage/sqlite"
	"github.com/gachadex/catalogsync/internal/connectors/enka"
	"github.com/gachadex/catalogsync/internal/connectors/github"
	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
	"github.com/gachadex/catalogsync/internal/core/ports/driving"
	"github.com/gachadex/catalogsync/internal/core/services"
)

// Constructors used by the commands. Tests replace them.
var (
	loadSettings     = defaultLoadSettings
	openConfig       = defaultOpenConfig
	checkCredentials = defaultCheckCredentials
	buildRefresher   = defaultRefresher
	openDatabase     = defaultOpenDatabase
)

// defaultOpenConfig opens the TOML config under --config-dir.
func defaultOpenConfig() (driven.ConfigStore, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

// defaultLoadSettings reads the TOML config and the environment.
func defaultLoadSettings() (domain.Settings, error) {
	store, err := openConfig()
	if err != nil {
		return domain.Settings{}, err
	}
	return services.LoadSettings(store)
}

// defaultCheckCredentials verifies the GitHub token before an upload run.
func defaultCheckCredentials(ctx context.Context, settings domain.GitHubSettings) error {
	return github.NewClientWithToken(ctx, settings.Token).ValidateCredentials(ctx)
}

// defaultRefresher wires the ingestion pipeline to the upstream source,
// the image host and the CDN repository.
func defaultRefresher(ctx context.Context, settings domain.Settings) (driving.Refresher, error) {
	client := github.NewClientWithToken(ctx, settings.GitHub.Token)
	return services.NewRefresher(
		enka.NewClient(settings.SourceURL, settings.Locales, nil),
		images.NewFetcher(nil, images.DefaultRate),
		images.NewConverter(),
		github.NewPublisher(client, settings.GitHub),
		catalogfile.New(settings.Paths),
		settings,
	), nil
}

// defaultOpenDatabase connects to the configured record store.
// The caller must Close the returned database.
func defaultOpenDatabase(ctx context.Context, settings domain.StoreSettings) (driven.Database, error) {
	switch settings.Driver {
	case domain.StoreDriverMongo:
		store, err := mongo.Connect(ctx, settings.URI, settings.Database)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.StoreDriverSQLite:
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.StoreDriverMemory:
		return memory.NewDatabase(), nil
	default:
		return nil, fmt.Errorf("%w: store driver %q", domain.ErrUnsupportedType, settings.Driver)
	}
}
