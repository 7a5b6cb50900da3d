package domain

import "fmt"

// StoreDriver identifies a record store backend.
type StoreDriver string

// Available store drivers.
const (
	// StoreDriverMongo is a MongoDB deployment.
	StoreDriverMongo StoreDriver = "mongo"

	// StoreDriverSQLite is a local SQLite database file.
	StoreDriverSQLite StoreDriver = "sqlite"

	// StoreDriverMemory keeps documents in process; useful for dry runs.
	StoreDriverMemory StoreDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StoreDriver) IsValid() bool {
	switch d {
	case StoreDriverMongo, StoreDriverSQLite, StoreDriverMemory:
		return true
	default:
		return false
	}
}

// GitHubSettings points at the repository used as an image CDN.
type GitHubSettings struct {
	Token  string
	User   string
	Repo   string
	Branch string
}

// Validate checks that the repository coordinates are present.
func (g GitHubSettings) Validate() error {
	if g.User == "" || g.Repo == "" || g.Branch == "" {
		return fmt.Errorf("%w: github user, repo and branch are required", ErrMissingConfig)
	}
	return nil
}

// StoreSettings configures the record store.
type StoreSettings struct {
	Driver StoreDriver

	// URI is the connection string for network drivers (mongo).
	URI string

	// Path is the data directory for file drivers (sqlite). Empty means
	// ~/.catalogsync/data.
	Path string

	// Database is the database name for drivers that have one.
	Database string
}

// Validate checks the store settings for the selected driver.
func (s StoreSettings) Validate() error {
	if !s.Driver.IsValid() {
		return fmt.Errorf("%w: store driver %q", ErrUnsupportedType, s.Driver)
	}
	if s.Driver == StoreDriverMongo && s.URI == "" {
		return fmt.Errorf("%w: database URL not set", ErrMissingConfig)
	}
	return nil
}

// PathSettings locates the catalog files.
type PathSettings struct {
	Characters string
	Weapons    string
	Avatars    string
}

// Settings is the resolved runtime configuration.
type Settings struct {
	GitHub GitHubSettings
	Store  StoreSettings
	Paths  PathSettings

	// SourceURL is the base URL of the catalog source's JSON stores.
	SourceURL string

	// Locales lists the name locales written to catalog entries.
	Locales []string

	// ImageConcurrency bounds parallel per-entry image work.
	ImageConcurrency int

	// ExcludedCharacters are character IDs never ingested.
	ExcludedCharacters []int

	// ExcludedWeapons are weapon IDs never ingested.
	ExcludedWeapons []int
}
