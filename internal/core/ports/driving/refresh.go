package driving

import "context"

// RefreshOptions controls side effects of an ingestion run.
type RefreshOptions struct {
	// Upload publishes downloaded images to the CDN repository.
	Upload bool

	// Write persists the resulting collection to its catalog file.
	Write bool
}

// RefreshResult summarises an ingestion run.
type RefreshResult struct {
	// Kind is the collection that was refreshed.
	Kind string

	// Entries is the number of entries in the resulting collection.
	Entries int

	// Skipped is the number of source entries dropped due to errors.
	Skipped int
}

// Refresher ingests catalog metadata and images from the upstream source.
type Refresher interface {
	// RefreshCharacters rebuilds the characters collection.
	RefreshCharacters(ctx context.Context, opts RefreshOptions) (*RefreshResult, error)

	// RefreshWeapons rebuilds the weapons collection.
	RefreshWeapons(ctx context.Context, opts RefreshOptions) (*RefreshResult, error)

	// RefreshAvatars rebuilds the avatars collection.
	RefreshAvatars(ctx context.Context, opts RefreshOptions) (*RefreshResult, error)
}
