package driven

import (
	"context"

	"github.com/gachadex/catalogsync/internal/core/domain"
)

// CatalogSource fetches game metadata from the upstream data source.
type CatalogSource interface {
	// Characters returns all playable characters in source order.
	Characters(ctx context.Context) ([]domain.SourceCharacter, error)

	// Weapons returns all weapons in source order.
	Weapons(ctx context.Context) ([]domain.SourceWeapon, error)

	// ProfilePictures returns all profile pictures in source order.
	ProfilePictures(ctx context.Context) ([]domain.ProfilePicture, error)
}
