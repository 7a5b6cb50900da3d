package driven

import "github.com/gachadex/catalogsync/internal/core/domain"

// CatalogFiles persists catalog collections between runs.
// Loading a file that does not exist yields an empty collection.
type CatalogFiles interface {
	LoadCharacters() ([]domain.Character, error)
	SaveCharacters(characters []domain.Character) error

	LoadWeapons() ([]domain.Weapon, error)
	SaveWeapons(weapons []domain.Weapon) error

	LoadAvatars() ([]domain.Avatar, error)
	SaveAvatars(avatars []domain.Avatar) error
}
