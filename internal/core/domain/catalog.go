package domain

import "time"

// Catalog names a store collection fed from one catalog file.
type Catalog string

// Known catalogs.
const (
	// CatalogAgents holds playable characters.
	CatalogAgents Catalog = "agents"

	// CatalogEngines holds weapons.
	CatalogEngines Catalog = "engines"
)

// KeyField is the store field holding the upstream catalog ID.
const KeyField = "enkaId"

// AllCatalogs returns every catalog in sync order.
func AllCatalogs() []Catalog {
	return []Catalog{CatalogAgents, CatalogEngines}
}

// IsValid returns true if the catalog is recognised.
func (c Catalog) IsValid() bool {
	switch c {
	case CatalogAgents, CatalogEngines:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Catalog) String() string {
	return string(c)
}

// ElementCode maps upstream element names to catalog attribute codes.
var ElementCode = map[string]int{
	"Electric": 14,
	"Fire":     17,
	"Grass":    13,
	"Ice":      12,
	"Rock":     15,
	"Water":    16,
	"Wind":     11,
}

// WeaponTypeCode maps upstream weapon types to catalog specialty codes.
var WeaponTypeCode = map[string]int{
	"WEAPON_SWORD_ONE_HAND": 5,
	"WEAPON_CLAYMORE":       3,
	"WEAPON_POLE":           4,
	"WEAPON_CATALYST":       2,
	"WEAPON_BOW":            1,
}

// Character is a playable character entry in the characters catalog file.
type Character struct {
	ID          ID     `json:"_id,omitempty" yaml:"_id,omitempty"`
	EnkaID      int    `json:"id" yaml:"id"`
	Code        string `json:"code" yaml:"code"`
	Rank        int    `json:"rank" yaml:"rank"`
	Type        int    `json:"type" yaml:"type"`
	Element     int    `json:"element" yaml:"element"`
	En          string `json:"en" yaml:"en"`
	Ru          string `json:"ru" yaml:"ru"`
	Icon        string `json:"icon" yaml:"icon"`
	GachaCard   string `json:"gachaCard" yaml:"gachaCard"`
	GachaSplash string `json:"gachaSplash" yaml:"gachaSplash"`
}

// Record serialises the character into its store record.
func (c Character) Record() Record {
	return Record{
		Key: KeyFromInt(c.EnkaID),
		ID:  c.ID,
		Fields: Fields{
			"name":        map[string]any{"en": c.En, "ru": c.Ru},
			"rarity":      c.Rank,
			"specialty":   c.Type,
			"attribute":   c.Element,
			"iconSrc":     c.Icon,
			"gachaCard":   c.GachaCard,
			"gachaSplash": c.GachaSplash,
		},
	}
}

// Weapon is a weapon entry in the weapons catalog file.
type Weapon struct {
	ID     ID     `json:"_id,omitempty" yaml:"_id,omitempty"`
	EnkaID int    `json:"id" yaml:"id"`
	Rank   int    `json:"rank" yaml:"rank"`
	Type   int    `json:"type" yaml:"type"`
	En     string `json:"en" yaml:"en"`
	Ru     string `json:"ru" yaml:"ru"`
	Icon   string `json:"icon" yaml:"icon"`
}

// Record serialises the weapon into its store record.
func (w Weapon) Record() Record {
	return Record{
		Key: KeyFromInt(w.EnkaID),
		ID:  w.ID,
		Fields: Fields{
			"title":     map[string]any{"en": w.En, "ru": w.Ru},
			"rarity":    w.Rank,
			"specialty": w.Type,
			"iconSrc":   w.Icon,
		},
	}
}

// Avatar is a profile picture entry in the avatars catalog file.
type Avatar struct {
	AvatarSrc string    `json:"avatarSrc" yaml:"avatarSrc"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// SourceCharacter is character metadata as reported by the catalog source.
type SourceCharacter struct {
	ID int

	// Code is the internal name, e.g. "Ayaka".
	Code string

	// IconName is the icon asset name, e.g. "UI_AvatarIcon_Ayaka".
	IconName string

	// IconURL is where the source serves the icon.
	IconURL string

	Element    string
	Stars      int
	WeaponType string

	// Names holds the display name per locale.
	Names map[string]string
}

// SourceWeapon is weapon metadata as reported by the catalog source.
type SourceWeapon struct {
	ID         int
	Code       string
	Stars      int
	WeaponType string

	// AwakenIcon is the ascended icon asset name.
	AwakenIcon string

	Names map[string]string
}

// ProfilePicture is a profile picture reported by the catalog source.
type ProfilePicture struct {
	ID       int
	IconPath string
}
