package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_IsValid(t *testing.T) {
	assert.True(t, CatalogAgents.IsValid())
	assert.True(t, CatalogEngines.IsValid())
	assert.False(t, Catalog("enemies").IsValid())
	assert.False(t, Catalog("").IsValid())
	assert.Equal(t, []Catalog{CatalogAgents, CatalogEngines}, AllCatalogs())
}

func TestCharacter_Record(t *testing.T) {
	c := Character{
		ID:          "abc",
		EnkaID:      10000002,
		Code:        "Ayaka",
		Rank:        5,
		Type:        WeaponTypeCode["WEAPON_SWORD_ONE_HAND"],
		Element:     ElementCode["Ice"],
		En:          "Kamisato Ayaka",
		Ru:          "Камисато Аяка",
		Icon:        "https://cdn.test/icons/10000002.png",
		GachaCard:   "https://cdn.test/gacha-card/10000002.webp",
		GachaSplash: "https://cdn.test/gacha-splash/10000002.webp",
	}

	r := c.Record()

	assert.Equal(t, Key("10000002"), r.Key)
	assert.Equal(t, ID("abc"), r.ID)
	assert.Equal(t, Fields{
		"name":        map[string]any{"en": "Kamisato Ayaka", "ru": "Камисато Аяка"},
		"rarity":      5,
		"specialty":   5,
		"attribute":   12,
		"iconSrc":     "https://cdn.test/icons/10000002.png",
		"gachaCard":   "https://cdn.test/gacha-card/10000002.webp",
		"gachaSplash": "https://cdn.test/gacha-splash/10000002.webp",
	}, r.Fields)
	assert.NotContains(t, r.Fields, IDField)
	assert.NotContains(t, r.Fields, "code")
}

func TestWeapon_Record(t *testing.T) {
	w := Weapon{EnkaID: 11501, Rank: 5, Type: 5, En: "Aquila Favonia", Ru: "Меч Фавония", Icon: "https://cdn.test/w.png"}

	r := w.Record()

	assert.Equal(t, Key("11501"), r.Key)
	assert.True(t, r.ID.IsZero())
	assert.Equal(t, Fields{
		"title":     map[string]any{"en": "Aquila Favonia", "ru": "Меч Фавония"},
		"rarity":    5,
		"specialty": 5,
		"iconSrc":   "https://cdn.test/w.png",
	}, r.Fields)
}

func TestCodeMaps(t *testing.T) {
	assert.Len(t, ElementCode, 7)
	assert.Equal(t, 17, ElementCode["Fire"])
	assert.Equal(t, 11, ElementCode["Wind"])

	assert.Len(t, WeaponTypeCode, 5)
	assert.Equal(t, 1, WeaponTypeCode["WEAPON_BOW"])
	assert.Equal(t, 3, WeaponTypeCode["WEAPON_CLAYMORE"])
}

func TestAvatar_ZeroValue(t *testing.T) {
	var a Avatar
	assert.True(t, a.CreatedAt.Equal(time.Time{}))
	assert.Empty(t, a.AvatarSrc)
}
