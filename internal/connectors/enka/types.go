package enka

// characterEntry is one value of characters.json.
type characterEntry struct {
	Element         string `json:"Element"`
	SideIconName    string `json:"SideIconName"`
	QualityType     string `json:"QualityType"`
	WeaponType      string `json:"WeaponType"`
	NameTextMapHash int64  `json:"NameTextMapHash"`
}

// weaponEntry is one value of weapons.json.
type weaponEntry struct {
	RankLevel       int    `json:"RankLevel"`
	WeaponType      string `json:"WeaponType"`
	AwakenIcon      string `json:"AwakenIcon"`
	NameTextMapHash int64  `json:"NameTextMapHash"`
}

// pfpEntry is one value of pfps.json.
type pfpEntry struct {
	IconPath string `json:"IconPath"`
}

// localisation maps locale -> text hash -> text.
type localisation map[string]map[string]string
