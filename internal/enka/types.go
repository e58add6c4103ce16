package enka

type AvatarInfo struct {
	AvatarID  int         `json:"avatarId"`
	EquipList []EquipItem `json:"equipList"`
}

type EquipItem struct {
	ItemID    int             `json:"itemId"`
	Reliquary *EquipReliquary `json:"reliquary,omitempty"`
	Flat      EquipFlat       `json:"flat"`
}

type EquipReliquary struct {
	Level int `json:"level"`
}

type Mainstat struct {
	MainPropID string  `json:"mainPropId"`
	StatValue  float64 `json:"statValue"`
}

type EquipFlat struct {
	ItemType  string `json:"itemType"`
	EquipType string `json:"equipType"`

	SetNameTextMapHash string `json:"setNameTextMapHash"`
	RankLevel          int    `json:"rankLevel"`

	ReliquaryMainstat *Mainstat `json:"reliquaryMainstat,omitempty"`

	ReliquarySubstats []struct {
		AppendPropID string  `json:"appendPropId"`
		StatValue    float64 `json:"statValue"`
	} `json:"reliquarySubstats,omitempty"`
}
