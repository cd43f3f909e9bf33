// types.go
package gamedata

// RawConfig is one YAML game data file; every section is optional so that
// override files only need to carry what they change.
type RawConfig struct {
	Version   string           `yaml:"version"`
	Bond      *BondConfig      `yaml:"bond,omitempty"`
	Character *CharacterConfig `yaml:"character,omitempty"`
	Promotion *PromotionConfig `yaml:"promotion,omitempty"`
	Notes     string           `yaml:"notes,omitempty"`
}

type LevelRow struct {
	Level int `yaml:"level"`
	Total int `yaml:"total"`
}

type BondConfig struct {
	Levels  []LevelRow  `yaml:"levels"`
	Sources []SourceRow `yaml:"sources"`
	Pace    *PaceConfig `yaml:"pace,omitempty"`
}

type SourceRow struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	Exp  int    `yaml:"exp"`
}

type PaceConfig struct {
	PatExp      *int `yaml:"pat_exp"`
	GiftExp     *int `yaml:"gift_exp"`
	BaseMonthly *int `yaml:"base_monthly"`
	MaxPats     *int `yaml:"max_pats"`
	MaxGifts    *int `yaml:"max_gifts"`
}

type CharacterConfig struct {
	Levels        []LevelRow `yaml:"levels"`
	Books         []BookRow  `yaml:"books"`
	CreditsPerExp *int       `yaml:"credits_per_exp"`
}

type BookRow struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Value int    `yaml:"value"`
}

type PromotionConfig struct {
	Requirements   []RequirementRow `yaml:"requirements"`
	WeaponUpgrades []int            `yaml:"weapon_upgrades"`
	Eligma         *EligmaConfig    `yaml:"eligma,omitempty"`
}

type RequirementRow struct {
	From      int `yaml:"from"`
	To        int `yaml:"to"`
	Fragments int `yaml:"fragments"`
	Cost      int `yaml:"cost"`
}

type EligmaConfig struct {
	BatchSize *int  `yaml:"batch_size"`
	Prices    []int `yaml:"prices"`
}
