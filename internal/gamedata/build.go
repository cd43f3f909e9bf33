package gamedata

import (
	"fmt"

	"github.com/xtding233/ba-companion/internal/calc"
)

// Build turns a validated RawConfig into a Calculator.
func Build(cfg RawConfig) (*calc.Calculator, error) {
	if cfg.Bond == nil || cfg.Character == nil || cfg.Promotion == nil ||
		cfg.Bond.Pace == nil || cfg.Promotion.Eligma == nil ||
		cfg.Promotion.Eligma.BatchSize == nil || cfg.Character.CreditsPerExp == nil {
		return nil, fmt.Errorf("build calculator: incomplete game data (version %q)", cfg.Version)
	}

	bond, err := calc.NewTable("bond", toLevels(cfg.Bond.Levels))
	if err != nil {
		return nil, err
	}
	chara, err := calc.NewTable("character", toLevels(cfg.Character.Levels))
	if err != nil {
		return nil, err
	}

	t := calc.Tables{
		Bond:      bond,
		Character: chara,
		Pace: calc.PaceRates{
			PatExp:      deref(cfg.Bond.Pace.PatExp),
			GiftExp:     deref(cfg.Bond.Pace.GiftExp),
			BaseMonthly: deref(cfg.Bond.Pace.BaseMonthly),
			MaxPats:     deref(cfg.Bond.Pace.MaxPats),
			MaxGifts:    deref(cfg.Bond.Pace.MaxGifts),
		},
		CreditsPerExp:  *cfg.Character.CreditsPerExp,
		WeaponUpgrades: cfg.Promotion.WeaponUpgrades,
		Eligma: calc.EligmaTiers{
			BatchSize: *cfg.Promotion.Eligma.BatchSize,
			Prices:    cfg.Promotion.Eligma.Prices,
		},
	}
	for _, s := range cfg.Bond.Sources {
		t.BondSources = append(t.BondSources, calc.BondSource{Key: s.Key, Name: s.Name, Exp: s.Exp})
	}
	for _, b := range cfg.Character.Books {
		t.Books = append(t.Books, calc.Denomination{Key: b.Key, Name: b.Name, Value: b.Value})
	}
	for _, r := range cfg.Promotion.Requirements {
		t.Promotions = append(t.Promotions, calc.Requirement{From: r.From, To: r.To, Fragments: r.Fragments, Cost: r.Cost})
	}
	return calc.New(t)
}

func toLevels(rows []LevelRow) []calc.Level {
	out := make([]calc.Level, len(rows))
	for i, r := range rows {
		out[i] = calc.Level{Index: r.Level, Total: r.Total}
	}
	return out
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
