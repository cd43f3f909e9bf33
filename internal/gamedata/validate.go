package gamedata

import (
	"fmt"
	"strings"
)

// ValidateRaw checks semantic constraints of a merged RawConfig. All three
// sections must be present after merging.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// bond
	if cfg.Bond == nil {
		errs = append(errs, "bond section is missing")
	} else {
		errs = append(errs, validateLevels("bond.levels", cfg.Bond.Levels)...)
		if len(cfg.Bond.Sources) == 0 {
			errs = append(errs, "bond.sources must not be empty")
		}
		keys := map[string]bool{}
		for i, s := range cfg.Bond.Sources {
			if s.Key == "" {
				errs = append(errs, fmt.Sprintf("bond.sources[%d].key is required", i))
			}
			if keys[s.Key] {
				errs = append(errs, fmt.Sprintf("bond.sources[%d].key %q is duplicated", i, s.Key))
			}
			keys[s.Key] = true
			if s.Exp <= 0 {
				errs = append(errs, fmt.Sprintf("bond.sources[%d].exp must be > 0", i))
			}
		}
		if p := cfg.Bond.Pace; p == nil {
			errs = append(errs, "bond.pace is missing")
		} else {
			fields := []struct {
				name string
				v    *int
			}{
				{"pat_exp", p.PatExp}, {"gift_exp", p.GiftExp}, {"base_monthly", p.BaseMonthly},
				{"max_pats", p.MaxPats}, {"max_gifts", p.MaxGifts},
			}
			for _, f := range fields {
				if f.v == nil {
					errs = append(errs, "bond.pace."+f.name+" is required")
				} else if *f.v < 0 {
					errs = append(errs, "bond.pace."+f.name+" must be >= 0")
				}
			}
		}
	}

	// character
	if cfg.Character == nil {
		errs = append(errs, "character section is missing")
	} else {
		errs = append(errs, validateLevels("character.levels", cfg.Character.Levels)...)
		if len(cfg.Character.Books) == 0 {
			errs = append(errs, "character.books must not be empty")
		}
		for i, b := range cfg.Character.Books {
			if b.Key == "" {
				errs = append(errs, fmt.Sprintf("character.books[%d].key is required", i))
			}
			if b.Value <= 0 {
				errs = append(errs, fmt.Sprintf("character.books[%d].value must be > 0", i))
			}
		}
		if cfg.Character.CreditsPerExp == nil {
			errs = append(errs, "character.credits_per_exp is required")
		} else if *cfg.Character.CreditsPerExp < 0 {
			errs = append(errs, "character.credits_per_exp must be >= 0")
		}
	}

	// promotion
	if cfg.Promotion == nil {
		errs = append(errs, "promotion section is missing")
	} else {
		if len(cfg.Promotion.Requirements) == 0 {
			errs = append(errs, "promotion.requirements must not be empty")
		}
		pairs := map[[2]int]bool{}
		for i, r := range cfg.Promotion.Requirements {
			if r.From < 1 || r.From >= r.To {
				errs = append(errs, fmt.Sprintf("promotion.requirements[%d] must satisfy 1 <= from < to", i))
			}
			if r.Fragments <= 0 || r.Cost < 0 {
				errs = append(errs, fmt.Sprintf("promotion.requirements[%d] needs fragments > 0 and cost >= 0", i))
			}
			k := [2]int{r.From, r.To}
			if pairs[k] {
				errs = append(errs, fmt.Sprintf("promotion.requirements[%d] duplicates %d-%d", i, r.From, r.To))
			}
			pairs[k] = true
		}
		for i, w := range cfg.Promotion.WeaponUpgrades {
			if w <= 0 {
				errs = append(errs, fmt.Sprintf("promotion.weapon_upgrades[%d] must be > 0", i))
			}
		}
		if e := cfg.Promotion.Eligma; e == nil {
			errs = append(errs, "promotion.eligma is missing")
		} else {
			if e.BatchSize == nil || *e.BatchSize <= 0 {
				errs = append(errs, "promotion.eligma.batch_size must be >= 1")
			}
			if len(e.Prices) == 0 {
				errs = append(errs, "promotion.eligma.prices must not be empty")
			}
			for i, p := range e.Prices {
				if p <= 0 {
					errs = append(errs, fmt.Sprintf("promotion.eligma.prices[%d] must be > 0", i))
				}
				if i > 0 && p < e.Prices[i-1] {
					errs = append(errs, fmt.Sprintf("promotion.eligma.prices[%d] must not be below the previous tier", i))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("game data validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLevels(field string, rows []LevelRow) []string {
	var errs []string
	if len(rows) < 2 {
		return append(errs, field+" needs at least 2 rows")
	}
	for i, r := range rows {
		if r.Level != i+1 {
			errs = append(errs, fmt.Sprintf("%s[%d].level must be %d, got %d", field, i, i+1, r.Level))
		}
		if i == 0 && r.Total != 0 {
			errs = append(errs, fmt.Sprintf("%s[0].total must be 0", field))
		}
		if i > 0 && r.Total <= rows[i-1].Total {
			errs = append(errs, fmt.Sprintf("%s[%d].total must be above the previous level", field, i))
		}
	}
	return errs
}
