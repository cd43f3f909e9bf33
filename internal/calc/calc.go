// Package calc holds the resource and experience calculators: bond EXP,
// character EXP reports and rarity promotion fragments. Everything here is
// a pure function of its inputs and the static tables a Calculator is
// built from.
package calc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Tables is the static game data a Calculator is built from.
type Tables struct {
	Bond        *Table
	Character   *Table
	BondSources []BondSource
	Pace        PaceRates

	// Books are the character EXP report denominations. Order does not
	// matter on input; New sorts them highest value first.
	Books         []Denomination
	CreditsPerExp int

	Promotions []Requirement
	// WeaponUpgrades[i] is the fragment cost of weapon rank i+1.
	WeaponUpgrades []int
	Eligma         EligmaTiers
}

// Calculator evaluates plans against one immutable set of tables.
// It is safe for concurrent use.
type Calculator struct {
	bond        *Table
	chara       *Table
	bondSources []BondSource
	pace        PaceRates

	books         []Denomination
	creditsPerExp int

	promotions map[rarityPair]Requirement
	maxRarity  int
	weapon     []int
	eligma     EligmaTiers
}

// New checks t and builds a Calculator. The slices in t are copied.
func New(t Tables) (*Calculator, error) {
	var errs []string
	if t.Bond == nil {
		errs = append(errs, "bond table is required")
	}
	if t.Character == nil {
		errs = append(errs, "character table is required")
	}
	if len(t.BondSources) == 0 {
		errs = append(errs, "at least one bond source is required")
	}
	for _, s := range t.BondSources {
		if s.Exp <= 0 {
			errs = append(errs, fmt.Sprintf("bond source %q must have exp > 0", s.Key))
		}
	}
	if len(t.Books) == 0 {
		errs = append(errs, "at least one exp report denomination is required")
	}
	seen := map[string]bool{}
	for _, b := range t.Books {
		if b.Value <= 0 {
			errs = append(errs, fmt.Sprintf("denomination %q must have value > 0", b.Key))
		}
		if seen[b.Key] {
			errs = append(errs, fmt.Sprintf("duplicate denomination %q", b.Key))
		}
		seen[b.Key] = true
	}
	if t.CreditsPerExp < 0 {
		errs = append(errs, "credits per exp must be >= 0")
	}
	if len(t.Promotions) == 0 {
		errs = append(errs, "promotion table is empty")
	}
	if t.Eligma.BatchSize <= 0 || len(t.Eligma.Prices) == 0 {
		errs = append(errs, "eligma tiers need batch size > 0 and at least one price")
	}
	if len(errs) > 0 {
		return nil, errors.New("calculator tables invalid: " + strings.Join(errs, "; "))
	}

	books := append([]Denomination(nil), t.Books...)
	sort.SliceStable(books, func(i, j int) bool { return books[i].Value > books[j].Value })

	promos := make(map[rarityPair]Requirement, len(t.Promotions))
	maxRarity := 0
	for _, r := range t.Promotions {
		promos[rarityPair{r.From, r.To}] = r
		if r.To > maxRarity {
			maxRarity = r.To
		}
	}

	return &Calculator{
		bond:          t.Bond,
		chara:         t.Character,
		bondSources:   append([]BondSource(nil), t.BondSources...),
		pace:          t.Pace,
		books:         books,
		creditsPerExp: t.CreditsPerExp,
		promotions:    promos,
		maxRarity:     maxRarity,
		weapon:        append([]int(nil), t.WeaponUpgrades...),
		eligma: EligmaTiers{
			BatchSize: t.Eligma.BatchSize,
			Prices:    append([]int(nil), t.Eligma.Prices...),
		},
	}, nil
}

// BondTable exposes the bond level table.
func (c *Calculator) BondTable() *Table { return c.bond }

// CharacterTable exposes the character level table.
func (c *Calculator) CharacterTable() *Table { return c.chara }

// Books returns the report denominations, highest value first.
func (c *Calculator) Books() []Denomination {
	return append([]Denomination(nil), c.books...)
}
