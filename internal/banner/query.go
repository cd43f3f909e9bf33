package banner

import (
	"fmt"
	"sort"
	"strings"
)

// FilterType selects banners by Type; FilterAll keeps everything.
type FilterType string

const FilterAll FilterType = "All"

// SortOption orders a banner list.
type SortOption string

const (
	SortDateAsc  SortOption = "date-asc"
	SortDateDesc SortOption = "date-desc"
	SortName     SortOption = "name"
	SortRarity   SortOption = "rarity"
)

// Query is a search, type filter and ordering over active banners.
type Query struct {
	Search string
	Type   FilterType
	Sort   SortOption
}

// ParseQuery validates raw query values. Empty type means All, empty sort
// means date-asc.
func ParseQuery(search, typ, sortBy string) (Query, error) {
	q := Query{Search: strings.TrimSpace(search), Type: FilterAll, Sort: SortDateAsc}
	switch FilterType(typ) {
	case "", FilterAll:
	case FilterType(TypeNew), FilterType(TypeRerun), FilterType(TypeFes), FilterType(TypeCollab):
		q.Type = FilterType(typ)
	default:
		return Query{}, fmt.Errorf("unknown banner type %q", typ)
	}
	switch SortOption(sortBy) {
	case "":
	case SortDateAsc, SortDateDesc, SortName, SortRarity:
		q.Sort = SortOption(sortBy)
	default:
		return Query{}, fmt.Errorf("unknown sort option %q", sortBy)
	}
	return q, nil
}

// Apply returns a new slice with q applied; banners is not modified.
// Search matches any character name, case-insensitively.
func Apply(banners []Banner, q Query) []Banner {
	out := make([]Banner, 0, len(banners))
	needle := strings.ToLower(q.Search)
	for _, b := range banners {
		if needle != "" && !hasCharacter(b, needle) {
			continue
		}
		if q.Type != "" && q.Type != FilterAll && Type(q.Type) != b.Type {
			continue
		}
		out = append(out, b)
	}

	switch q.Sort {
	case SortDateAsc, "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	case SortRarity:
		sort.SliceStable(out, func(i, j int) bool { return out[i].MaxRarity() > out[j].MaxRarity() })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := leadName(out[i]), leadName(out[j])
			if a == "" || b == "" {
				return b == "" && a != ""
			}
			return a < b
		})
	}
	return out
}

func hasCharacter(b Banner, needle string) bool {
	for _, c := range b.Characters {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	return false
}

func leadName(b Banner) string {
	if len(b.Characters) == 0 {
		return ""
	}
	return strings.ToLower(b.Characters[0].Name)
}
