package calc

import (
	"fmt"
	"sort"
)

// BondSource is one way of earning bond EXP (cafe headpat, a gift tier).
type BondSource struct {
	Key  string
	Name string
	Exp  int
}

// BondResult is the EXP needed between two bond ranks.
type BondResult struct {
	From     int `json:"from"`
	To       int `json:"to"`
	TotalExp int `json:"total_exp"`
}

// BondRow is one line of the per-source reference table: how many of this
// source alone would cover TotalExp.
type BondRow struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Exp    int    `json:"exp"`
	Amount int    `json:"amount"`
}

// SortOrder orders bond rows by source EXP.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc" or "desc"; empty means desc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortDesc:
		return SortDesc, nil
	case SortAsc:
		return SortAsc, nil
	}
	return "", fmt.Errorf("%w: sort order must be asc or desc, got %q", ErrRange, s)
}

// PaceRates converts a play pace into monthly bond EXP.
type PaceRates struct {
	PatExp      int // per daily headpat
	GiftExp     int // per monthly gift
	BaseMonthly int // EXP from everything else in a month
	MaxPats     int
	MaxGifts    int
}

// BondPace is how a player earns bond EXP.
type BondPace struct {
	PatsPerDay    int `json:"pats_per_day"`
	GiftsPerMonth int `json:"gifts_per_month"`
}

// DefaultBondPace is 5 pats a day and 50 gifts a month.
var DefaultBondPace = BondPace{PatsPerDay: 5, GiftsPerMonth: 50}

// Estimate is the projected time to earn some bond EXP.
type Estimate struct {
	MonthlyGain   int  `json:"monthly_gain"`
	Months        int  `json:"months"`
	LessThanMonth bool `json:"less_than_month"`
}

// BondExpDelta returns the EXP needed to go from rank from to rank to.
func (c *Calculator) BondExpDelta(from, to int) (BondResult, error) {
	if err := validateLevelPair("bond", from, to, c.bond.MaxLevel()); err != nil {
		return BondResult{}, err
	}
	d, err := c.bond.Delta(from, to)
	if err != nil {
		return BondResult{}, err
	}
	return BondResult{From: from, To: to, TotalExp: d}, nil
}

// BondResourcePlan maps each source key to ceil(totalExp / source EXP).
// Every figure assumes that source is used exclusively.
func (c *Calculator) BondResourcePlan(totalExp int) map[string]int {
	out := make(map[string]int, len(c.bondSources))
	for _, s := range c.bondSources {
		out[s.Key] = ceilDiv(totalExp, s.Exp)
	}
	return out
}

// BondRows is BondResourcePlan as display rows, stably sorted by source EXP.
func (c *Calculator) BondRows(totalExp int, order SortOrder) []BondRow {
	rows := make([]BondRow, 0, len(c.bondSources))
	for _, s := range c.bondSources {
		rows = append(rows, BondRow{Key: s.Key, Name: s.Name, Exp: s.Exp, Amount: ceilDiv(totalExp, s.Exp)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if order == SortAsc {
			return rows[i].Exp < rows[j].Exp
		}
		return rows[i].Exp > rows[j].Exp
	})
	return rows
}

// MonthlyGain is the bond EXP earned per month at pace p.
func (c *Calculator) MonthlyGain(p BondPace) (int, error) {
	if p.PatsPerDay < 0 || p.PatsPerDay > c.pace.MaxPats {
		return 0, &RangeError{Field: "pats per day", Value: p.PatsPerDay, Min: 0, Max: c.pace.MaxPats}
	}
	if p.GiftsPerMonth < 0 || p.GiftsPerMonth > c.pace.MaxGifts {
		return 0, &RangeError{Field: "gifts per month", Value: p.GiftsPerMonth, Min: 0, Max: c.pace.MaxGifts}
	}
	return p.PatsPerDay*c.pace.PatExp + p.GiftsPerMonth*c.pace.GiftExp + c.pace.BaseMonthly, nil
}

// EstimateMonths projects how long totalExp takes at monthlyGain per month.
func EstimateMonths(totalExp, monthlyGain int) (Estimate, error) {
	if monthlyGain <= 0 {
		return Estimate{}, &RangeError{Field: "monthly gain", Value: monthlyGain, Min: 1, Max: 0}
	}
	if totalExp > monthlyGain {
		return Estimate{MonthlyGain: monthlyGain, Months: ceilDiv(totalExp, monthlyGain)}, nil
	}
	return Estimate{MonthlyGain: monthlyGain, LessThanMonth: true}, nil
}

// BondReport bundles everything the bond screen shows for one query.
type BondReport struct {
	BondResult
	Rows     []BondRow `json:"rows"`
	Pace     BondPace  `json:"pace"`
	Estimate Estimate  `json:"estimate"`
}

// BondReport computes the delta, the per-source rows and the time estimate.
func (c *Calculator) BondReport(from, to int, pace BondPace, order SortOrder) (BondReport, error) {
	res, err := c.BondExpDelta(from, to)
	if err != nil {
		return BondReport{}, err
	}
	gain, err := c.MonthlyGain(pace)
	if err != nil {
		return BondReport{}, err
	}
	est, err := EstimateMonths(res.TotalExp, gain)
	if err != nil {
		return BondReport{}, err
	}
	return BondReport{
		BondResult: res,
		Rows:       c.BondRows(res.TotalExp, order),
		Pace:       pace,
		Estimate:   est,
	}, nil
}
