package calc

import "math"

// Denomination is a resource unit with a fixed EXP value.
type Denomination struct {
	Key   string
	Name  string
	Value int
}

// Report keys of the four character EXP reports.
const (
	BookPink   = "pink"
	BookOrange = "orange"
	BookBlue   = "blue"
	BookGrey   = "grey"
)

// Inventory maps a denomination key to an owned count. Missing keys are zero.
type Inventory map[string]int

// CharacterRequest asks how many reports and credits a level-up still needs.
type CharacterRequest struct {
	FromLevel int       `json:"from_level"`
	ToLevel   int       `json:"to_level"`
	Inventory Inventory `json:"inventory,omitempty"`
	Credits   int       `json:"credits"`
}

// BookCount is how many reports of one denomination are still needed.
type BookCount struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Value int    `json:"value"`
	Count int    `json:"count"`
}

// CharacterResult is the outcome of CharacterExpPlan.
type CharacterResult struct {
	TotalExp                int         `json:"total_exp"`
	PinkBooks               int         `json:"pink_books"`
	OrangeBooks             int         `json:"orange_books"`
	BlueBooks               int         `json:"blue_books"`
	GreyBooks               int         `json:"grey_books"`
	CreditsNeeded           int         `json:"credits_needed"`
	ExpNeededAfterInventory int         `json:"exp_needed_after_inventory"`
	AvailableExp            int         `json:"available_exp"`
	Books                   []BookCount `json:"books"`
}

// CharacterExpPlan works out the reports and credits needed to level a
// character after spending the owned inventory.
//
// The deficit is split greedily from the highest report down. Every report
// but the lowest takes floor(remaining/value); the lowest takes the ceiling,
// so the plan can overshoot by less than one lowest report.
func (c *Calculator) CharacterExpPlan(req CharacterRequest) (CharacterResult, error) {
	if err := validateLevelPair("character", req.FromLevel, req.ToLevel, c.chara.MaxLevel()); err != nil {
		return CharacterResult{}, err
	}
	if err := validateNonNegative("credits", req.Credits); err != nil {
		return CharacterResult{}, err
	}
	for _, d := range c.books {
		if err := validateNonNegative(d.Key+" count", req.Inventory[d.Key]); err != nil {
			return CharacterResult{}, err
		}
	}

	expNeeded, err := c.chara.Delta(req.FromLevel, req.ToLevel)
	if err != nil {
		return CharacterResult{}, err
	}

	// saturates at math.MaxInt; huge inventories still cover any need
	available := 0
	for _, d := range c.books {
		n := req.Inventory[d.Key]
		if n > (math.MaxInt-available)/d.Value {
			available = math.MaxInt
			break
		}
		available += n * d.Value
	}
	deficit := expNeeded - available
	if deficit < 0 {
		deficit = 0
	}

	books := make([]BookCount, len(c.books))
	remaining := deficit
	last := len(c.books) - 1
	for i, d := range c.books {
		n := remaining / d.Value
		if i == last {
			n = ceilDiv(remaining, d.Value)
		}
		remaining -= n * d.Value
		books[i] = BookCount{Key: d.Key, Name: d.Name, Value: d.Value, Count: n}
	}

	credits := expNeeded*c.creditsPerExp - req.Credits
	if credits < 0 {
		credits = 0
	}

	res := CharacterResult{
		TotalExp:                expNeeded,
		CreditsNeeded:           credits,
		ExpNeededAfterInventory: deficit,
		AvailableExp:            available,
		Books:                   books,
	}
	for _, b := range books {
		switch b.Key {
		case BookPink:
			res.PinkBooks = b.Count
		case BookOrange:
			res.OrangeBooks = b.Count
		case BookBlue:
			res.BlueBooks = b.Count
		case BookGrey:
			res.GreyBooks = b.Count
		}
	}
	return res, nil
}
