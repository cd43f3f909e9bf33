package calc

// Requirement is the fragment count and flat credit cost of promoting a
// student from one rarity to another.
type Requirement struct {
	From      int
	To        int
	Fragments int
	Cost      int
}

type rarityPair struct{ from, to int }

// EligmaTiers prices fragments bought with Eligma: fragments are bought in
// batches of BatchSize and the k-th batch (0-based) costs Prices[k] each.
// Batches past the end of Prices repeat the last price.
type EligmaTiers struct {
	BatchSize int
	Prices    []int
}

// PromotionRequest asks what a rarity promotion still costs.
type PromotionRequest struct {
	FromRarity     int `json:"from_rarity"`
	ToRarity       int `json:"to_rarity"`
	OwnedFragments int `json:"owned_fragments"`
	WeaponRank     int `json:"weapon_rank"`
}

// PromotionResult is the outcome of PromotionPlan.
type PromotionResult struct {
	TotalFragments         int `json:"total_fragments"`
	NeededFragments        int `json:"needed_fragments"`
	TotalEligma            int `json:"total_eligma"`
	TotalCost              int `json:"total_cost"`
	WeaponUpgradeFragments int `json:"weapon_upgrade_fragments"`
}

// Cost returns the Eligma needed to buy n fragments starting from an empty
// purchase history.
func (e EligmaTiers) Cost(n int) int {
	total := 0
	for batch := 0; n > 0; batch++ {
		size := e.BatchSize
		if n < size {
			size = n
		}
		total += size * e.price(batch)
		n -= size
	}
	return total
}

func (e EligmaTiers) price(batch int) int {
	if batch >= len(e.Prices) {
		return e.Prices[len(e.Prices)-1]
	}
	return e.Prices[batch]
}

// EligmaCost prices n fragments with the calculator's Eligma tiers.
func (c *Calculator) EligmaCost(n int) int { return c.eligma.Cost(n) }

// MaxWeaponRank is the highest weapon rank PromotionPlan accepts.
func (c *Calculator) MaxWeaponRank() int { return len(c.weapon) }

// PromotionPlan works out the fragments, Eligma and credits a promotion
// still needs. Eligma covers only the promotion fragments; weapon upgrade
// fragments are added to the need afterwards and reported on their own.
func (c *Calculator) PromotionPlan(req PromotionRequest) (PromotionResult, error) {
	if err := validateLevelPair("rarity", req.FromRarity, req.ToRarity, c.maxRarity); err != nil {
		return PromotionResult{}, err
	}
	if err := validateNonNegative("owned fragments", req.OwnedFragments); err != nil {
		return PromotionResult{}, err
	}
	if req.WeaponRank < 0 || req.WeaponRank > len(c.weapon) {
		return PromotionResult{}, &RangeError{Field: "weapon rank", Value: req.WeaponRank, Min: 0, Max: len(c.weapon)}
	}

	reqm, ok := c.promotions[rarityPair{req.FromRarity, req.ToRarity}]
	if !ok {
		return PromotionResult{}, &InvalidCombinationError{From: req.FromRarity, To: req.ToRarity}
	}

	needed := reqm.Fragments - req.OwnedFragments
	if needed < 0 {
		needed = 0
	}
	eligma := c.eligma.Cost(needed)

	weapon := 0
	if req.ToRarity == c.maxRarity && req.WeaponRank > 0 {
		for _, f := range c.weapon[:req.WeaponRank] {
			weapon += f
		}
		needed += weapon
	}

	return PromotionResult{
		TotalFragments:         reqm.Fragments + weapon,
		NeededFragments:        needed,
		TotalEligma:            eligma,
		TotalCost:              reqm.Cost,
		WeaponUpgradeFragments: weapon,
	}, nil
}
