package plan

// catalog holds the compiled-in plan data. Order matters: it is the
// display order on the pricing page.
var catalog = []Plan{
	{
		ID:          TierBasic,
		Name:        "Basic",
		Description: "Perfect for bloggers and small websites",
		Price:       10,
		Currency:    "USD",
		Interval:    "month",
		Features: []string{
			"Basic keyword analysis",
			"Limited page analysis",
			"Basic topical mapping",
			"100 pages per month",
			"Email support",
		},
		Limit: 100,
	},
	{
		ID:          TierPlus,
		Name:        "Plus",
		Description: "Ideal for growing businesses",
		Price:       15,
		Currency:    "USD",
		Interval:    "month",
		Features: []string{
			"Advanced keyword analysis",
			"Full page analysis",
			"Basic topical mapping",
			"500 pages per month",
			"Priority email support",
		},
		Limit:     500,
		IsPopular: true,
	},
	{
		ID:          TierPro,
		Name:        "Pro",
		Description: "For large websites and agencies",
		Price:       20,
		Currency:    "USD",
		Interval:    "month",
		Features: []string{
			"Enterprise-grade analysis",
			"Unlimited page analysis",
			"Advanced topical mapping",
			"Unlimited pages",
			"24/7 priority support",
		},
		Limit: Unlimited,
	},
}

// Catalog returns the ordered plan catalog
func Catalog() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// ByTier returns the catalog entry for t
func ByTier(t Tier) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == t {
			return p, true
		}
	}
	return Plan{}, false
}

// Limit returns the monthly usage limit for t, or Unlimited. Unknown
// tiers get a zero limit, which blocks all actions.
func Limit(t Tier) int {
	p, ok := ByTier(t)
	if !ok {
		return 0
	}
	return p.Limit
}
