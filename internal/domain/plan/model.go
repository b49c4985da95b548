package plan

// Tier identifies one of the fixed subscription levels
type Tier string

// Plan tiers
const (
	TierBasic Tier = "basic"
	TierPlus  Tier = "plus"
	TierPro   Tier = "pro"
)

// Unlimited marks a tier with no monthly usage cap
const Unlimited = -1

// Plan is a static catalog entry: immutable for the life of the process
type Plan struct {
	ID          Tier     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
	// Limit is the number of units per month, or Unlimited
	Limit     int  `json:"limit"`
	IsPopular bool `json:"isPopular"`
}

// Valid reports whether t is one of the three known tiers
func (t Tier) Valid() bool {
	switch t {
	case TierBasic, TierPlus, TierPro:
		return true
	}
	return false
}
