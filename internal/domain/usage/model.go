package usage

import "time"

// Event is one tracked tool action, appended to the local usage log
type Event struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

// Known actions (the SEO tools themselves are external collaborators;
// only their names are referenced here)
const (
	ActionKeywordAnalysis = "keyword_analysis"
	ActionPageAnalysis    = "page_analysis"
	ActionTopicalMap      = "topical_map"
)
