package dto

import (
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/usage"
)

// TrackUsageRequest records one tool action against the monthly quota
type TrackUsageRequest struct {
	Action string `json:"action" validate:"required,oneof=keyword_analysis page_analysis topical_map"`
}

// UsageStatusResponse reports quota standing for the current month
type UsageStatusResponse struct {
	Plan           string `json:"plan"`
	UsageThisMonth int    `json:"usage_this_month"`
	Limit          int    `json:"limit"`
	CanPerform     bool   `json:"can_perform"`
}

// UsageEventResponse is the public view of a recorded usage event
type UsageEventResponse struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUsageEventResponse converts a usage event into its API representation
func NewUsageEventResponse(e usage.Event) UsageEventResponse {
	return UsageEventResponse{
		ID:        e.ID,
		Action:    e.Action,
		CreatedAt: e.CreatedAt,
	}
}
