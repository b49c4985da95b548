package dto

import "github.com/ezseobasics/ezseo/internal/domain/plan"

// PlanResponse is the public view of a subscription plan
type PlanResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
	Limit       int      `json:"limit"`
	IsPopular   bool     `json:"is_popular"`
}

// NewPlanResponse converts a catalog plan into its API representation
func NewPlanResponse(p plan.Plan) PlanResponse {
	return PlanResponse{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Interval:    p.Interval,
		Features:    p.Features,
		Limit:       p.Limit,
		IsPopular:   p.IsPopular,
	}
}
