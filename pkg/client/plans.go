package client

import (
	"context"
	"net/http"
)

// ListPlans returns the subscription plan catalog
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	var result []Plan
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/plans", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPlan returns one plan by tier ID (basic, plus or pro)
func (c *Client) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var result Plan
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/plans/"+id, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Checkout returns a payment page URL for the signed-in user to buy or
// change a plan
func (c *Client) Checkout(ctx context.Context, plan string) (*SignupResult, error) {
	var result SignupResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/checkout", map[string]string{"plan": plan}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
