package client

import (
	"context"
	"fmt"
	"net/http"
)

// TrackUsage records one tool action against the monthly quota
func (c *Client) TrackUsage(ctx context.Context, action string) (*TrackResult, error) {
	var result TrackResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/usage/track", map[string]string{"action": action}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UsageStatus reports quota standing for the current month
func (c *Client) UsageStatus(ctx context.Context) (*UsageStatus, error) {
	var result UsageStatus
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/usage/status", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecentEvents lists the latest recorded usage events
func (c *Client) RecentEvents(ctx context.Context, limit int) ([]UsageEvent, error) {
	path := "/api/v1/usage/events"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var result []UsageEvent
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
