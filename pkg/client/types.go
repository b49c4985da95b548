package client

import "time"

// User is an ezseo account
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Plan           string    `json:"plan"`
	UsageThisMonth int       `json:"usage_this_month"`
	UsageLimit     int       `json:"usage_limit"`
	LastUsageReset time.Time `json:"last_usage_reset"`
}

// AuthResult is returned after a successful sign-in
type AuthResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// Plan is a subscription plan from the catalog
type Plan struct {
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

// SignupResult carries the payment page URL to open in a browser
type SignupResult struct {
	PaymentURL string `json:"payment_url"`
	Plan       string `json:"plan"`
}

// UsageStatus reports quota standing for the current month
type UsageStatus struct {
	Plan           string `json:"plan"`
	UsageThisMonth int    `json:"usage_this_month"`
	Limit          int    `json:"limit"`
	CanPerform     bool   `json:"can_perform"`
}

// UsageEvent is one recorded tool action
type UsageEvent struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// TrackResult is returned after recording a tool action
type TrackResult struct {
	Status UsageStatus `json:"status"`
	Event  *UsageEvent `json:"event"`
}
