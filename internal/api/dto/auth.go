package dto

import (
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/user"
)

// SignInRequest is the payload for signing in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Plan           string    `json:"plan"`
	UsageThisMonth int       `json:"usage_this_month"`
	UsageLimit     int       `json:"usage_limit"`
	LastUsageReset time.Time `json:"last_usage_reset"`
}

// AuthResponse is returned after a successful sign-in
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token,omitempty"`
}

// NewUserResponse converts a domain user into its API representation
func NewUserResponse(u *user.User, limit int) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Plan:           string(u.Plan),
		UsageThisMonth: u.UsageThisMonth,
		UsageLimit:     limit,
		LastUsageReset: u.LastUsageReset,
	}
}
