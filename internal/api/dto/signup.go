package dto

// SignUpRequest is the payload for starting a signup
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Plan     string `json:"plan" validate:"required,oneof=basic plus pro"`
}

// SignUpResponse carries the payment page URL the browser should
// navigate to
type SignUpResponse struct {
	PaymentURL string `json:"payment_url"`
	Plan       string `json:"plan"`
}

// CheckoutRequest is the payload for a logged-in plan purchase
type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic plus pro"`
}

// CheckoutResponse carries the payment page URL for a direct checkout
type CheckoutResponse struct {
	PaymentURL string `json:"payment_url"`
	Plan       string `json:"plan"`
}

// HandoffStateResponse reports where the signup hand-off currently is
type HandoffStateResponse struct {
	State   string        `json:"state"`
	Outcome string        `json:"outcome,omitempty"`
	User    *UserResponse `json:"user,omitempty"`
}
