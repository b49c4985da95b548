package client

import "fmt"

// APIError is an error response from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    interface{}
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 API error
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 404
}

// IsUnauthorized reports whether err is a 401 API error
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 401
}

// IsUsageLimit reports whether err means the monthly quota is exhausted
func IsUsageLimit(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == "USAGE_LIMIT_REACHED"
}
