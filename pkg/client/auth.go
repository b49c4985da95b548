package client

import (
	"context"
	"net/http"
)

// SignUp starts a signup and returns the payment page URL to open
func (c *Client) SignUp(ctx context.Context, email, password, plan string) (*SignupResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"plan":     plan,
	}
	var result SignupResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/signup", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SignIn authenticates and stores the returned access token on the client
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var result AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/signin", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.AccessToken)
	return &result, nil
}

// SignOut ends the session and clears the stored token
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/signout", nil, nil)
	c.SetToken("")
	return err
}

// Me returns the currently signed-in account
func (c *Client) Me(ctx context.Context) (*User, error) {
	var result User
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
