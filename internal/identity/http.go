package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ezseobasics/ezseo/internal/config"
	"github.com/ezseobasics/ezseo/internal/domain/user"
)

// HTTPDirectory talks to the hosted identity/document service over its
// REST API.
type HTTPDirectory struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPDirectory creates a directory client for the hosted service
func NewHTTPDirectory(cfg config.IdentityConfig) *HTTPDirectory {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPDirectory{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID string `json:"id"`
}

// CreateIdentity registers a new identity and returns its assigned id
func (d *HTTPDirectory) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	var resp identityResponse
	err := d.doRequest(ctx, http.MethodPost, "/v1/identities", credentialsPayload{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		if isStatus(err, http.StatusConflict) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return resp.ID, nil
}

// WriteProfile stores the user document keyed by identity id
func (d *HTTPDirectory) WriteProfile(ctx context.Context, id string, u user.User) error {
	return d.doRequest(ctx, http.MethodPut, "/v1/profiles/"+id, u, nil)
}

// Authenticate verifies credentials and returns the identity id
func (d *HTTPDirectory) Authenticate(ctx context.Context, email, password string) (string, error) {
	var resp identityResponse
	err := d.doRequest(ctx, http.MethodPost, "/v1/sessions", credentialsPayload{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	return resp.ID, nil
}

// ReadProfile fetches the user document for an identity id
func (d *HTTPDirectory) ReadProfile(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := d.doRequest(ctx, http.MethodGet, "/v1/profiles/"+id, nil, &u)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ClearSession invalidates the hosted service's session state
func (d *HTTPDirectory) ClearSession(ctx context.Context) error {
	return d.doRequest(ctx, http.MethodDelete, "/v1/sessions", nil, nil)
}

// statusError carries the remote HTTP status for sentinel mapping
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("identity service returned %d: %s", e.Status, e.Body)
}

func isStatus(err error, status int) bool {
	se, ok := err.(*statusError)
	return ok && se.Status == status
}

// doRequest performs an HTTP request with proper error handling
func (d *HTTPDirectory) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if d.apiKey != "" {
		req.Header.Set("X-API-Key", d.apiKey)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &statusError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
