package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ezseobasics/ezseo/internal/api/handlers"
	"github.com/ezseobasics/ezseo/internal/api/router"
	"github.com/ezseobasics/ezseo/internal/config"
	"github.com/ezseobasics/ezseo/internal/domain/usage"
	"github.com/ezseobasics/ezseo/internal/handoff"
	"github.com/ezseobasics/ezseo/internal/identity"
	"github.com/ezseobasics/ezseo/internal/payment"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/validator"
	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
	"github.com/ezseobasics/ezseo/internal/signup"
)

// memoryUsageRepo keeps events in a slice, enough for routing tests
type memoryUsageRepo struct {
	events []usage.Event
}

func (r *memoryUsageRepo) Create(ctx context.Context, e *usage.Event) error {
	e.ID = int64(len(r.events) + 1)
	e.CreatedAt = time.Now()
	r.events = append(r.events, *e)
	return nil
}

func (r *memoryUsageRepo) CountForUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var n int64
	for _, e := range r.events {
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *memoryUsageRepo) ListForUser(ctx context.Context, userID string, limit int) ([]*usage.Event, error) {
	var out []*usage.Event
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].UserID == userID {
			e := r.events[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *memoryUsageRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			PublicURL:   "https://ezseobasics.com",
			FrontendURL: "https://app.example.test",
			Environment: "test",
		},
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Payment: config.PaymentConfig{
			BasicURL: "https://buy.example.com/basic",
			PlusURL:  "https://buy.example.com/plus",
			ProURL:   "https://buy.example.com/pro",
		},
		Signup: config.SignupConfig{PendingTTL: time.Hour},
	}

	log := logger.New(logger.Config{Level: "error", Format: "console"})
	directory := identity.NewMemoryDirectory()
	sessions := session.NewManager(false)
	store := signup.NewStore(cfg.Signup.PendingTTL, false)
	pay := payment.New(cfg.Payment, cfg.Server.PublicURL, store)
	accounts := services.NewAccountService(directory, log)
	usageSvc := services.NewUsageService(&memoryUsageRepo{}, log)
	orch := handoff.New(store, accounts, log)
	v := validator.New()

	h := router.New(cfg, log, router.Handlers{
		Auth:     handlers.NewAuthHandler(accounts, sessions, cfg.Auth, false, v, log),
		Signup:   handlers.NewSignupHandler(store, pay, orch, sessions, v, log),
		Plans:    handlers.NewPlanHandler(),
		Usage:    handlers.NewUsageHandler(accounts, usageSvc, sessions, v, log),
		Health:   handlers.NewHealthHandler(nil, "test"),
		Sessions: sessions,
		Accounts: accounts,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp, env
}

func TestSignupFlow(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	// Start the signup
	resp, env := doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/signup", map[string]string{
		"email":    "new@example.com",
		"password": "hunter22pass",
		"plan":     "plus",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var signupResp struct {
		PaymentURL string `json:"payment_url"`
	}
	if err := json.Unmarshal(env.Data, &signupResp); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if !strings.HasPrefix(signupResp.PaymentURL, "https://buy.example.com/plus?") {
		t.Errorf("unexpected payment URL: %s", signupResp.PaymentURL)
	}

	// Hand-off state shows the stored pending signup
	_, env = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/state", nil)
	var stateResp struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(env.Data, &stateResp); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if stateResp.State != "awaiting_payment_return" {
		t.Errorf("expected awaiting_payment_return, got %s", stateResp.State)
	}

	// Return from the payment page
	resp, env = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/return?success=true&email=new%40example.com", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var returnResp struct {
		Outcome string `json:"outcome"`
		User    *struct {
			Email string `json:"email"`
			Plan  string `json:"plan"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &returnResp); err != nil {
		t.Fatalf("decoding return: %v", err)
	}
	if returnResp.Outcome != "completed" {
		t.Fatalf("expected completed, got %s", returnResp.Outcome)
	}
	if returnResp.User == nil || returnResp.User.Email != "new@example.com" || returnResp.User.Plan != "plus" {
		t.Errorf("unexpected user: %+v", returnResp.User)
	}

	// The session is signed in
	resp, env = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d", resp.StatusCode)
	}

	// A second return finds no pending record and is a benign no-op
	resp, env = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/return?success=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on replay, got %d", resp.StatusCode)
	}
	var replayResp struct {
		State   string `json:"state"`
		Outcome string `json:"outcome"`
	}
	if err := json.Unmarshal(env.Data, &replayResp); err != nil {
		t.Fatalf("decoding replay: %v", err)
	}
	if replayResp.Outcome != "no_pending" {
		t.Errorf("expected no_pending outcome, got %s", replayResp.Outcome)
	}
	if replayResp.State != "idle" {
		t.Errorf("expected idle state, got %s", replayResp.State)
	}
}

func TestSignupReturnCanceled(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/signup", map[string]string{
		"email":    "new@example.com",
		"password": "hunter22pass",
		"plan":     "basic",
	})

	resp, env := doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/return?canceled=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var returnResp struct {
		Outcome string `json:"outcome"`
	}
	if err := json.Unmarshal(env.Data, &returnResp); err != nil {
		t.Fatalf("decoding return: %v", err)
	}
	if returnResp.Outcome != "none" {
		t.Errorf("expected none, got %s", returnResp.Outcome)
	}

	// Not signed in
	resp, _ = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "hunter22pass", "plan": "basic"}},
		{"short password", map[string]string{"email": "a@b.c", "password": "short", "plan": "basic"}},
		{"unknown plan", map[string]string{"email": "a@b.c", "password": "hunter22pass", "plan": "enterprise"}},
		{"missing plan", map[string]string{"email": "a@b.c", "password": "hunter22pass"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/signup", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestSignInFlow(t *testing.T) {
	srv := newTestServer(t)

	// Create the account through the signup flow
	setup := newBrowser(t)
	doJSON(t, setup, http.MethodPost, srv.URL+"/api/v1/signup", map[string]string{
		"email":    "user@example.com",
		"password": "hunter22pass",
		"plan":     "basic",
	})
	doJSON(t, setup, http.MethodGet, srv.URL+"/api/v1/signup/return?success=true", nil)

	// A fresh browser signs in
	browser := newBrowser(t)
	resp, env := doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/auth/signin", map[string]string{
		"email":    "user@example.com",
		"password": "hunter22pass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var authResp struct {
		User struct {
			Email      string `json:"email"`
			UsageLimit int    `json:"usage_limit"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &authResp); err != nil {
		t.Fatalf("decoding auth: %v", err)
	}
	if authResp.User.Email != "user@example.com" || authResp.User.UsageLimit != 100 {
		t.Errorf("unexpected user: %+v", authResp.User)
	}
	if authResp.AccessToken == "" {
		t.Error("expected an access token")
	}

	// Wrong password
	resp, env = doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/auth/signin", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %+v", env.Error)
	}
}

func TestSignOut(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/signup", map[string]string{
		"email":    "user@example.com",
		"password": "hunter22pass",
		"plan":     "basic",
	})
	doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/return?success=true", nil)

	resp, _ := doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/auth/signout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after sign-out, got %d", resp.StatusCode)
	}
}

func TestPlansEndpoint(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	resp, env := doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/plans", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var plans []struct {
		ID    string `json:"id"`
		Price int    `json:"price"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(env.Data, &plans); err != nil {
		t.Fatalf("decoding plans: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	if plans[0].ID != "basic" || plans[0].Price != 10 {
		t.Errorf("unexpected first plan: %+v", plans[0])
	}
	if plans[2].ID != "pro" || plans[2].Limit != -1 {
		t.Errorf("unexpected pro plan: %+v", plans[2])
	}

	resp, _ = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/plans/enterprise", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown plan, got %d", resp.StatusCode)
	}
}

func TestUsageRequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	resp, _ := doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/usage/status", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestUsageStatus(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/signup", map[string]string{
		"email":    "user@example.com",
		"password": "hunter22pass",
		"plan":     "plus",
	})
	doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/return?success=true", nil)

	resp, env := doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/usage/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var status struct {
		Plan       string `json:"plan"`
		Limit      int    `json:"limit"`
		CanPerform bool   `json:"can_perform"`
	}
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.Plan != "plus" || status.Limit != 500 || !status.CanPerform {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestBearerTokenRestoresSession(t *testing.T) {
	srv := newTestServer(t)

	// Sign up and capture the access token
	browser := newBrowser(t)
	doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/signup", map[string]string{
		"email":    "user@example.com",
		"password": "hunter22pass",
		"plan":     "basic",
	})
	doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/return?success=true", nil)

	_, env := doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/auth/signin", map[string]string{
		"email":    "user@example.com",
		"password": "hunter22pass",
	})
	var authResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &authResp); err != nil {
		t.Fatalf("decoding auth: %v", err)
	}

	// A cookie-less client using only the bearer token
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+authResp.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d", resp.StatusCode)
	}

	var me envelope
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	var u struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(me.Data, &u); err != nil {
		t.Fatalf("decoding user: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Errorf("expected restored user, got %+v", u)
	}
}

func TestUsageTrack(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/signup", map[string]string{
		"email":    "user@example.com",
		"password": "hunter22pass",
		"plan":     "basic",
	})
	doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/signup/return?success=true", nil)

	resp, env := doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/usage/track", map[string]string{
		"action": "keyword_analysis",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var trackResp struct {
		Status struct {
			UsageThisMonth int `json:"usage_this_month"`
		} `json:"status"`
		Event *struct {
			Action string `json:"action"`
		} `json:"event"`
	}
	if err := json.Unmarshal(env.Data, &trackResp); err != nil {
		t.Fatalf("decoding track: %v", err)
	}
	if trackResp.Status.UsageThisMonth != 1 {
		t.Errorf("expected usage 1, got %d", trackResp.Status.UsageThisMonth)
	}
	if trackResp.Event == nil || trackResp.Event.Action != "keyword_analysis" {
		t.Errorf("unexpected event: %+v", trackResp.Event)
	}

	// Unknown actions are rejected
	resp, _ = doJSON(t, browser, http.MethodPost, srv.URL+"/api/v1/usage/track", map[string]string{
		"action": "rank_tracking",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown action, got %d", resp.StatusCode)
	}

	// Events are listed newest first
	resp, env = doJSON(t, browser, http.MethodGet, srv.URL+"/api/v1/usage/events", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var events []struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(env.Data, &events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	if len(events) != 1 || events[0].Action != "keyword_analysis" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestSwaggerDocServed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for swagger doc, got %d", resp.StatusCode)
	}

	var doc struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding swagger doc: %v", err)
	}
	if doc.Swagger != "2.0" {
		t.Errorf("expected swagger 2.0, got %q", doc.Swagger)
	}
	for _, path := range []string{"/signup", "/plans", "/usage/track"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("expected %s in swagger paths", path)
		}
	}
}

func TestCORSAllowsConfiguredFrontend(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/plans", nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Origin", "https://app.example.test")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.test" {
		t.Errorf("expected configured frontend origin allowed, got %q", got)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("%s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}
