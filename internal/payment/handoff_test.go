package payment

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ezseobasics/ezseo/internal/config"
	"github.com/ezseobasics/ezseo/internal/domain/plan"
	apperrors "github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/signup"
)

func newHandoff(store *signup.Store) *Handoff {
	return New(config.PaymentConfig{
		BasicURL: "https://buy.example.com/basic",
		PlusURL:  "https://buy.example.com/plus",
		ProURL:   "https://buy.example.com/pro",
	}, "https://ezseobasics.com", store)
}

func TestDirectURL(t *testing.T) {
	h := newHandoff(signup.NewStore(time.Hour, false))

	raw, err := h.DirectURL(plan.TierPlus, "user+tag@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(raw, "https://buy.example.com/plus?") {
		t.Errorf("unexpected base: %s", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unparseable URL: %v", err)
	}
	q := u.Query()

	successURL := q.Get("success_url")
	if !strings.HasPrefix(successURL, "https://ezseobasics.com/?success=true&email=") {
		t.Errorf("unexpected success_url: %s", successURL)
	}
	if !strings.Contains(successURL, url.QueryEscape("user+tag@example.com")) {
		t.Errorf("expected escaped email in success_url: %s", successURL)
	}
	if got := q.Get("cancel_url"); got != "https://ezseobasics.com/?canceled=true" {
		t.Errorf("unexpected cancel_url: %s", got)
	}
}

func TestDirectURLUnknownPlan(t *testing.T) {
	h := newHandoff(signup.NewStore(time.Hour, false))

	if _, err := h.DirectURL("enterprise", "user@example.com"); err == nil {
		t.Fatal("expected error for unknown plan")
	}
}

func TestSignupURLUsesPendingRecord(t *testing.T) {
	store := signup.NewStore(time.Hour, false)
	h := newHandoff(store)

	rec := httptest.NewRecorder()
	store.Put(rec, "new@example.com", "hunter22", plan.TierPro)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}

	raw, err := h.SignupURL(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(raw, "https://buy.example.com/pro?") {
		t.Errorf("expected pro link from pending record, got %s", raw)
	}
	if !strings.Contains(raw, url.QueryEscape("new@example.com")) {
		t.Errorf("expected pending email in URL: %s", raw)
	}
}

func TestSignupURLWithoutPending(t *testing.T) {
	h := newHandoff(signup.NewStore(time.Hour, false))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := h.SignupURL(httptest.NewRecorder(), r)
	if err == nil {
		t.Fatal("expected error without a pending signup")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrCodeMissingSignupState {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeMissingSignupState, appErr.Code)
	}
}
