package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/domain/user"
	"github.com/ezseobasics/ezseo/internal/identity"
	apperrors "github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/session"
	"github.com/ezseobasics/ezseo/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console"})
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestCreateAccount(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())
	sess := &session.Session{ID: "s1"}

	u, err := svc.CreateAccount(context.Background(), sess, "new@example.com", "hunter22", plan.TierPlus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.Email != "new@example.com" || u.Plan != plan.TierPlus {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.UsageThisMonth != 0 {
		t.Errorf("expected zero usage, got %d", u.UsageThisMonth)
	}
	if u.LastUsageReset.IsZero() {
		t.Error("expected LastUsageReset to be set")
	}

	if got := sess.User(); got == nil || got.ID != u.ID {
		t.Error("expected the new user on the session")
	}

	// The profile document is readable back from the directory
	stored, err := dir.ReadProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
	if stored.Email != u.Email {
		t.Errorf("stored profile mismatch: %+v", stored)
	}
}

func TestCreateAccountEmailTaken(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())

	if _, err := svc.CreateAccount(context.Background(), &session.Session{ID: "s1"}, "dup@example.com", "pw", plan.TierBasic); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	sess := &session.Session{ID: "s2"}
	_, err := svc.CreateAccount(context.Background(), sess, "dup@example.com", "pw", plan.TierBasic)
	if code := appErrCode(t, err); code != apperrors.ErrCodeConflict {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeConflict, code)
	}
	if sess.LastError() == "" {
		t.Error("expected the failure on the session")
	}
}

func TestCreateAccountInvalidPlan(t *testing.T) {
	svc := NewAccountService(identity.NewMemoryDirectory(), testLogger())

	_, err := svc.CreateAccount(context.Background(), &session.Session{ID: "s1"}, "a@b.c", "pw", "enterprise")
	if code := appErrCode(t, err); code != apperrors.ErrCodeBadRequest {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeBadRequest, code)
	}
}

func TestCreateAccountProfileWriteFails(t *testing.T) {
	dir := &testutil.MockDirectory{
		WriteProfileFn: func(ctx context.Context, id string, u user.User) error {
			return errors.New("document store down")
		},
	}
	svc := NewAccountService(dir, testLogger())
	sess := &session.Session{ID: "s1"}

	_, err := svc.CreateAccount(context.Background(), sess, "a@b.c", "pw", plan.TierBasic)
	if code := appErrCode(t, err); code != apperrors.ErrCodeAccountCreationFailed {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeAccountCreationFailed, code)
	}
	if sess.User() != nil {
		t.Error("expected no user on the session after a failed profile write")
	}
}

func TestSignIn(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())

	if _, err := svc.CreateAccount(context.Background(), &session.Session{ID: "setup"}, "user@example.com", "hunter22", plan.TierBasic); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	sess := &session.Session{ID: "s1"}
	u, err := svc.SignIn(context.Background(), sess, "user@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}
	if sess.User() == nil {
		t.Error("expected user on session")
	}
}

func TestSignInBadCredentials(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())

	if _, err := svc.CreateAccount(context.Background(), &session.Session{ID: "setup"}, "user@example.com", "hunter22", plan.TierBasic); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "user@example.com", "nope"},
		{"unknown email", "ghost@example.com", "hunter22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &session.Session{ID: "s1"}
			_, err := svc.SignIn(context.Background(), sess, tt.email, tt.password)
			if code := appErrCode(t, err); code != apperrors.ErrCodeInvalidCredentials {
				t.Errorf("expected %s, got %s", apperrors.ErrCodeInvalidCredentials, code)
			}
			if sess.User() != nil {
				t.Error("expected no user on session")
			}
		})
	}
}

func TestSignInProfileMissing(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())

	created, err := svc.CreateAccount(context.Background(), &session.Session{ID: "setup"}, "user@example.com", "hunter22", plan.TierBasic)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Identity exists but the profile document is gone
	dir.DeleteProfile(created.ID)

	sess := &session.Session{ID: "s1"}
	_, err = svc.SignIn(context.Background(), sess, "user@example.com", "hunter22")
	if code := appErrCode(t, err); code != apperrors.ErrCodeProfileNotFound {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeProfileNotFound, code)
	}
}

func TestSignInResetsStaleUsage(t *testing.T) {
	now := time.Date(2025, time.July, 2, 9, 0, 0, 0, time.UTC)
	dir := &testutil.MockDirectory{
		ReadProfileFn: func(ctx context.Context, id string) (*user.User, error) {
			return &user.User{
				ID:             id,
				Email:          "user@example.com",
				Plan:           plan.TierBasic,
				UsageThisMonth: 87,
				LastUsageReset: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	svc := NewAccountService(dir, testLogger()).WithClock(func() time.Time { return now })

	sess := &session.Session{ID: "s1"}
	u, err := svc.SignIn(context.Background(), sess, "user@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.UsageThisMonth != 0 {
		t.Errorf("expected usage reset to 0, got %d", u.UsageThisMonth)
	}
	if !u.LastUsageReset.Equal(now) {
		t.Errorf("expected LastUsageReset %v, got %v", now, u.LastUsageReset)
	}
}

func TestSignOutAlwaysClearsSession(t *testing.T) {
	dir := &testutil.MockDirectory{
		ClearSessionFn: func(ctx context.Context) error {
			return errors.New("network down")
		},
	}
	svc := NewAccountService(dir, testLogger())

	sess := &session.Session{ID: "s1"}
	sess.SetUser(&user.User{ID: "u1"})

	if err := svc.SignOut(context.Background(), sess); err == nil {
		t.Error("expected the external failure to be reported")
	}
	if sess.User() != nil {
		t.Error("expected local session cleared despite external failure")
	}
}

func TestRecordUsage(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())

	sess := &session.Session{ID: "s1"}
	u, err := svc.CreateAccount(context.Background(), sess, "user@example.com", "pw", plan.TierBasic)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.RecordUsage(context.Background(), sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sess.User().UsageThisMonth; got != 1 {
		t.Errorf("expected usage 1, got %d", got)
	}

	// The increment is persisted
	stored, err := dir.ReadProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("profile read failed: %v", err)
	}
	if stored.UsageThisMonth != 1 {
		t.Errorf("expected persisted usage 1, got %d", stored.UsageThisMonth)
	}
}

func TestRecordUsageAtLimit(t *testing.T) {
	svc := NewAccountService(identity.NewMemoryDirectory(), testLogger())

	sess := &session.Session{ID: "s1"}
	sess.SetUser(&user.User{ID: "u1", Plan: plan.TierBasic, UsageThisMonth: 100})

	err := svc.RecordUsage(context.Background(), sess)
	if code := appErrCode(t, err); code != apperrors.ErrCodeUsageLimitReached {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeUsageLimitReached, code)
	}
}

func TestRecordUsageConcurrent(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())

	sess := &session.Session{ID: "s1"}
	u, err := svc.CreateAccount(context.Background(), sess, "user@example.com", "pw", plan.TierPlus)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	const calls = 25
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.RecordUsage(context.Background(), sess); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := sess.User().UsageThisMonth; got != calls {
		t.Errorf("expected usage %d, got %d", calls, got)
	}

	stored, err := dir.ReadProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("profile read failed: %v", err)
	}
	if stored.UsageThisMonth != calls {
		t.Errorf("expected persisted usage %d, got %d", calls, stored.UsageThisMonth)
	}
}

func TestRecordUsageConcurrentNearLimit(t *testing.T) {
	svc := NewAccountService(&testutil.MockDirectory{}, testLogger())

	sess := &session.Session{ID: "s1"}
	sess.SetUser(&user.User{ID: "u1", Plan: plan.TierBasic, UsageThisMonth: 98})

	const calls = 10
	var wg sync.WaitGroup
	results := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.RecordUsage(context.Background(), sess)
		}()
	}
	wg.Wait()
	close(results)

	var successes, limited int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case appErrCode(t, err) == apperrors.ErrCodeUsageLimitReached:
			limited++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	// Only the two remaining slots under the basic limit may be taken
	if successes != 2 || limited != calls-2 {
		t.Errorf("expected 2 successes and %d limit errors, got %d and %d", calls-2, successes, limited)
	}
	if got := sess.User().UsageThisMonth; got != 100 {
		t.Errorf("expected usage capped at 100, got %d", got)
	}
}

func TestRecordUsageWriteFails(t *testing.T) {
	dir := &testutil.MockDirectory{
		WriteProfileFn: func(ctx context.Context, id string, u user.User) error {
			return errors.New("document store down")
		},
	}
	svc := NewAccountService(dir, testLogger())

	sess := &session.Session{ID: "s1"}
	sess.SetUser(&user.User{ID: "u1", Plan: plan.TierBasic, UsageThisMonth: 7})

	err := svc.RecordUsage(context.Background(), sess)
	if code := appErrCode(t, err); code != apperrors.ErrCodeInternal {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeInternal, code)
	}
	if got := sess.User().UsageThisMonth; got != 7 {
		t.Errorf("expected counter unchanged at 7, got %d", got)
	}
}

func TestRecordUsageSignedOut(t *testing.T) {
	svc := NewAccountService(identity.NewMemoryDirectory(), testLogger())

	err := svc.RecordUsage(context.Background(), &session.Session{ID: "s1"})
	if code := appErrCode(t, err); code != apperrors.ErrCodeUnauthorized {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeUnauthorized, code)
	}
}

func TestCanPerformAction(t *testing.T) {
	svc := NewAccountService(identity.NewMemoryDirectory(), testLogger())

	anon := &session.Session{ID: "s1"}
	if svc.CanPerformAction(anon) {
		t.Error("expected false for anonymous session")
	}

	pro := &session.Session{ID: "s2"}
	pro.SetUser(&user.User{ID: "u1", Plan: plan.TierPro, UsageThisMonth: 100000})
	if !svc.CanPerformAction(pro) {
		t.Error("expected true for pro plan")
	}

	maxed := &session.Session{ID: "s3"}
	maxed.SetUser(&user.User{ID: "u2", Plan: plan.TierPlus, UsageThisMonth: 500})
	if svc.CanPerformAction(maxed) {
		t.Error("expected false at the plus limit")
	}
}

func TestRestore(t *testing.T) {
	dir := identity.NewMemoryDirectory()
	svc := NewAccountService(dir, testLogger())

	created, err := svc.CreateAccount(context.Background(), &session.Session{ID: "setup"}, "user@example.com", "pw", plan.TierBasic)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	sess := &session.Session{ID: "s1"}
	u, err := svc.Restore(context.Background(), sess, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}
	if sess.User() == nil {
		t.Error("expected user on session")
	}

	if _, err := svc.Restore(context.Background(), &session.Session{ID: "s2"}, "missing-id"); err == nil {
		t.Error("expected error for unknown identity")
	}
}
