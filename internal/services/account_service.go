package services

import (
	"context"
	"errors"
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/domain/user"
	"github.com/ezseobasics/ezseo/internal/identity"
	apperrors "github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/metrics"
	"github.com/ezseobasics/ezseo/internal/session"
)

// AccountService wraps the external identity/document directory.
// Every failure populates the session's error field and is returned to
// the caller for form-level display.
type AccountService struct {
	directory identity.Directory
	logger    *logger.Logger
	now       func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(dir identity.Directory, log *logger.Logger) *AccountService {
	return &AccountService{
		directory: dir,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// CreateAccount creates an external identity, then writes the profile
// document keyed by its assigned id. If the profile write fails after
// identity creation succeeded, the identity is left without a document;
// there is no automatic reconciliation, so the error names the stage.
func (s *AccountService) CreateAccount(ctx context.Context, sess *session.Session, email, password string, tier plan.Tier) (*user.User, error) {
	if !tier.Valid() {
		err := apperrors.BadRequest("Unknown plan: " + string(tier))
		sess.SetError(err.Message)
		return nil, err
	}

	id, err := s.directory.CreateIdentity(ctx, email, password)
	if err != nil {
		appErr := apperrors.AccountCreationFailed("identity", err)
		if errors.Is(err, identity.ErrEmailTaken) {
			appErr = apperrors.Conflict("Email already registered")
		}
		s.logger.WithFields(map[string]interface{}{
			"email": email,
		}).ErrorWithErr(err, "Identity creation failed")
		sess.SetError(appErr.Message)
		return nil, appErr
	}

	u := user.User{
		ID:             id,
		Email:          email,
		Plan:           tier,
		UsageThisMonth: 0,
		LastUsageReset: s.now(),
	}

	if err := s.directory.WriteProfile(ctx, id, u); err != nil {
		appErr := apperrors.AccountCreationFailed("profile", err)
		s.logger.WithFields(map[string]interface{}{
			"identity_id": id,
			"email":       email,
		}).ErrorWithErr(err, "Profile write failed after identity creation")
		sess.SetError(appErr.Message)
		return nil, appErr
	}

	sess.SetUser(&u)

	s.logger.WithFields(map[string]interface{}{
		"identity_id": id,
		"email":       email,
		"plan":        tier,
	}).Info("Account created")

	return &u, nil
}

// SignIn authenticates against the external identity service and
// fetches the matching profile document
func (s *AccountService) SignIn(ctx context.Context, sess *session.Session, email, password string) (*user.User, error) {
	id, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.Is(err, identity.ErrBadCredentials) {
			appErr = apperrors.InvalidCredentials()
		} else {
			appErr = apperrors.Internal("Authentication request failed", err)
		}
		metrics.RecordSignIn("failure")
		sess.SetError(appErr.Message)
		return nil, appErr
	}

	u, err := s.directory.ReadProfile(ctx, id)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.Is(err, identity.ErrNotFound) {
			appErr = apperrors.ProfileNotFound(id)
		} else {
			appErr = apperrors.Internal("Profile lookup failed", err)
		}
		metrics.RecordSignIn("failure")
		sess.SetError(appErr.Message)
		return nil, appErr
	}

	if reset, err := s.maybeResetUsage(ctx, u); err != nil {
		// Stale counter is tolerable; keep the sign-in
		s.logger.WithFields(map[string]interface{}{
			"identity_id": id,
		}).ErrorWithErr(err, "Monthly usage reset failed")
	} else if reset {
		s.logger.WithFields(map[string]interface{}{
			"identity_id": id,
		}).Info("Monthly usage counter reset")
	}

	sess.SetUser(u)
	metrics.RecordSignIn("success")

	s.logger.WithFields(map[string]interface{}{
		"identity_id": id,
		"email":       u.Email,
	}).Info("User signed in")

	return u, nil
}

// Restore attaches the stored profile for identityID to the session.
// Used when a request carries a valid access token but the in-memory
// session has not seen the user yet, e.g. after a server restart.
func (s *AccountService) Restore(ctx context.Context, sess *session.Session, identityID string) (*user.User, error) {
	u, err := s.directory.ReadProfile(ctx, identityID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, apperrors.ProfileNotFound(identityID)
		}
		return nil, apperrors.Internal("Profile lookup failed", err)
	}

	if _, err := s.maybeResetUsage(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Monthly usage reset failed")
	}

	sess.SetUser(u)
	return u, nil
}

// SignOut clears the external session and the local session state
// unconditionally
func (s *AccountService) SignOut(ctx context.Context, sess *session.Session) error {
	err := s.directory.ClearSession(ctx)
	sess.Reset()
	if err != nil {
		s.logger.ErrorWithErr(err, "External session clear failed")
		return apperrors.Internal("Failed to clear external session", err)
	}
	return nil
}

// CurrentUser returns the cached session user, refreshing the monthly
// usage counter when a new calendar month has started
func (s *AccountService) CurrentUser(ctx context.Context, sess *session.Session) *user.User {
	u := sess.User()
	if u == nil {
		return nil
	}

	if reset, err := s.maybeResetUsage(ctx, u); err == nil && reset {
		sess.SetUser(u)
	}
	return u
}

// CanPerformAction reports whether the session's user is present and
// under the monthly limit of their plan. Pure over session state.
func (s *AccountService) CanPerformAction(sess *session.Session) bool {
	u := sess.User()
	if u == nil {
		return false
	}
	return u.CanPerformAction()
}

// RecordUsage increments the user's monthly counter and writes the
// profile back to the external store. The limit check and increment
// run under the session lock so concurrent requests on one session
// cannot both pass the check or overwrite each other's increments.
func (s *AccountService) RecordUsage(ctx context.Context, sess *session.Session) error {
	err := sess.UpdateUser(func(u *user.User) error {
		if !u.CanPerformAction() {
			return apperrors.UsageLimitReached(string(u.Plan))
		}

		u.UsageThisMonth++
		if err := s.directory.WriteProfile(ctx, u.ID, *u); err != nil {
			u.UsageThisMonth--
			return apperrors.Internal("Failed to update usage counter", err)
		}
		return nil
	})
	if errors.Is(err, session.ErrNoUser) {
		return apperrors.Unauthorized("Not signed in")
	}
	return err
}

// maybeResetUsage zeroes the counter when lastUsageReset falls in an
// earlier calendar month, persisting the change. Reports whether a
// reset happened.
func (s *AccountService) maybeResetUsage(ctx context.Context, u *user.User) (bool, error) {
	now := s.now()
	if !u.NeedsUsageReset(now) {
		return false, nil
	}

	u.UsageThisMonth = 0
	u.LastUsageReset = now
	if err := s.directory.WriteProfile(ctx, u.ID, *u); err != nil {
		return false, err
	}
	return true, nil
}
