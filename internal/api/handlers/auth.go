package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ezseobasics/ezseo/internal/api/dto"
	"github.com/ezseobasics/ezseo/internal/auth"
	"github.com/ezseobasics/ezseo/internal/config"
	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/utils"
	"github.com/ezseobasics/ezseo/internal/pkg/validator"
	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
)

// AuthHandler serves sign-in, sign-out and current-user endpoints
type AuthHandler struct {
	accounts  *services.AccountService
	sessions  *session.Manager
	authCfg   config.AuthConfig
	secure    bool
	validator *validator.Validator
	logger    *logger.Logger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(accounts *services.AccountService, sessions *session.Manager, authCfg config.AuthConfig, secure bool, v *validator.Validator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		sessions:  sessions,
		authCfg:   authCfg,
		secure:    secure,
		validator: v,
		logger:    log,
	}
}

// SignIn authenticates credentials and establishes the session
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); errs != nil {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	sess := h.sessions.Ensure(w, r)

	u, err := h.accounts.SignIn(r.Context(), sess, req.Email, req.Password)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	tokens, err := auth.MintTokens(u.ID, u.Email, h.authCfg.JWTSecret, h.authCfg.AccessTokenExpiry, h.authCfg.RefreshTokenExpiry)
	if err != nil {
		h.logger.WithError(err).Error("Failed to mint tokens")
		utils.WriteError(w, errors.Internal("Failed to establish session", err))
		return
	}
	h.setAuthCookies(w, tokens)

	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		User:        dto.NewUserResponse(u, plan.Limit(u.Plan)),
		AccessToken: tokens.AccessToken,
	})
}

// SignOut clears the hosted session, local session state and cookies
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)

	if err := h.accounts.SignOut(r.Context(), sess); err != nil {
		h.logger.WithError(err).Warn("Hosted sign-out reported an error")
	}
	h.clearAuthCookies(w)

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Signed out", nil)
}

// Me returns the account attached to the current session
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.FromRequest(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("No active session"))
		return
	}

	u := h.accounts.CurrentUser(r.Context(), sess)
	if u == nil {
		utils.WriteError(w, errors.Unauthorized("Not signed in"))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewUserResponse(u, plan.Limit(u.Plan)))
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, tokens auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   int(h.authCfg.AccessTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.authCfg.RefreshTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
