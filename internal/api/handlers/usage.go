package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ezseobasics/ezseo/internal/api/dto"
	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/utils"
	"github.com/ezseobasics/ezseo/internal/pkg/validator"
	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
)

// UsageHandler serves quota tracking endpoints
type UsageHandler struct {
	accounts  *services.AccountService
	usage     *services.UsageService
	sessions  *session.Manager
	validator *validator.Validator
	logger    *logger.Logger
}

// NewUsageHandler creates a usage handler
func NewUsageHandler(accounts *services.AccountService, usage *services.UsageService, sessions *session.Manager, v *validator.Validator, log *logger.Logger) *UsageHandler {
	return &UsageHandler{
		accounts:  accounts,
		usage:     usage,
		sessions:  sessions,
		validator: v,
		logger:    log,
	}
}

func (h *UsageHandler) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := h.sessions.FromRequest(r)
	if !ok || sess.User() == nil {
		utils.WriteError(w, errors.Unauthorized("Sign in required"))
		return nil, false
	}
	return sess, true
}

// Track records one tool action against the monthly quota
func (h *UsageHandler) Track(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	var req dto.TrackUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); errs != nil {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	if err := h.accounts.RecordUsage(r.Context(), sess); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	u := sess.User()
	event, err := h.usage.Track(r.Context(), u.ID, req.Action)
	if err != nil {
		// The quota increment already succeeded; the audit record is
		// best effort.
		h.logger.WithError(err).Warn("Failed to record usage event")
	}

	resp := dto.UsageStatusResponse{
		Plan:           string(u.Plan),
		UsageThisMonth: u.UsageThisMonth,
		Limit:          plan.Limit(u.Plan),
		CanPerform:     u.CanPerformAction(),
	}
	if event != nil {
		utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
			"status": resp,
			"event":  dto.NewUsageEventResponse(*event),
		})
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{"status": resp})
}

// Status reports quota standing for the current month
func (h *UsageHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	u := sess.User()
	utils.WriteSuccess(w, http.StatusOK, dto.UsageStatusResponse{
		Plan:           string(u.Plan),
		UsageThisMonth: u.UsageThisMonth,
		Limit:          plan.Limit(u.Plan),
		CanPerform:     u.CanPerformAction(),
	})
}

// Recent lists the latest recorded usage events
func (h *UsageHandler) Recent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	u := sess.User()
	events, err := h.usage.Recent(r.Context(), u.ID, limit)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	resp := make([]dto.UsageEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, dto.NewUsageEventResponse(*e))
	}
	utils.WriteSuccess(w, http.StatusOK, resp)
}
