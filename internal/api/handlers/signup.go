package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ezseobasics/ezseo/internal/api/dto"
	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/handoff"
	"github.com/ezseobasics/ezseo/internal/payment"
	"github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/utils"
	"github.com/ezseobasics/ezseo/internal/pkg/validator"
	"github.com/ezseobasics/ezseo/internal/session"
	"github.com/ezseobasics/ezseo/internal/signup"
)

// SignupHandler drives the signup and payment hand-off flow
type SignupHandler struct {
	store        *signup.Store
	payment      *payment.Handoff
	orchestrator *handoff.Orchestrator
	sessions     *session.Manager
	validator    *validator.Validator
	logger       *logger.Logger
}

// NewSignupHandler creates a signup handler
func NewSignupHandler(store *signup.Store, pay *payment.Handoff, orch *handoff.Orchestrator, sessions *session.Manager, v *validator.Validator, log *logger.Logger) *SignupHandler {
	return &SignupHandler{
		store:        store,
		payment:      pay,
		orchestrator: orch,
		sessions:     sessions,
		validator:    v,
		logger:       log,
	}
}

// Start stores pending signup credentials and returns the payment page
// URL the browser should navigate to
func (h *SignupHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); errs != nil {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	h.sessions.Ensure(w, r)

	tier := plan.Tier(req.Plan)
	h.store.Put(w, req.Email, req.Password, tier)

	paymentURL, err := h.payment.StartURL(tier, req.Email)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"email": req.Email,
		"plan":  req.Plan,
	}).Info("Signup started, redirecting to payment")

	utils.WriteSuccess(w, http.StatusOK, dto.SignUpResponse{
		PaymentURL: paymentURL,
		Plan:       req.Plan,
	})
}

// Return handles the browser navigation back from the payment page.
// With success=true it consumes the pending signup and creates the
// account; with canceled=true or neither flag it does nothing. A
// success return with no pending record is a benign no-op, not an
// error: re-opening the return URL after completion is normal.
func (h *SignupHandler) Return(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)

	outcome := h.orchestrator.HandleReturn(r.Context(), sess, w, r)

	// The consumed cookie is still on this request, so recomputing state
	// from it would be stale after completion
	state := handoff.StateIdle
	if outcome != handoff.OutcomeCompleted {
		state = h.orchestrator.State(sess, w, r)
	}

	resp := dto.HandoffStateResponse{
		State:   string(state),
		Outcome: string(outcome),
	}

	switch outcome {
	case handoff.OutcomeCompleted:
		if u := sess.User(); u != nil {
			ur := dto.NewUserResponse(u, plan.Limit(u.Plan))
			resp.User = &ur
		}
		utils.WriteSuccess(w, http.StatusOK, resp)
	case handoff.OutcomeFailed:
		utils.WriteJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    errors.ErrCodeAccountCreationFailed,
				"message": "Account creation failed after payment",
			},
			"data": resp,
		})
	default:
		utils.WriteSuccess(w, http.StatusOK, resp)
	}
}

// State reports where the hand-off currently is for this session
func (h *SignupHandler) State(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)

	resp := dto.HandoffStateResponse{
		State: string(h.orchestrator.State(sess, w, r)),
	}
	if u := sess.User(); u != nil {
		ur := dto.NewUserResponse(u, plan.Limit(u.Plan))
		resp.User = &ur
	}
	utils.WriteSuccess(w, http.StatusOK, resp)
}

// PaymentURL rebuilds the payment page URL from the stored pending
// signup, for a browser that lost the original redirect
func (h *SignupHandler) PaymentURL(w http.ResponseWriter, r *http.Request) {
	paymentURL, err := h.payment.SignupURL(w, r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"payment_url": paymentURL})
}

// Checkout builds a payment page URL for an already signed-in user
// buying or changing a plan
func (h *SignupHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.FromRequest(r)
	if !ok || sess.User() == nil {
		utils.WriteError(w, errors.Unauthorized("Sign in required"))
		return
	}

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); errs != nil {
		utils.WriteError(w, errors.BadRequest("Invalid plan"))
		return
	}

	u := sess.User()
	paymentURL, err := h.payment.DirectURL(plan.Tier(req.Plan), u.Email)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.CheckoutResponse{
		PaymentURL: paymentURL,
		Plan:       req.Plan,
	})
}
