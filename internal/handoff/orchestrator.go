package handoff

import (
	"context"
	"net/http"
	"sync"

	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/metrics"
	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
	"github.com/ezseobasics/ezseo/internal/signup"
)

// State names a position in the hand-off flow
type State string

const (
	// StateIdle: no hand-off in progress
	StateIdle State = "idle"
	// StateAwaitingPaymentReturn: credentials stored, payment page opened
	StateAwaitingPaymentReturn State = "awaiting_payment_return"
	// StateProcessingSignup: return observed, account creation running
	StateProcessingSignup State = "processing_signup"
)

// Outcome reports what a return navigation led to
type Outcome string

const (
	// OutcomeNone: no success indicator in the navigation query
	OutcomeNone Outcome = "none"
	// OutcomeCompleted: account created, pending record consumed
	OutcomeCompleted Outcome = "completed"
	// OutcomeNoPending: success indicator but no usable pending record
	OutcomeNoPending Outcome = "no_pending"
	// OutcomeFailed: account creation failed; logged, not retried
	OutcomeFailed Outcome = "failed"
	// OutcomeBusy: a processing run for this session is already active
	OutcomeBusy Outcome = "busy"
)

// Orchestrator ties the pending-signup store and the account service
// together: it observes the return from the external payment page and
// turns the stored credentials into an account. At most one processing
// run is active per session at any time.
type Orchestrator struct {
	store    *signup.Store
	accounts *services.AccountService
	logger   *logger.Logger

	mu         sync.Mutex
	processing map[string]bool
}

// New creates a hand-off orchestrator
func New(store *signup.Store, accounts *services.AccountService, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:      store,
		accounts:   accounts,
		logger:     log,
		processing: make(map[string]bool),
	}
}

// State reports the session's current position in the flow
func (o *Orchestrator) State(sess *session.Session, w http.ResponseWriter, r *http.Request) State {
	o.mu.Lock()
	busy := o.processing[sess.ID]
	o.mu.Unlock()

	if busy {
		return StateProcessingSignup
	}
	if _, ok := o.store.Get(w, r); ok {
		return StateAwaitingPaymentReturn
	}
	return StateIdle
}

// HandleReturn inspects the navigation query for the payment-success
// indicator and, when present, consumes the pending signup and creates
// the account. Failures are logged only; the user is left signed out
// and must re-attempt manually.
func (o *Orchestrator) HandleReturn(ctx context.Context, sess *session.Session, w http.ResponseWriter, r *http.Request) Outcome {
	query := r.URL.Query()

	if query.Get("canceled") == "true" {
		o.logger.WithFields(map[string]interface{}{
			"session": sess.ID,
		}).Info("Payment canceled by user")
		return OutcomeNone
	}

	if query.Get("success") != "true" {
		return OutcomeNone
	}

	if !o.begin(sess.ID) {
		return OutcomeBusy
	}
	defer o.end(sess.ID)

	pending, ok := o.store.Get(w, r)
	if !ok {
		// Expired, already consumed, or never set: back to idle
		o.logger.WithFields(map[string]interface{}{
			"session": sess.ID,
		}).Info("Payment return without pending signup")
		return OutcomeNoPending
	}

	u, err := o.accounts.CreateAccount(ctx, sess, pending.Email, pending.Password, pending.Plan)
	if err != nil {
		o.logger.WithFields(map[string]interface{}{
			"session": sess.ID,
			"email":   pending.Email,
			"plan":    pending.Plan,
		}).ErrorWithErr(err, "Post-payment account creation failed")
		metrics.RecordSignupProcessed(string(pending.Plan), "failure")
		return OutcomeFailed
	}

	o.store.Clear(w)
	metrics.RecordSignupProcessed(string(pending.Plan), "success")

	o.logger.WithFields(map[string]interface{}{
		"session":     sess.ID,
		"identity_id": u.ID,
		"plan":        u.Plan,
	}).Info("Post-payment signup completed")

	return OutcomeCompleted
}

// begin marks the session as processing; reports false when a run is
// already active
func (o *Orchestrator) begin(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.processing[sessionID] {
		return false
	}
	o.processing[sessionID] = true
	return true
}

func (o *Orchestrator) end(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.processing, sessionID)
}
