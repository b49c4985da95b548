package payment

import (
	"net/http"
	"net/url"

	"github.com/ezseobasics/ezseo/internal/config"
	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/metrics"
	"github.com/ezseobasics/ezseo/internal/signup"
)

// Handoff composes outbound URLs to the hosted payment pages. The flow
// is fire-and-forget: payment completes on the provider's site and is
// only observed later through the returning navigation's query.
type Handoff struct {
	links     map[plan.Tier]string
	publicURL string
	store     *signup.Store
}

// New creates a payment hand-off with the static per-tier link mapping
func New(cfg config.PaymentConfig, publicURL string, store *signup.Store) *Handoff {
	return &Handoff{
		links: map[plan.Tier]string{
			plan.TierBasic: cfg.BasicURL,
			plan.TierPlus:  cfg.PlusURL,
			plan.TierPro:   cfg.ProURL,
		},
		publicURL: publicURL,
		store:     store,
	}
}

// SignupURL resolves the payment URL from the stored pending signup. A
// missing record is a precondition violation: the caller must store
// credentials before handing off.
func (h *Handoff) SignupURL(w http.ResponseWriter, r *http.Request) (string, error) {
	pending, ok := h.store.Get(w, r)
	if !ok {
		return "", errors.MissingSignupState()
	}

	u, err := h.compose(pending.Plan, pending.Email)
	if err != nil {
		return "", err
	}

	metrics.RecordPaymentRedirect(string(pending.Plan), "signup")
	return u, nil
}

// StartURL resolves the payment URL at the moment the pending signup is
// first stored, before the cookie has round-tripped back to us.
func (h *Handoff) StartURL(tier plan.Tier, email string) (string, error) {
	u, err := h.compose(tier, email)
	if err != nil {
		return "", err
	}

	metrics.RecordPaymentRedirect(string(tier), "signup")
	return u, nil
}

// DirectURL resolves the payment URL for an already-authenticated
// account (plan upgrades). No pending signup is required or consumed.
func (h *Handoff) DirectURL(tier plan.Tier, email string) (string, error) {
	u, err := h.compose(tier, email)
	if err != nil {
		return "", err
	}

	metrics.RecordPaymentRedirect(string(tier), "direct")
	return u, nil
}

func (h *Handoff) compose(tier plan.Tier, email string) (string, error) {
	base, ok := h.links[tier]
	if !ok || base == "" {
		return "", errors.BadRequest("Unknown plan: " + string(tier))
	}

	successURL := h.publicURL + "/?success=true&email=" + url.QueryEscape(email)
	cancelURL := h.publicURL + "/?canceled=true"

	q := url.Values{}
	q.Set("success_url", successURL)
	q.Set("cancel_url", cancelURL)

	return base + "?" + q.Encode(), nil
}
