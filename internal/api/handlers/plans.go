package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ezseobasics/ezseo/internal/api/dto"
	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/pkg/errors"
	"github.com/ezseobasics/ezseo/internal/pkg/utils"
)

// PlanHandler serves the subscription plan catalog
type PlanHandler struct{}

// NewPlanHandler creates a plan handler
func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// List returns all plans in display order
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog := plan.Catalog()
	resp := make([]dto.PlanResponse, 0, len(catalog))
	for _, p := range catalog {
		resp = append(resp, dto.NewPlanResponse(p))
	}
	utils.WriteSuccess(w, http.StatusOK, resp)
}

// Get returns a single plan by tier ID
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	tier := plan.Tier(chi.URLParam(r, "id"))
	p, ok := plan.ByTier(tier)
	if !ok {
		utils.WriteError(w, errors.NotFound("Plan"))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewPlanResponse(p))
}
