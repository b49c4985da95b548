package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/ezseobasics/ezseo/internal/pkg/utils"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db      *sql.DB
	started time.Time
	version string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(db *sql.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now(), version: version}
}

// Healthz reports process liveness
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}

// Readyz reports readiness, including database connectivity
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"reason": "database unreachable",
			})
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
}
