package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vidtube/backend/internal/logging"
)

// HealthHandler responds with service health information.
type HealthHandler struct {
	DB Pinger
}

// Handle implements GET /healthz for infrastructure probes.
func (HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload := map[string]string{
		"status": "ok",
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// Check implements GET /api/v1/healthcheck, verifying database connectivity.
func (h HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			logging.FromContext(ctx).Error("healthcheck database ping failed", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "database unreachable")
			return
		}
	}

	respondData(ctx, w, http.StatusOK, map[string]string{"status": "ok"}, "service is healthy")
}
