package handlers

import "net/http"

// HealthHandler reports service liveness.
type HealthHandler struct {
	env string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{env: env}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"env":    h.env,
	})
}
