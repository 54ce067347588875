// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes mounts the health endpoint. No auth; probes hit it directly.
func Routes(r chi.Router, h *Handler) {
	r.Get("/healthz", h.ServeHealth)
}
