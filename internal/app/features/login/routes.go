// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes mounts password sign-in. Public by necessity.
func Routes(r chi.Router, h *Handler) {
	r.Post("/api/login", h.ServeLogin)
}
