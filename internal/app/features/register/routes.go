// internal/app/features/register/routes.go
package register

import "github.com/go-chi/chi/v5"

// Routes mounts registration. Public by necessity.
func Routes(r chi.Router, h *Handler) {
	r.Post("/api/register", h.ServeRegister)
}
