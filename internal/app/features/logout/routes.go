// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// Routes mounts sign-out.
func Routes(r chi.Router, h *Handler) {
	r.Post("/api/logout", h.ServeLogout)
}
