// internal/app/features/authgoogle/routes.go
package authgoogle

import "github.com/go-chi/chi/v5"

// Routes mounts the Google OAuth flow. Public by necessity.
func Routes(r chi.Router, h *Handler) {
	r.Get("/auth/google", h.ServeLogin)
	r.Get("/auth/google/callback", h.ServeCallback)
}
