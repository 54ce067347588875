// internal/app/features/sponsors/routes.go
package sponsors

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts the sponsors admin page endpoints.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdministrator)
		pr.Get("/api/admin/sponsors", h.ServeList)
		pr.Delete("/api/admin/sponsors/{id}", h.ServeRemove)
	})
}
