// internal/app/features/administrators/routes.go
package administrators

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts the administrators page endpoints.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdministrator)
		pr.Get("/api/admin/administrators", h.ServeList)
		pr.Delete("/api/admin/administrators/{id}", h.ServeRemove)
	})
}
