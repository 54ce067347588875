// internal/app/features/missionaries/routes.go
package missionaries

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts the missionaries admin page endpoints.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdministrator)
		pr.Get("/api/admin/missionaries", h.ServeList)
		pr.Delete("/api/admin/missionaries/{id}", h.ServeRemove)
	})
}
