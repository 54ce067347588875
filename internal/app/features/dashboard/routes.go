// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts the dashboard. Any signed-in session may call it so
// pending users can see where their registration stands.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/api/dashboard", h.ServeDashboard)
	})
}
