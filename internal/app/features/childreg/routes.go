// internal/app/features/childreg/routes.go
package childreg

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts the child registry. Reads require an approved account
// (with per-center checks in the handler); writes are administrator
// only.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireApproved)
		pr.Get("/api/children", h.ServeListByCenter)
		pr.Get("/api/my-child", h.ServeMyChild)
	})
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdministrator)
		pr.Post("/api/admin/children", h.ServeAdd)
		pr.Post("/api/admin/children/assign-sponsor", h.ServeAssignSponsor)
	})
}
