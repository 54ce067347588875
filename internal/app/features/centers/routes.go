// internal/app/features/centers/routes.go
package centers

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts center administration. The directory listing is open
// to any approved user; everything else is administrator-only.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireApproved)
		pr.Get("/api/centers", h.ServeDirectory)
	})
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdministrator)
		pr.Get("/api/admin/centers", h.ServeList)
		pr.Put("/api/admin/centers/{id}", h.ServeUpdate)
		pr.Post("/api/admin/centers/{id}/approve", h.ServeApprove)
		pr.Delete("/api/admin/centers/{id}", h.ServeRemove)
		pr.Post("/api/admin/center-directory", h.ServeDirectoryAdd)
	})
}
