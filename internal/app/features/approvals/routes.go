// internal/app/features/approvals/routes.go
package approvals

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts the approval workflow. Everything except bootstrap is
// administrator-only; bootstrap needs just a session because on a
// fresh install nobody is an administrator yet.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/api/bootstrap-admin", h.ServeBootstrap)
	})
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdministrator)
		pr.Get("/api/admin/users", h.ServeList)
		pr.Post("/api/admin/users/{id}/approve", h.ServeApprove)
		pr.Post("/api/admin/users/{id}/reject", h.ServeReject)
		pr.Post("/api/admin/users/{id}/revoke-role", h.ServeRevokeRole)
		pr.Delete("/api/admin/users/{id}", h.ServeDelete)
	})
}
