// internal/app/features/userinfo/routes.go
package userinfo

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts the identity endpoint. Any signed-in session may call
// it, pending accounts included.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/api/userinfo", h.ServeUserInfo)
	})
}
