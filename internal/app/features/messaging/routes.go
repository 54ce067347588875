// internal/app/features/messaging/routes.go
package messaging

import (
	"github.com/go-chi/chi/v5"

	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Routes mounts messaging. Everything needs an approved account; finer
// checks (own thread, own center) live in the handlers.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireApproved)
		pr.Get("/api/messages", h.ServeThread)
		pr.Post("/api/messages", h.ServeSend)
		pr.Get("/api/messages/unread-count", h.ServeUnreadCount)
		pr.Get("/api/messages/recent", h.ServeRecentByCenter)
	})
}
