// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Handler serves the signed-in user's own identity, the first call a
// client makes after page load to decide what to render.
type Handler struct{}

// ServeUserInfo returns the session user as re-fetched this request,
// so a just-approved user sees their new state immediately.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	uierrors.JSON(w, http.StatusOK, map[string]any{
		"id":         u.ID.Hex(),
		"email":      u.Email,
		"roles":      u.Roles,
		"approval":   u.Approval,
		"sponsor_id": u.SponsorID,
		"center_id":  u.CenterID,
	})
}
