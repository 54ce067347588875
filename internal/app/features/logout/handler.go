// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
)

// Handler serves sign-out.
type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

// ServeLogout deletes the session cookie. Safe to call signed out.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r.Context()); ok {
		h.Log.Info("user signed out", zap.String("email", u.Email))
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session delete failed", zap.Error(err))
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
