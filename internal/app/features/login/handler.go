// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auditlog"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/normalize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/ratelimit"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
)

// Handler serves password sign-in.
type Handler struct {
	Users      *users.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.Limiter
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) invalidCredentials(w http.ResponseWriter) {
	// One message for unknown email and wrong password; the response
	// never reveals whether the account exists.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
}

// ServeLogin verifies credentials and establishes the session. Pending
// and rejected users sign in normally; what they can reach afterwards
// is the guard's business, and the dashboard shows them their status.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if h.Limiter != nil && !h.Limiter.Allow(ip) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	req.Email = normalize.Email(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	if u == nil || u.AuthMethod != "password" {
		h.AuditLog.LoginFailure(ctx, r, req.Email, "unknown account")
		h.invalidCredentials(w)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		h.AuditLog.LoginFailure(ctx, r, req.Email, "bad password")
		h.invalidCredentials(w)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("session save failed", zap.Error(err), zap.String("email", u.Email))
		h.ErrLog.Write(w, r, err)
		return
	}
	if h.Limiter != nil {
		h.Limiter.Reset(ip)
	}

	h.AuditLog.LoginSuccess(ctx, r, u)
	h.Log.Info("user signed in", zap.String("email", u.Email))

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"id":       u.ID.Hex(),
		"email":    u.Email,
		"roles":    u.Roles,
		"approval": u.Approval,
	})
}
