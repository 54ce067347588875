// internal/app/features/register/handler.go
package register

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auditlog"
	"github.com/bridgeofhope/bridgehub/internal/app/system/htmlsanitize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/inputval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/normalize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/ratelimit"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

const bcryptCost = 12

// Handler serves account registration.
type Handler struct {
	Users    *users.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Limiter  *ratelimit.Limiter
}

type registerRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`

	// Role attributes; validated when the matching role is requested.
	SponsorID  string `json:"sponsor_id"`
	ChildID    string `json:"child_id"`
	CenterName string `json:"center_name"`
}

// ServeRegister creates a pending account. The registrant picks their
// roles up front; every new account waits for an administrator
// decision before it can do anything beyond seeing its own status.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}

	req.Email = normalize.Email(req.Email)
	if err := inputval.ValidateEmail(req.Email); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := inputval.ValidatePassword(req.Password); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	roles, err := inputval.ValidateRoles(req.Roles)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	u := &models.User{
		Email:      req.Email,
		AuthMethod: "password",
		Roles:      roles,
	}
	if roles.Has(models.RoleSponsor) {
		req.SponsorID = normalize.Digits(req.SponsorID)
		if err := inputval.ValidateSponsorID(req.SponsorID); err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		req.ChildID = normalize.Digits(req.ChildID)
		if err := inputval.ValidateChildID(req.ChildID); err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		u.SponsorID = req.SponsorID
		u.ChildID = req.ChildID
	}
	if roles.Has(models.RoleCenter) {
		// The center's 8-digit id is assigned by an administrator at
		// approval time; registration only captures the name.
		u.CenterName = htmlsanitize.PlainText(req.CenterName)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	u.PasswordHash = string(hash)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Users.Insert(ctx, u); err != nil {
		if err == users.ErrDuplicateEmail {
			h.ErrLog.Conflict(w, "an account with this email already exists")
			return
		}
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}

	h.Log.Info("user registered",
		zap.String("email", u.Email),
		zap.Any("roles", u.Roles))
	h.AuditLog.Register(ctx, r, u)

	// The account is pending; the client returns to the sign-in page
	// rather than receiving a session.
	uierrors.JSON(w, http.StatusCreated, map[string]any{
		"id":       u.ID.Hex(),
		"email":    u.Email,
		"roles":    u.Roles,
		"approval": u.Approval,
	})
}
