// internal/app/features/childreg/handler.go
//
// The child registry: which children are enrolled at which center and
// which sponsor each is linked to.
package childreg

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/children"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/htmlsanitize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/inputval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/normalize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Handler serves the child registry.
type Handler struct {
	Children *children.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// canSeeCenter reports whether the session user may read a center's
// children: administrators and missionaries see every center, a center
// account sees only its own.
func canSeeCenter(u *auth.SessionUser, centerID string) bool {
	if u.Roles.Has(models.RoleAdministrator) || u.Roles.Has(models.RoleMissionary) {
		return true
	}
	return u.Roles.Has(models.RoleCenter) && u.CenterID != "" && u.CenterID == centerID
}

// ServeListByCenter returns a center's children, oldest record first.
func (h *Handler) ServeListByCenter(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	centerID := normalize.Digits(r.URL.Query().Get("center_id"))
	if err := inputval.ValidateCenterID(centerID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !canSeeCenter(actor, centerID) {
		h.ErrLog.Forbidden(w, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	kids, err := h.Children.ListByCenter(ctx, centerID)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"children": kids})
}

// ServeMyChild returns the child linked to the signed-in sponsor.
func (h *Handler) ServeMyChild(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	if !actor.Roles.Has(models.RoleSponsor) || actor.SponsorID == "" {
		h.ErrLog.Forbidden(w, "sponsor account required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	c, err := h.Children.GetBySponsorID(ctx, actor.SponsorID)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	if c == nil {
		h.ErrLog.NotFound(w, "no child linked to this sponsor yet")
		return
	}
	uierrors.JSON(w, http.StatusOK, c)
}

type addChildRequest struct {
	ChildID     string `json:"child_id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	CenterID    string `json:"bridge_of_hope_center_id"`
	SponsorID   string `json:"sponsor_id"`
}

// ServeAdd enrolls a child at a center, optionally already linked to a
// sponsor.
func (h *Handler) ServeAdd(w http.ResponseWriter, r *http.Request) {
	var req addChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	req.ChildID = normalize.Digits(req.ChildID)
	if err := inputval.ValidateChildID(req.ChildID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	req.CenterID = normalize.Digits(req.CenterID)
	if err := inputval.ValidateCenterID(req.CenterID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if req.SponsorID != "" {
		req.SponsorID = normalize.Digits(req.SponsorID)
		if err := inputval.ValidateSponsorID(req.SponsorID); err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
	}
	req.Name = htmlsanitize.PlainText(req.Name)
	if req.Name == "" {
		h.ErrLog.BadRequest(w, "child name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if existing, err := h.Children.GetByChildID(ctx, req.ChildID); err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	} else if existing != nil {
		h.ErrLog.Conflict(w, "a child with this ID already exists")
		return
	}
	c, err := h.Children.Add(ctx, models.Child{
		ChildID:     req.ChildID,
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		CenterID:    req.CenterID,
		SponsorID:   req.SponsorID,
	})
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	h.Log.Info("child enrolled",
		zap.String("child_id", c.ChildID),
		zap.String("center_id", c.CenterID))
	uierrors.JSON(w, http.StatusCreated, c)
}

type assignRequest struct {
	SponsorID string `json:"sponsor_id"`
}

// ServeAssignSponsor links a sponsor to a child.
func (h *Handler) ServeAssignSponsor(w http.ResponseWriter, r *http.Request) {
	childID := normalize.Digits(r.URL.Query().Get("child_id"))
	if err := inputval.ValidateChildID(childID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	req.SponsorID = normalize.Digits(req.SponsorID)
	if err := inputval.ValidateSponsorID(req.SponsorID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	c, err := h.Children.GetByChildID(ctx, childID)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	if c == nil {
		h.ErrLog.NotFound(w, "child not found")
		return
	}
	if err := h.Children.AssignSponsor(ctx, childID, req.SponsorID); err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	h.Log.Info("sponsor assigned",
		zap.String("child_id", childID),
		zap.String("sponsor_id", req.SponsorID))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}
