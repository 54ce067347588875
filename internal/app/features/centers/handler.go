// internal/app/features/centers/handler.go
//
// Bridge of Hope center administration: the center-role users awaiting
// approval, their 8-digit center id assignment, and the directory of
// center entities themselves.
package centers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/centerdir"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/approval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/htmlsanitize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/inputval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/normalize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Handler serves center administration.
type Handler struct {
	Engine    *approval.Engine
	Users     *users.Store
	Directory *centerdir.Store
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
}

type centerUserView struct {
	ID         string               `json:"id"`
	Email      string               `json:"email"`
	Approval   models.ApprovalState `json:"approval"`
	CenterID   string               `json:"center_id,omitempty"`
	CenterName string               `json:"center_name,omitempty"`
	CreatedAt  string               `json:"created_at"`
}

func toViews(us []models.User) []centerUserView {
	out := make([]centerUserView, 0, len(us))
	for _, u := range us {
		out = append(out, centerUserView{
			ID:         u.ID.Hex(),
			Email:      u.Email,
			Approval:   u.Approval,
			CenterID:   u.CenterID,
			CenterName: u.CenterName,
			CreatedAt:  u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

// ServeList returns center-role users grouped by approval state,
// oldest registration first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	p, err := h.Engine.PartitionByRole(ctx, actor.AsUser(), models.RoleCenter)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{
		"pending":  toViews(p.Pending),
		"approved": toViews(p.Approved),
		"rejected": toViews(p.Rejected),
	})
}

type updateRequest struct {
	CenterName string `json:"center_name"`
	CenterID   string `json:"center_id"`
}

// ServeUpdate sets a center user's name and 8-digit center id. The id
// is assigned here, typically right before approval.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	req.CenterID = normalize.Digits(req.CenterID)
	if err := inputval.ValidateCenterID(req.CenterID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	req.CenterName = htmlsanitize.PlainText(req.CenterName)
	if req.CenterName == "" {
		h.ErrLog.BadRequest(w, "center name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	target, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	if target == nil || !target.Roles.Has(models.RoleCenter) {
		h.ErrLog.NotFound(w, "center user not found")
		return
	}
	if err := h.Users.UpdateCenterAttrs(ctx, oid, users.CenterAttrs{
		CenterName: req.CenterName,
		CenterID:   req.CenterID,
	}); err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}

	h.Log.Info("center attributes updated",
		zap.String("target", target.Email),
		zap.String("center_id", req.CenterID))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ServeApprove approves a center user. The 8-digit center id must be
// assigned first; an approved center user without one could never see
// their children or messages.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	target, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	if target == nil || !target.Roles.Has(models.RoleCenter) {
		h.ErrLog.NotFound(w, "center user not found")
		return
	}
	if err := inputval.ValidateCenterID(target.CenterID); err != nil {
		h.ErrLog.BadRequest(w, "assign a center ID before approving")
		return
	}

	u, err := h.Engine.Approve(ctx, actor.AsUser(), oid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{
		"id":       u.ID.Hex(),
		"approval": u.Approval,
	})
}

// ServeRemove revokes the center role from the target.
func (h *Handler) ServeRemove(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.RevokeRole(ctx, actor.AsUser(), oid, models.RoleCenter)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("center role removed",
		zap.String("target", u.Email),
		zap.String("actor", actor.Email))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ServeDirectory lists the center entities. Administrators and
// approved missionaries both read this when navigating children.
func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	centers, err := h.Directory.List(ctx)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"centers": centers})
}

type addCenterRequest struct {
	CenterID string `json:"center_id"`
	Name     string `json:"name"`
}

// ServeDirectoryAdd registers a new center entity.
func (h *Handler) ServeDirectoryAdd(w http.ResponseWriter, r *http.Request) {
	var req addCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	req.CenterID = normalize.Digits(req.CenterID)
	if err := inputval.ValidateCenterID(req.CenterID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	req.Name = htmlsanitize.PlainText(req.Name)
	if req.Name == "" {
		h.ErrLog.BadRequest(w, "center name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if existing, err := h.Directory.GetByCenterID(ctx, req.CenterID); err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	} else if existing != nil {
		h.ErrLog.Conflict(w, "a center with this ID already exists")
		return
	}
	c, err := h.Directory.Add(ctx, req.CenterID, req.Name)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusCreated, c)
}
