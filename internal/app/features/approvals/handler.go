// internal/app/features/approvals/handler.go
//
// Administrator decisions on registrations: the pending queue, approve,
// reject, role revocation, deletion, and first-administrator bootstrap.
package approvals

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/approval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auditlog"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Handler serves the approval workflow endpoints.
type Handler struct {
	Engine   *approval.Engine
	Users    *users.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func targetID(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return oid, err == nil
}

// userView is the admin-facing shape of a directory user.
type userView struct {
	ID         string               `json:"id"`
	Email      string               `json:"email"`
	Roles      models.RoleSet       `json:"roles"`
	Approval   models.ApprovalState `json:"approval"`
	ApprovedBy string               `json:"approved_by,omitempty"`
	ApprovedAt string               `json:"approved_at,omitempty"`
	SponsorID  string               `json:"sponsor_id,omitempty"`
	ChildID    string               `json:"child_id,omitempty"`
	CenterID   string               `json:"center_id,omitempty"`
	CenterName string               `json:"center_name,omitempty"`
	CreatedAt  string               `json:"created_at"`
}

func toView(u *models.User) userView {
	v := userView{
		ID:         u.ID.Hex(),
		Email:      u.Email,
		Roles:      u.Roles,
		Approval:   u.Approval,
		SponsorID:  u.SponsorID,
		ChildID:    u.ChildID,
		CenterID:   u.CenterID,
		CenterName: u.CenterName,
		CreatedAt:  u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if u.ApprovedBy != nil {
		v.ApprovedBy = u.ApprovedBy.Hex()
	}
	if u.ApprovedAt != nil {
		v.ApprovedAt = u.ApprovedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return v
}

func toViews(us []models.User) []userView {
	out := make([]userView, 0, len(us))
	for i := range us {
		out = append(out, toView(&us[i]))
	}
	return out
}

type partitionView struct {
	Pending  []userView `json:"pending"`
	Approved []userView `json:"approved"`
	Rejected []userView `json:"rejected"`
}

func toPartitionView(p *approval.Partition) partitionView {
	return partitionView{
		Pending:  toViews(p.Pending),
		Approved: toViews(p.Approved),
		Rejected: toViews(p.Rejected),
	}
}

// ServeList returns every registered user grouped by approval state,
// oldest registration first within each group. The optional role query
// parameter narrows to one role's users; the role-management pages all
// read from here.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())

	var role models.Role
	if q := r.URL.Query().Get("role"); q != "" {
		parsed, ok := models.ParseRole(q)
		if !ok {
			h.ErrLog.BadRequest(w, "unknown role")
			return
		}
		role = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	p, err := h.Engine.PartitionByRole(ctx, actor.AsUser(), role)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, toPartitionView(p))
}

// ServeApprove approves the target user.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, ok := targetID(r)
	if !ok {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.Approve(ctx, actor.AsUser(), oid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, toView(u))
}

// ServeReject rejects the target user.
func (h *Handler) ServeReject(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, ok := targetID(r)
	if !ok {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.Reject(ctx, actor.AsUser(), oid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, toView(u))
}

type revokeRequest struct {
	Role string `json:"role"`
}

// ServeRevokeRole removes one role from the target user.
func (h *Handler) ServeRevokeRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, ok := targetID(r)
	if !ok {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	role, okRole := models.ParseRole(req.Role)
	if !okRole {
		h.ErrLog.BadRequest(w, "unknown role")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.RevokeRole(ctx, actor.AsUser(), oid, role)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, toView(u))
}

// ServeDelete removes a registration outright. The pending queue uses
// this to discard accounts that will never be approved. Administrators
// cannot delete themselves.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, ok := targetID(r)
	if !ok {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	if actor.ID == oid {
		h.ErrLog.Forbidden(w, "you can't remove your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	target, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	if target == nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	if err := h.Users.Delete(ctx, oid); err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}

	h.Log.Info("user deleted",
		zap.String("target", target.Email),
		zap.String("actor", actor.Email))
	h.AuditLog.UserDeleted(ctx, actor.AsUser(), target)
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServeBootstrap lets the signed-in user claim the first administrator
// seat on a fresh install. Fails once any approved administrator
// exists.
func (h *Handler) ServeBootstrap(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.BootstrapSelfAsAdministrator(ctx, actor.AsUser())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, toView(u))
}
