// internal/app/features/administrators/handler.go
package administrators

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/system/approval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Handler serves the administrators page: who holds the role today and
// removing the role from a colleague. Granting the role happens by
// approving a registration that requested it, or by bootstrap on a
// fresh install.
type Handler struct {
	Engine *approval.Engine
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

type adminView struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	ApprovedAt string `json:"approved_at,omitempty"`
	CreatedAt  string `json:"created_at"`
	Self       bool   `json:"self"`
}

// ServeList returns the approved administrators, oldest first. The
// caller's own row is flagged so the client can disable its remove
// button; the server enforces the same rule regardless.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	p, err := h.Engine.PartitionByRole(ctx, actor.AsUser(), models.RoleAdministrator)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	out := make([]adminView, 0, len(p.Approved))
	for _, u := range p.Approved {
		v := adminView{
			ID:        u.ID.Hex(),
			Email:     u.Email,
			CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Self:      u.ID == actor.ID,
		}
		if u.ApprovedAt != nil {
			v.ApprovedAt = u.ApprovedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		out = append(out, v)
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"administrators": out})
}

// ServeRemove revokes the administrator role from the target. The
// engine refuses self-removal so the system always keeps at least the
// acting administrator.
func (h *Handler) ServeRemove(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.RevokeRole(ctx, actor.AsUser(), oid, models.RoleAdministrator)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("administrator role removed",
		zap.String("target", u.Email),
		zap.String("actor", actor.Email))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
