// internal/app/features/missionaries/handler.go
package missionaries

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

// Handler serves the missionaries admin page.
type Handler struct {
	Engine *approval.Engine
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

type missionaryView struct {
	ID        string               `json:"id"`
	Email     string               `json:"email"`
	Approval  models.ApprovalState `json:"approval"`
	CreatedAt string               `json:"created_at"`
}

func toViews(us []models.User) []missionaryView {
	out := make([]missionaryView, 0, len(us))
	for _, u := range us {
		out = append(out, missionaryView{
			ID:        u.ID.Hex(),
			Email:     u.Email,
			Approval:  u.Approval,
			CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

// ServeList returns missionary-role users grouped by approval state,
// oldest registration first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	p, err := h.Engine.PartitionByRole(ctx, actor.AsUser(), models.RoleMissionary)
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

// ServeRemove revokes the missionary role from the target, leaving
// their other roles and approval state alone.
func (h *Handler) ServeRemove(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.RevokeRole(ctx, actor.AsUser(), oid, models.RoleMissionary)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("missionary role removed",
		zap.String("target", u.Email),
		zap.String("actor", actor.Email))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
