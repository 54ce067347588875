// internal/app/features/sponsors/handler.go
package sponsors

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/children"
	"github.com/bridgeofhope/bridgehub/internal/app/system/approval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Handler serves the sponsors admin page.
type Handler struct {
	Engine   *approval.Engine
	Children *children.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

type sponsorView struct {
	ID        string               `json:"id"`
	Email     string               `json:"email"`
	Approval  models.ApprovalState `json:"approval"`
	SponsorID string               `json:"sponsor_id,omitempty"`
	ChildID   string               `json:"child_id,omitempty"`
	ChildName string               `json:"child_name,omitempty"`
	CreatedAt string               `json:"created_at"`
}

func (h *Handler) toViews(ctx context.Context, us []models.User) []sponsorView {
	out := make([]sponsorView, 0, len(us))
	for _, u := range us {
		v := sponsorView{
			ID:        u.ID.Hex(),
			Email:     u.Email,
			Approval:  u.Approval,
			SponsorID: u.SponsorID,
			ChildID:   u.ChildID,
			CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if u.SponsorID != "" {
			// Child lookup failures just leave the name blank; the
			// page is still useful without it.
			if c, err := h.Children.GetBySponsorID(ctx, u.SponsorID); err == nil && c != nil {
				v.ChildName = c.Name
			}
		}
		out = append(out, v)
	}
	return out
}

// ServeList returns sponsor-role users grouped by approval state,
// oldest registration first, each linked to their child when one is
// assigned.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	p, err := h.Engine.PartitionByRole(ctx, actor.AsUser(), models.RoleSponsor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{
		"pending":  h.toViews(ctx, p.Pending),
		"approved": h.toViews(ctx, p.Approved),
		"rejected": h.toViews(ctx, p.Rejected),
	})
}

// ServeRemove revokes the sponsor role from the target.
func (h *Handler) ServeRemove(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := h.Engine.RevokeRole(ctx, actor.AsUser(), oid, models.RoleSponsor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("sponsor role removed",
		zap.String("target", u.Email),
		zap.String("actor", actor.Email))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
