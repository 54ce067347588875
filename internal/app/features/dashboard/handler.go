// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/centerdir"
	"github.com/bridgeofhope/bridgehub/internal/app/store/children"
	"github.com/bridgeofhope/bridgehub/internal/app/store/messages"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Handler serves the landing dashboard. The payload depends on who is
// asking: pending users get their status, each role gets its summary.
type Handler struct {
	Users     *users.Store
	Children  *children.Store
	Messages  *messages.Store
	Directory *centerdir.Store
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
}

// ServeDashboard dispatches on approval state and roles. An account
// holding several roles gets every matching section.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())

	resp := map[string]any{
		"email":    actor.Email,
		"roles":    actor.Roles,
		"approval": actor.Approval,
	}

	// Pending and rejected accounts see only their status; the client
	// renders the waiting or denied screen from it.
	if actor.Approval != models.ApprovalApproved {
		uierrors.JSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if actor.Roles.Has(models.RoleAdministrator) {
		admin, err := h.adminSummary(ctx)
		if err != nil {
			h.ErrLog.StoreUnavailable(w, r, err)
			return
		}
		resp["admin"] = admin
	}
	if actor.Roles.Has(models.RoleSponsor) && actor.SponsorID != "" {
		resp["sponsor"] = h.sponsorSummary(ctx, actor.SponsorID)
	}
	if actor.Roles.Has(models.RoleMissionary) {
		if centers, err := h.Directory.List(ctx); err == nil {
			resp["missionary"] = map[string]any{"centers": centers}
		}
	}
	if actor.Roles.Has(models.RoleCenter) && actor.CenterID != "" {
		if kids, err := h.Children.ListByCenter(ctx, actor.CenterID); err == nil {
			sponsored := 0
			for _, c := range kids {
				if c.Sponsored() {
					sponsored++
				}
			}
			resp["center"] = map[string]any{
				"center_id": actor.CenterID,
				"children":  len(kids),
				"sponsored": sponsored,
			}
		}
	}

	uierrors.JSON(w, http.StatusOK, resp)
}

type adminSummary struct {
	PendingUsers   int64 `json:"pending_users"`
	Administrators int64 `json:"administrators"`
	Missionaries   int64 `json:"missionaries"`
	Sponsors       int64 `json:"sponsors"`
	Centers        int64 `json:"centers"`
}

func (h *Handler) adminSummary(ctx context.Context) (*adminSummary, error) {
	pending, err := h.Users.CountByRole(ctx, "", models.ApprovalPending)
	if err != nil {
		return nil, err
	}
	s := &adminSummary{PendingUsers: pending}
	counts := []struct {
		role models.Role
		dst  *int64
	}{
		{models.RoleAdministrator, &s.Administrators},
		{models.RoleMissionary, &s.Missionaries},
		{models.RoleSponsor, &s.Sponsors},
		{models.RoleCenter, &s.Centers},
	}
	for _, c := range counts {
		n, err := h.Users.CountByRole(ctx, c.role, models.ApprovalApproved)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return s, nil
}

func (h *Handler) sponsorSummary(ctx context.Context, sponsorID string) map[string]any {
	out := map[string]any{"sponsor_id": sponsorID}
	// Best effort; a devstore hiccup degrades the tile, not the page.
	if c, err := h.Children.GetBySponsorID(ctx, sponsorID); err == nil && c != nil {
		out["child"] = c
	}
	if n, err := h.Messages.UnreadCount(ctx, sponsorID); err == nil {
		out["unread_messages"] = n
	} else {
		h.Log.Warn("unread count failed",
			zap.String("sponsor_id", sponsorID), zap.Error(err))
	}
	return out
}
