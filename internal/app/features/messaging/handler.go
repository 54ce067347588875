// internal/app/features/messaging/handler.go
//
// Sponsor-child messaging. A thread is keyed by the sponsor's 8-digit
// id; sponsors write to their child and missionaries write back on the
// child's behalf.
package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/children"
	"github.com/bridgeofhope/bridgehub/internal/app/store/messages"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/htmlsanitize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/inputval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/normalize"
	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// recentWindowDays is the default lookback for a center's recent
// message activity.
const recentWindowDays = 60

// Handler serves the messaging endpoints.
type Handler struct {
	Messages *messages.Store
	Children *children.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// canReadThread reports whether the session user may read a sponsor's
// thread. Sponsors read their own; administrators and missionaries
// read any; a center account reads threads of children at its center.
func (h *Handler) canReadThread(ctx context.Context, u *auth.SessionUser, sponsorID string) (bool, error) {
	if u.Roles.Has(models.RoleAdministrator) || u.Roles.Has(models.RoleMissionary) {
		return true, nil
	}
	if u.Roles.Has(models.RoleSponsor) && u.SponsorID == sponsorID {
		return true, nil
	}
	if u.Roles.Has(models.RoleCenter) && u.CenterID != "" {
		c, err := h.Children.GetBySponsorID(ctx, sponsorID)
		if err != nil {
			return false, err
		}
		return c != nil && c.CenterID == u.CenterID, nil
	}
	return false, nil
}

// ServeThread returns a sponsor's thread, newest first. When the
// sponsor reads their own thread, unread incoming messages are marked
// read as a side effect, which is what drives the unread badge down.
func (h *Handler) ServeThread(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	sponsorID := normalize.Digits(r.URL.Query().Get("sponsor_id"))
	if sponsorID == "" && actor.SponsorID != "" {
		sponsorID = actor.SponsorID
	}
	if err := inputval.ValidateSponsorID(sponsorID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	ok, err := h.canReadThread(ctx, actor, sponsorID)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	if !ok {
		h.ErrLog.Forbidden(w, "")
		return
	}

	if actor.Roles.Has(models.RoleSponsor) && actor.SponsorID == sponsorID {
		if err := h.Messages.MarkThreadRead(ctx, sponsorID); err != nil {
			h.Log.Warn("mark thread read failed",
				zap.String("sponsor_id", sponsorID), zap.Error(err))
		}
	}

	msgs, err := h.Messages.Thread(ctx, sponsorID)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

type sendRequest struct {
	SponsorID string `json:"sponsor_id"`
	Text      string `json:"message_text"`
}

// ServeSend posts a message into a thread. The direction comes from
// the sender's role: sponsors write to their child, missionaries write
// to the sponsor. Nobody else can post.
func (h *Handler) ServeSend(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	req.Text = htmlsanitize.PlainText(req.Text)
	if err := inputval.ValidateMessageText(req.Text); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var direction models.MessageDirection
	sponsorID := normalize.Digits(req.SponsorID)
	switch {
	case actor.Roles.Has(models.RoleSponsor) && actor.SponsorID != "":
		// Sponsors always write into their own thread.
		sponsorID = actor.SponsorID
		direction = models.DirectionToChild
	case actor.Roles.Has(models.RoleMissionary):
		direction = models.DirectionToSponsor
	default:
		h.ErrLog.Forbidden(w, "only sponsors and missionaries can send messages")
		return
	}
	if err := inputval.ValidateSponsorID(sponsorID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	msg, err := h.Messages.Add(ctx, models.Message{
		SponsorID: sponsorID,
		Text:      req.Text,
		Direction: direction,
	})
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	h.Log.Info("message sent",
		zap.String("sponsor_id", sponsorID),
		zap.String("direction", string(direction)))
	uierrors.JSON(w, http.StatusCreated, msg)
}

// ServeUnreadCount returns how many incoming messages the signed-in
// sponsor has not read yet.
func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	if !actor.Roles.Has(models.RoleSponsor) || actor.SponsorID == "" {
		h.ErrLog.Forbidden(w, "sponsor account required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	n, err := h.Messages.UnreadCount(ctx, actor.SponsorID)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]int{"unread": n})
}

// ServeRecentByCenter returns a center's message activity over the
// last N days (default 60), newest first. Missionaries use it to see
// which threads need a reply.
func (h *Handler) ServeRecentByCenter(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	centerID := normalize.Digits(r.URL.Query().Get("center_id"))
	if err := inputval.ValidateCenterID(centerID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	allowed := actor.Roles.Has(models.RoleAdministrator) ||
		actor.Roles.Has(models.RoleMissionary) ||
		(actor.Roles.Has(models.RoleCenter) && actor.CenterID == centerID)
	if !allowed {
		h.ErrLog.Forbidden(w, "")
		return
	}

	days := recentWindowDays
	if q := r.URL.Query().Get("days"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	kids, err := h.Children.ListByCenter(ctx, centerID)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	var sponsorIDs []string
	for _, c := range kids {
		if c.SponsorID != "" {
			sponsorIDs = append(sponsorIDs, c.SponsorID)
		}
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	msgs, err := h.Messages.RecentBySponsorIDs(ctx, sponsorIDs, since)
	if err != nil {
		h.ErrLog.StoreUnavailable(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"messages": msgs})
}
