// internal/app/system/auditlog/auditlog.go
//
// Package auditlog records who did what to whom. Each category can be
// routed to the database, the structured log, both, or off, so a small
// deployment can keep the Mongo collection lean while still seeing
// sign-in activity in its logs.
package auditlog

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/app/store/audit"
	"github.com/bridgeofhope/bridgehub/internal/app/system/ratelimit"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Mode selects where a category's events go.
const (
	ModeAll = "all"
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config holds the per-category modes from app config.
type Config struct {
	Auth  string
	Admin string
}

// Logger writes audit events. A nil *Logger is a valid no-op, so
// callers never need to guard their audit calls.
type Logger struct {
	cfg   Config
	store *audit.Store
	log   *zap.Logger
}

// New builds a logger. store may be nil when no category uses the
// database.
func New(cfg Config, store *audit.Store, log *zap.Logger) *Logger {
	return &Logger{cfg: cfg, store: store, log: log}
}

func (l *Logger) emit(ctx context.Context, mode string, ev *audit.Event) {
	if l == nil || mode == ModeOff {
		return
	}
	if (mode == ModeAll || mode == ModeLog) && l.log != nil {
		l.log.Info("audit",
			zap.String("category", ev.Category),
			zap.String("event", ev.Event),
			zap.String("actor", ev.ActorMail),
			zap.String("target", ev.TargetMail),
			zap.String("detail", ev.Detail),
			zap.String("client_ip", ev.ClientIP))
	}
	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Insert(ctx, ev); err != nil && l.log != nil {
			l.log.Warn("audit event insert failed", zap.Error(err))
		}
	}
}

// LoginSuccess records a completed sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, u *models.User) {
	if l == nil {
		return
	}
	l.emit(ctx, l.cfg.Auth, &audit.Event{
		Category:  audit.CategoryAuth,
		Event:     audit.EventLoginSuccess,
		ActorID:   u.ID.Hex(),
		ActorMail: u.Email,
		ClientIP:  ratelimit.ClientIP(r),
	})
}

// LoginFailure records a failed sign-in attempt. The email is recorded
// as typed; the reason never includes whether the account exists.
func (l *Logger) LoginFailure(ctx context.Context, r *http.Request, email, reason string) {
	if l == nil {
		return
	}
	l.emit(ctx, l.cfg.Auth, &audit.Event{
		Category:  audit.CategoryAuth,
		Event:     audit.EventLoginFailure,
		ActorMail: email,
		Detail:    reason,
		ClientIP:  ratelimit.ClientIP(r),
	})
}

// Logout records a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, u *models.User) {
	if l == nil {
		return
	}
	l.emit(ctx, l.cfg.Auth, &audit.Event{
		Category:  audit.CategoryAuth,
		Event:     audit.EventLogout,
		ActorID:   u.ID.Hex(),
		ActorMail: u.Email,
		ClientIP:  ratelimit.ClientIP(r),
	})
}

// Register records a new registration.
func (l *Logger) Register(ctx context.Context, r *http.Request, u *models.User) {
	if l == nil {
		return
	}
	l.emit(ctx, l.cfg.Auth, &audit.Event{
		Category:  audit.CategoryAuth,
		Event:     audit.EventRegister,
		ActorID:   u.ID.Hex(),
		ActorMail: u.Email,
		ClientIP:  ratelimit.ClientIP(r),
	})
}

// Decision records an approval-engine decision. Satisfies the engine's
// Recorder interface.
func (l *Logger) Decision(ctx context.Context, event string, actor, target *models.User, detail string) {
	if l == nil {
		return
	}
	ev := &audit.Event{
		Category: audit.CategoryAdmin,
		Event:    event,
		Detail:   detail,
	}
	if actor != nil {
		ev.ActorID = actor.ID.Hex()
		ev.ActorMail = actor.Email
	}
	if target != nil {
		ev.TargetID = target.ID.Hex()
		ev.TargetMail = target.Email
	}
	l.emit(ctx, l.cfg.Admin, ev)
}

// UserDeleted records an administrator deleting an account.
func (l *Logger) UserDeleted(ctx context.Context, actor, target *models.User) {
	if l == nil {
		return
	}
	l.emit(ctx, l.cfg.Admin, &audit.Event{
		Category:   audit.CategoryAdmin,
		Event:      audit.EventUserDelete,
		ActorID:    actor.ID.Hex(),
		ActorMail:  actor.Email,
		TargetID:   target.ID.Hex(),
		TargetMail: target.Email,
	})
}
