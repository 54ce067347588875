// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/app/system/authz"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// SessionUser is the per-request view of the signed-in account. It is
// re-fetched from the directory on every request, so approval and role
// changes take effect without waiting for the cookie to expire.
type SessionUser struct {
	ID        primitive.ObjectID
	Email     string
	Roles     models.RoleSet
	Approval  models.ApprovalState
	SponsorID string
	CenterID  string
}

// AsUser converts the session view to a directory user for code that
// acts on behalf of the signed-in account. Only the identity, role,
// and approval fields are populated.
func (u *SessionUser) AsUser() *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     u.Roles,
		Approval:  u.Approval,
		SponsorID: u.SponsorID,
		CenterID:  u.CenterID,
	}
}

// Subject converts the session user to the guard's input.
func (u *SessionUser) Subject() *authz.Subject {
	if u == nil {
		return nil
	}
	return &authz.Subject{Approval: u.Approval, Roles: u.Roles}
}

// UserFetcher loads the fresh session user for a cookie's user id.
// Returning (nil, nil) means the account no longer exists.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

type ctxKey int

const userKey ctxKey = 0

// SessionManager owns the session cookie and the middleware that turns
// it into a SessionUser on the request context.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. secret is
// the HMAC key; name is the cookie name.
func NewSessionManager(secret []byte, name, domain string, secure bool, log *zap.Logger) *SessionManager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, log: log}
}

// SetUserFetcher wires the directory lookup. Called once at startup,
// after the stores exist.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// Store exposes the cookie store for handlers that need to manipulate
// the session directly (sign-in, sign-out).
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the request's session, creating a fresh one when
// the cookie is absent or undecodable.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SignIn marks the session authenticated for the given user id and
// writes the cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		// Undecodable cookie from an old key; start over.
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Values["is_authenticated"] = true
	sess.Values["user_id"] = userID
	return sess.Save(r, w)
}

// SignOut deletes the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

// LoadSessionUser resolves the session cookie into a SessionUser on
// the context. A missing cookie, an unknown user, or a directory fetch
// failure all leave the request anonymous; downstream guards then
// return 401 rather than serving stale identity.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		authed, _ := sess.Values["is_authenticated"].(bool)
		userID, _ := sess.Values["user_id"].(string)
		if !authed || userID == "" || sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}
		u, err := sm.fetcher.FetchSessionUser(r.Context(), userID)
		if err != nil {
			sm.log.Warn("session user fetch failed",
				zap.String("user_id", userID), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if u == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// WithUser returns a context carrying the session user. Exported for
// tests that exercise handlers without the cookie round trip.
func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser returns the session user placed by LoadSessionUser.
func CurrentUser(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(userKey).(*SessionUser)
	return u, ok && u != nil
}

func writeVerdict(w http.ResponseWriter, v authz.Verdict) {
	w.Header().Set("Content-Type", "application/json")
	switch v {
	case authz.RedirectToSignIn:
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "sign in required"})
	default:
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "not authorized"})
	}
}

func (sm *SessionManager) require(cap authz.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := CurrentUser(r.Context())
			if v := authz.Evaluate(u.Subject(), cap); v != authz.Allow {
				writeVerdict(w, v)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSignedIn admits any signed-in session, pending or not.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return sm.require(authz.CapabilityNone)(next)
}

// RequireApproved admits only approved accounts.
func (sm *SessionManager) RequireApproved(next http.Handler) http.Handler {
	return sm.require(authz.CapabilityApproved)(next)
}

// RequireAdministrator admits only approved administrators.
func (sm *SessionManager) RequireAdministrator(next http.Handler) http.Handler {
	return sm.require(authz.CapabilityAdministrator)(next)
}
