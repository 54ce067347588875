// internal/app/system/auth/auth_test.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

type stubFetcher struct {
	user *SessionUser
	err  error
}

func (f *stubFetcher) FetchSessionUser(_ context.Context, _ string) (*SessionUser, error) {
	return f.user, f.err
}

func newTestManager(t *testing.T, f UserFetcher) *SessionManager {
	t.Helper()
	sm := NewSessionManager([]byte("0123456789abcdef0123456789abcdef"), "bridgehub_session", "", false, zap.NewNop())
	if f != nil {
		sm.SetUserFetcher(f)
	}
	return sm
}

func signedInRequest(t *testing.T, sm *SessionManager, target string) *http.Request {
	t.Helper()
	// Run SignIn against a recorder to mint a valid cookie, then attach
	// it to a fresh request.
	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, seed, primitive.NewObjectID().Hex()); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestLoadSessionUserPutsFreshUserOnContext(t *testing.T) {
	want := &SessionUser{
		ID:       primitive.NewObjectID(),
		Email:    "admin@example.org",
		Roles:    models.RoleSet{models.RoleAdministrator},
		Approval: models.ApprovalApproved,
	}
	sm := newTestManager(t, &stubFetcher{user: want})

	var got *SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedInRequest(t, sm, "/dashboard"))

	if got == nil {
		t.Fatal("expected session user on context")
	}
	if got.Email != want.Email {
		t.Errorf("email = %q, want %q", got.Email, want.Email)
	}
}

func TestLoadSessionUserFailsAnonymousOnFetchError(t *testing.T) {
	sm := newTestManager(t, &stubFetcher{err: errors.New("directory down")})

	var present bool
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = CurrentUser(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedInRequest(t, sm, "/dashboard"))

	if present {
		t.Error("fetch failure must leave the request anonymous")
	}
}

func TestLoadSessionUserNoCookie(t *testing.T) {
	sm := newTestManager(t, &stubFetcher{})
	var present bool
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = CurrentUser(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if present {
		t.Error("anonymous request must have no session user")
	}
}

func TestRequireMiddlewareStatuses(t *testing.T) {
	sm := newTestManager(t, nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name string
		mw   func(http.Handler) http.Handler
		user *SessionUser
		want int
	}{
		{"anonymous hits signed-in route", sm.RequireSignedIn, nil, http.StatusUnauthorized},
		{"anonymous hits admin route", sm.RequireAdministrator, nil, http.StatusUnauthorized},
		{
			"pending user hits signed-in route",
			sm.RequireSignedIn,
			&SessionUser{Approval: models.ApprovalPending},
			http.StatusOK,
		},
		{
			"pending user hits approved route",
			sm.RequireApproved,
			&SessionUser{Approval: models.ApprovalPending},
			http.StatusForbidden,
		},
		{
			"approved sponsor hits admin route",
			sm.RequireAdministrator,
			&SessionUser{Approval: models.ApprovalApproved, Roles: models.RoleSet{models.RoleSponsor}},
			http.StatusForbidden,
		},
		{
			"approved admin hits admin route",
			sm.RequireAdministrator,
			&SessionUser{
				Approval: models.ApprovalApproved,
				Roles:    models.RoleSet{models.RoleAdministrator},
			},
			http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			tt.mw(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSignOutClearsSession(t *testing.T) {
	sm := newTestManager(t, nil)
	req := signedInRequest(t, sm, "/logout")
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "bridgehub_session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge = %d, want -1", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected deletion cookie in response")
	}
}
