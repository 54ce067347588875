// internal/app/features/login/handler_test.go
package login

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
	"github.com/bridgeofhope/bridgehub/internal/testutil"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	sm := auth.NewSessionManager(
		[]byte("0123456789abcdef0123456789abcdef"), "bridgehub_session", "", false, log)
	return &Handler{
		Users:      users.New(db),
		SessionMgr: sm,
		Log:        log,
		ErrLog:     uierrors.New(log),
	}, testutil.NewFixtures(t, db)
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	h, f := newHandler(t)
	f.CreateUserWithPassword("sponsor@example.org", "open sesame now", models.RoleSponsor)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/login", map[string]string{
		"email":    "sponsor@example.org",
		"password": "open sesame now",
	})
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "bridgehub_session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie on successful login")
	}
}

func TestLoginPendingUserStillSignsIn(t *testing.T) {
	h, f := newHandler(t)
	f.CreateUserWithPassword("pending@example.org", "open sesame now", models.RoleMissionary)

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, testutil.JSONRequest(t, http.MethodPost, "/api/login", map[string]string{
		"email":    "pending@example.org",
		"password": "open sesame now",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; pending users sign in and see their status", rec.Code)
	}
	var body struct {
		Approval string `json:"approval"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Approval != "pending" {
		t.Errorf("approval = %q, want pending", body.Approval)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, f := newHandler(t)
	f.CreateUserWithPassword("user@example.org", "open sesame now", models.RoleSponsor)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "user@example.org", "wrong password!"},
		{"unknown email", "nobody@example.org", "open sesame now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeLogin(rec, testutil.JSONRequest(t, http.MethodPost, "/api/login", map[string]string{
				"email": tt.email, "password": tt.pass,
			}))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			// Identical body either way.
			want := `{"error":"invalid email or password"}`
			if got := rec.Body.String(); got != want+"\n" {
				t.Errorf("body = %q, want %q", got, want)
			}
		})
	}
}
