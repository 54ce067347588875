// internal/app/features/register/handler_test.go
package register

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
	"github.com/bridgeofhope/bridgehub/internal/testutil"
)

func newHandler(t *testing.T) (*Handler, *users.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := users.New(db)
	log := zap.NewNop()
	return &Handler{
		Users:  store,
		Log:    log,
		ErrLog: uierrors.New(log),
	}, store
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	h, store := newHandler(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/register", map[string]any{
		"email":      "sponsor@example.org",
		"password":   "a long password",
		"roles":      []string{"sponsor"},
		"sponsor_id": "12345678",
		"child_id":   "1234567891",
	})
	rec := httptest.NewRecorder()
	h.ServeRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := store.GetByEmail(ctx, "sponsor@example.org")
	if err != nil || u == nil {
		t.Fatalf("user not stored: %v", err)
	}
	if u.Approval != models.ApprovalPending {
		t.Errorf("approval = %q, want pending", u.Approval)
	}
	if u.ApprovedBy != nil || u.ApprovedAt != nil {
		t.Error("new registration must have no decision stamp")
	}
	if u.SponsorID != "12345678" || u.ChildID != "1234567891" {
		t.Errorf("role attributes not stored: %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "a long password" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := newHandler(t)

	body := map[string]any{
		"email":    "dup@example.org",
		"password": "a long password",
		"roles":    []string{"missionary"},
	}
	rec := httptest.NewRecorder()
	h.ServeRegister(rec, testutil.JSONRequest(t, http.MethodPost, "/api/register", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", rec.Code)
	}

	// Same address with different casing still collides.
	body["email"] = "DUP@example.org"
	rec = httptest.NewRecorder()
	h.ServeRegister(rec, testutil.JSONRequest(t, http.MethodPost, "/api/register", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newHandler(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad email", map[string]any{
			"email": "not-an-email", "password": "a long password", "roles": []string{"sponsor"},
			"sponsor_id": "12345678", "child_id": "1234567891",
		}},
		{"short password", map[string]any{
			"email": "x@example.org", "password": "short", "roles": []string{"missionary"},
		}},
		{"no roles", map[string]any{
			"email": "x@example.org", "password": "a long password", "roles": []string{},
		}},
		{"nine digit sponsor id", map[string]any{
			"email": "x@example.org", "password": "a long password", "roles": []string{"sponsor"},
			"sponsor_id": "123456789", "child_id": "1234567891",
		}},
		{"sponsor without child id", map[string]any{
			"email": "x@example.org", "password": "a long password", "roles": []string{"sponsor"},
			"sponsor_id": "12345678",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeRegister(rec, testutil.JSONRequest(t, http.MethodPost, "/api/register", tt.body))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}
