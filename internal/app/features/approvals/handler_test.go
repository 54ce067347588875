// internal/app/features/approvals/handler_test.go
package approvals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/approval"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
	"github.com/bridgeofhope/bridgehub/internal/testutil"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures, *users.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	store := users.New(db)
	return &Handler{
		Engine: approval.New(store, nil, log),
		Users:  store,
		Log:    log,
		ErrLog: uierrors.New(log),
	}, testutil.NewFixtures(t, db), store
}

// routeRequest runs a request through a throwaway chi router so URL
// params resolve the same way they do in production.
func routeRequest(h http.HandlerFunc, method, pattern string, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestApproveEndpoint(t *testing.T) {
	h, f, store := newHandler(t)
	admin := f.CreateAdmin("admin@example.org")
	target := f.CreateUser("sponsor@example.org", models.RoleSponsor)

	req := testutil.AsUser(testutil.JSONRequest(t, http.MethodPost,
		"/api/admin/users/"+target.ID.Hex()+"/approve", nil), admin)
	rec := routeRequest(h.ServeApprove, http.MethodPost, "/api/admin/users/{id}/approve", req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := store.GetByID(ctx, target.ID)
	if err != nil || got == nil {
		t.Fatalf("reload target: %v", err)
	}
	if got.Approval != models.ApprovalApproved {
		t.Errorf("approval = %q, want approved", got.Approval)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != admin.ID {
		t.Error("approved_by must record the administrator")
	}
}

func TestRejectThenApproveReverses(t *testing.T) {
	h, f, store := newHandler(t)
	admin := f.CreateAdmin("admin@example.org")
	target := f.CreateUser("center@example.org", models.RoleCenter)

	req := testutil.AsUser(testutil.JSONRequest(t, http.MethodPost,
		"/api/admin/users/"+target.ID.Hex()+"/reject", nil), admin)
	if rec := routeRequest(h.ServeReject, http.MethodPost, "/api/admin/users/{id}/reject", req); rec.Code != http.StatusOK {
		t.Fatalf("reject status = %d", rec.Code)
	}

	req = testutil.AsUser(testutil.JSONRequest(t, http.MethodPost,
		"/api/admin/users/"+target.ID.Hex()+"/approve", nil), admin)
	if rec := routeRequest(h.ServeApprove, http.MethodPost, "/api/admin/users/{id}/approve", req); rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d", rec.Code)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := store.GetByID(ctx, target.ID)
	if got.Approval != models.ApprovalApproved {
		t.Errorf("approval = %q, want approved after reversal", got.Approval)
	}
}

func TestRevokeOwnAdminRoleForbidden(t *testing.T) {
	h, f, store := newHandler(t)
	admin := f.CreateAdmin("admin@example.org")

	req := testutil.AsUser(testutil.JSONRequest(t, http.MethodPost,
		"/api/admin/users/"+admin.ID.Hex()+"/revoke-role",
		map[string]string{"role": "administrator"}), admin)
	rec := routeRequest(h.ServeRevokeRole, http.MethodPost, "/api/admin/users/{id}/revoke-role", req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := store.GetByID(ctx, admin.ID)
	if !got.Roles.Has(models.RoleAdministrator) {
		t.Error("self-revocation must not change the actor")
	}
}

func TestListPartitionsInRegistrationOrder(t *testing.T) {
	h, f, _ := newHandler(t)
	admin := f.CreateAdmin("admin@example.org")
	first := f.CreateUser("first@example.org", models.RoleSponsor)
	second := f.CreateUser("second@example.org", models.RoleSponsor)
	approved := f.Approve(f.CreateUser("ok@example.org", models.RoleSponsor))

	req := testutil.AsUser(httptest.NewRequest(http.MethodGet, "/api/admin/users?role=sponsor", nil), admin)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Pending  []struct{ Email string } `json:"pending"`
		Approved []struct{ Email string } `json:"approved"`
	}
	testutil.DecodeJSON(t, rec, &body)

	if len(body.Pending) != 2 || body.Pending[0].Email != first.Email || body.Pending[1].Email != second.Email {
		t.Errorf("pending = %+v, want oldest registration first", body.Pending)
	}
	if len(body.Approved) != 1 || body.Approved[0].Email != approved.Email {
		t.Errorf("approved = %+v", body.Approved)
	}
}

func TestBootstrapEndpointFirstUserOnly(t *testing.T) {
	h, f, store := newHandler(t)
	founder := f.CreateUser("founder@example.org", models.RoleMissionary)

	req := testutil.AsUser(testutil.JSONRequest(t, http.MethodPost, "/api/bootstrap-admin", nil), founder)
	rec := httptest.NewRecorder()
	h.ServeBootstrap(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bootstrap status = %d, body = %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := store.GetByID(ctx, founder.ID)
	if !got.IsApprovedAdministrator() {
		t.Fatal("founder must become an approved administrator")
	}

	// A second user cannot bootstrap once an administrator exists.
	late := f.CreateUser("late@example.org", models.RoleSponsor)
	req = testutil.AsUser(testutil.JSONRequest(t, http.MethodPost, "/api/bootstrap-admin", nil), late)
	rec = httptest.NewRecorder()
	h.ServeBootstrap(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("late bootstrap status = %d, want 403", rec.Code)
	}
}

func TestDeleteOwnAccountForbidden(t *testing.T) {
	h, f, store := newHandler(t)
	admin := f.CreateAdmin("admin@example.org")

	req := testutil.AsUser(httptest.NewRequest(http.MethodDelete,
		"/api/admin/users/"+admin.ID.Hex(), nil), admin)
	rec := routeRequest(h.ServeDelete, http.MethodDelete, "/api/admin/users/{id}", req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if got, _ := store.GetByID(ctx, admin.ID); got == nil {
		t.Error("account must survive a refused self-delete")
	}
}
