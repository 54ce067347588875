// internal/app/system/approval/approval_test.go
package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// fakeDirectory keeps users in a map and lets tests inject failures.
type fakeDirectory struct {
	users map[primitive.ObjectID]*models.User
	fail  error
	order []primitive.ObjectID
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[primitive.ObjectID]*models.User)}
}

func (d *fakeDirectory) add(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	d.users[u.ID] = u
	d.order = append(d.order, u.ID)
	return u
}

func (d *fakeDirectory) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	u, ok := d.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (d *fakeDirectory) SetDecision(_ context.Context, id primitive.ObjectID, state models.ApprovalState, by *primitive.ObjectID, at *time.Time) error {
	if d.fail != nil {
		return d.fail
	}
	u, ok := d.users[id]
	if !ok {
		return errors.New("missing user")
	}
	u.Approval = state
	u.ApprovedBy = by
	u.ApprovedAt = at
	return nil
}

func (d *fakeDirectory) GrantRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	if d.fail != nil {
		return d.fail
	}
	u := d.users[id]
	if !u.Roles.Has(role) {
		u.Roles = append(u.Roles, role)
	}
	return nil
}

func (d *fakeDirectory) ClearRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	if d.fail != nil {
		return d.fail
	}
	u := d.users[id]
	u.Roles = u.Roles.Without(role)
	return nil
}

func (d *fakeDirectory) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	var out []models.User
	for _, id := range d.order {
		u := d.users[id]
		if role == "" || u.Roles.Has(role) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) CountApprovedAdministrators(_ context.Context) (int64, error) {
	if d.fail != nil {
		return 0, d.fail
	}
	var n int64
	for _, u := range d.users {
		if u.IsApprovedAdministrator() {
			n++
		}
	}
	return n, nil
}

func approvedAdmin(d *fakeDirectory) *models.User {
	now := time.Now().UTC()
	u := d.add(&models.User{
		Email:    "admin@example.org",
		Roles:    models.RoleSet{models.RoleAdministrator},
		Approval: models.ApprovalApproved,
	})
	u.ApprovedBy = &u.ID
	u.ApprovedAt = &now
	return u
}

func pendingSponsor(d *fakeDirectory, email string) *models.User {
	return d.add(&models.User{
		Email:    email,
		Roles:    models.RoleSet{models.RoleSponsor},
		Approval: models.ApprovalPending,
	})
}

func newEngine(d *fakeDirectory) *Engine {
	return New(d, nil, zap.NewNop())
}

func TestApproveStampsDecision(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	target := pendingSponsor(d, "sponsor@example.org")
	e := newEngine(d)

	got, err := e.Approve(context.Background(), admin, target.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Approval != models.ApprovalApproved {
		t.Errorf("approval = %q, want approved", got.Approval)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != admin.ID {
		t.Error("approved_by must record the acting administrator")
	}
	if got.ApprovedAt == nil {
		t.Error("approved_at must be stamped")
	}

	stored := d.users[target.ID]
	if stored.Approval != models.ApprovalApproved {
		t.Error("decision not persisted")
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	target := pendingSponsor(d, "sponsor@example.org")
	e := newEngine(d)

	first, err := e.Approve(context.Background(), admin, target.ID)
	if err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	firstAt := *first.ApprovedAt

	second, err := e.Approve(context.Background(), admin, target.ID)
	if err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if !second.ApprovedAt.Equal(firstAt) {
		t.Error("re-approving must preserve the original decision stamp")
	}
}

func TestApprovePermissionDenied(t *testing.T) {
	d := newFakeDirectory()
	target := pendingSponsor(d, "sponsor@example.org")
	e := newEngine(d)

	actors := map[string]*models.User{
		"nil actor": nil,
		"pending administrator": d.add(&models.User{
			Email:    "pending-admin@example.org",
			Roles:    models.RoleSet{models.RoleAdministrator},
			Approval: models.ApprovalPending,
		}),
		"approved sponsor": d.add(&models.User{
			Email:    "other@example.org",
			Roles:    models.RoleSet{models.RoleSponsor},
			Approval: models.ApprovalApproved,
		}),
		"rejected administrator": d.add(&models.User{
			Email:    "rejected-admin@example.org",
			Roles:    models.RoleSet{models.RoleAdministrator},
			Approval: models.ApprovalRejected,
		}),
	}
	for name, actor := range actors {
		t.Run(name, func(t *testing.T) {
			if _, err := e.Approve(context.Background(), actor, target.ID); !errors.Is(err, ErrPermissionDenied) {
				t.Errorf("err = %v, want ErrPermissionDenied", err)
			}
		})
	}
	if d.users[target.ID].Approval != models.ApprovalPending {
		t.Error("denied attempts must not change the target")
	}
}

func TestApproveUnknownTarget(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	e := newEngine(d)
	if _, err := e.Approve(context.Background(), admin, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestApproveStoreFailure(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	target := pendingSponsor(d, "sponsor@example.org")
	e := newEngine(d)

	d.fail = errors.New("connection reset")
	if _, err := e.Approve(context.Background(), admin, target.ID); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestRejectThenApproveReversesDecision(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	target := pendingSponsor(d, "sponsor@example.org")
	e := newEngine(d)

	if _, err := e.Reject(context.Background(), admin, target.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if d.users[target.ID].Approval != models.ApprovalRejected {
		t.Fatal("reject not persisted")
	}

	got, err := e.Approve(context.Background(), admin, target.ID)
	if err != nil {
		t.Fatalf("Approve after Reject: %v", err)
	}
	if got.Approval != models.ApprovalApproved {
		t.Error("rejected user must be approvable")
	}
}

func TestRevokeRole(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	target := d.add(&models.User{
		Email:    "both@example.org",
		Roles:    models.RoleSet{models.RoleAdministrator, models.RoleMissionary},
		Approval: models.ApprovalApproved,
	})
	e := newEngine(d)

	got, err := e.RevokeRole(context.Background(), admin, target.ID, models.RoleAdministrator)
	if err != nil {
		t.Fatalf("RevokeRole: %v", err)
	}
	if got.Roles.Has(models.RoleAdministrator) {
		t.Error("administrator role must be removed")
	}
	if !got.Roles.Has(models.RoleMissionary) {
		t.Error("other roles must survive")
	}
	if got.Approval != models.ApprovalApproved {
		t.Error("approval state must not change on role revocation")
	}
}

func TestRevokeOwnAdministratorRoleDenied(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	e := newEngine(d)

	if _, err := e.RevokeRole(context.Background(), admin, admin.ID, models.RoleAdministrator); !errors.Is(err, ErrSelfRevocation) {
		t.Errorf("err = %v, want ErrSelfRevocation", err)
	}
	if !d.users[admin.ID].Roles.Has(models.RoleAdministrator) {
		t.Error("self-revocation must not change the actor")
	}
}

func TestRevokeOwnNonAdminRoleAllowed(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	d.users[admin.ID].Roles = append(d.users[admin.ID].Roles, models.RoleSponsor)
	admin.Roles = d.users[admin.ID].Roles
	e := newEngine(d)

	got, err := e.RevokeRole(context.Background(), admin, admin.ID, models.RoleSponsor)
	if err != nil {
		t.Fatalf("RevokeRole: %v", err)
	}
	if got.Roles.Has(models.RoleSponsor) {
		t.Error("sponsor role must be removable from self")
	}
}

func TestRevokeAbsentRoleIsNoOp(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	target := pendingSponsor(d, "sponsor@example.org")
	e := newEngine(d)

	got, err := e.RevokeRole(context.Background(), admin, target.ID, models.RoleMissionary)
	if err != nil {
		t.Fatalf("RevokeRole: %v", err)
	}
	if len(got.Roles) != 1 || !got.Roles.Has(models.RoleSponsor) {
		t.Errorf("roles = %v, want unchanged sponsor set", got.Roles)
	}
}

func TestBootstrapFirstAdministrator(t *testing.T) {
	d := newFakeDirectory()
	actor := pendingSponsor(d, "founder@example.org")
	e := newEngine(d)

	got, err := e.BootstrapSelfAsAdministrator(context.Background(), actor)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !got.IsApprovedAdministrator() {
		t.Error("bootstrap must yield an approved administrator")
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != actor.ID {
		t.Error("bootstrap decision is self-stamped")
	}
	if !got.Roles.Has(models.RoleSponsor) {
		t.Error("bootstrap must not drop existing roles")
	}
}

func TestBootstrapDeniedOnceAdministratorExists(t *testing.T) {
	d := newFakeDirectory()
	approvedAdmin(d)
	actor := pendingSponsor(d, "late@example.org")
	e := newEngine(d)

	if _, err := e.BootstrapSelfAsAdministrator(context.Background(), actor); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
	if d.users[actor.ID].Roles.Has(models.RoleAdministrator) {
		t.Error("denied bootstrap must not grant the role")
	}
}

func TestBootstrapIdempotentForExistingAdministrator(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	e := newEngine(d)

	got, err := e.BootstrapSelfAsAdministrator(context.Background(), admin)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got.ID != admin.ID || !got.IsApprovedAdministrator() {
		t.Error("bootstrap by an approved administrator is a no-op")
	}
}

func TestPartitionByRole(t *testing.T) {
	d := newFakeDirectory()
	admin := approvedAdmin(d)
	first := pendingSponsor(d, "first@example.org")
	second := pendingSponsor(d, "second@example.org")
	approved := d.add(&models.User{
		Email:    "ok@example.org",
		Roles:    models.RoleSet{models.RoleSponsor},
		Approval: models.ApprovalApproved,
	})
	rejected := d.add(&models.User{
		Email:    "no@example.org",
		Roles:    models.RoleSet{models.RoleSponsor},
		Approval: models.ApprovalRejected,
	})
	d.add(&models.User{
		Email:    "missionary@example.org",
		Roles:    models.RoleSet{models.RoleMissionary},
		Approval: models.ApprovalPending,
	})
	e := newEngine(d)

	p, err := e.PartitionByRole(context.Background(), admin, models.RoleSponsor)
	if err != nil {
		t.Fatalf("PartitionByRole: %v", err)
	}
	if len(p.Pending) != 2 || p.Pending[0].Email != first.Email || p.Pending[1].Email != second.Email {
		t.Errorf("pending = %v, want [%s %s] in registration order", p.Pending, first.Email, second.Email)
	}
	if len(p.Approved) != 1 || p.Approved[0].Email != approved.Email {
		t.Errorf("approved group wrong: %v", p.Approved)
	}
	if len(p.Rejected) != 1 || p.Rejected[0].Email != rejected.Email {
		t.Errorf("rejected group wrong: %v", p.Rejected)
	}
}

func TestPartitionByRoleRequiresAdministrator(t *testing.T) {
	d := newFakeDirectory()
	sponsor := d.add(&models.User{
		Email:    "sponsor@example.org",
		Roles:    models.RoleSet{models.RoleSponsor},
		Approval: models.ApprovalApproved,
	})
	e := newEngine(d)

	if _, err := e.PartitionByRole(context.Background(), sponsor, models.RoleSponsor); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}
