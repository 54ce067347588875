// internal/testutil/fixtures.go
package testutil

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Fixtures creates test data through the real stores, so tests
// exercise the same write paths as production code.
type Fixtures struct {
	T     *testing.T
	Users *users.Store
}

// NewFixtures builds a fixture helper over db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{T: t, Users: users.New(db)}
}

// CreateUser inserts a pending user with the given email and roles.
func (f *Fixtures) CreateUser(email string, roles ...models.Role) *models.User {
	f.T.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	u := &models.User{
		Email:      email,
		AuthMethod: "password",
		Roles:      roles,
	}
	if err := f.Users.Insert(ctx, u); err != nil {
		f.T.Fatalf("insert user %s: %v", email, err)
	}
	return u
}

// CreateUserWithPassword inserts a pending user with a usable bcrypt
// hash. Cost 4 keeps the suite fast.
func (f *Fixtures) CreateUserWithPassword(email, password string, roles ...models.Role) *models.User {
	f.T.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.T.Fatalf("hash password: %v", err)
	}
	ctx, cancel := TestContext()
	defer cancel()

	u := &models.User{
		Email:        email,
		AuthMethod:   "password",
		PasswordHash: string(hash),
		Roles:        roles,
	}
	if err := f.Users.Insert(ctx, u); err != nil {
		f.T.Fatalf("insert user %s: %v", email, err)
	}
	return u
}

// Approve marks the user approved, stamped by themselves. Shortcut for
// arranging state; decision-path tests go through the engine instead.
func (f *Fixtures) Approve(u *models.User) *models.User {
	f.T.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	now := time.Now().UTC()
	if err := f.Users.SetDecision(ctx, u.ID, models.ApprovalApproved, &u.ID, &now); err != nil {
		f.T.Fatalf("approve user %s: %v", u.Email, err)
	}
	u.Approval = models.ApprovalApproved
	u.ApprovedBy = &u.ID
	u.ApprovedAt = &now
	return u
}

// CreateAdmin inserts an approved administrator.
func (f *Fixtures) CreateAdmin(email string) *models.User {
	f.T.Helper()
	return f.Approve(f.CreateUser(email, models.RoleAdministrator))
}
