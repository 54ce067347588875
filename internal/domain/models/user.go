// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is one of the independent roles a user may hold. A user can hold
// zero, one, or several roles at once (e.g. a missionary who also
// administers the system).
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleMissionary    Role = "missionary"
	RoleSponsor       Role = "sponsor"
	RoleCenter        Role = "center"
)

// AllRoles lists every valid role, in display order.
var AllRoles = []Role{RoleAdministrator, RoleMissionary, RoleSponsor, RoleCenter}

// ParseRole validates a role name coming from a form or API payload.
func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// RoleSet is the set of roles held by a user. Stored as an array of role
// names so the directory can filter on membership with a plain equality
// query ({"roles": "sponsor"}).
type RoleSet []Role

// Has reports whether the set contains the given role.
func (rs RoleSet) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Without returns a copy of the set with the given role removed.
func (rs RoleSet) Without(role Role) RoleSet {
	out := make(RoleSet, 0, len(rs))
	for _, r := range rs {
		if r != role {
			out = append(out, r)
		}
	}
	return out
}

// ApprovalState is the administrator decision on a registration.
// Every user starts pending; approved and rejected are re-enterable
// (an administrator may reverse an earlier decision) but no path leads
// back to pending.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// User is one registered account in the Bridge of Hope directory.
//
// Invariant: Approval == ApprovalPending exactly when ApprovedBy and
// ApprovedAt are both nil. The approval engine is the only writer of
// those three fields.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email   string             `bson:"email" json:"email"`
	EmailCI string             `bson:"email_ci" json:"-"` // lowercase, diacritics-stripped

	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google

	Roles    RoleSet       `bson:"roles" json:"roles"`
	Approval ApprovalState `bson:"approval" json:"approval"`

	ApprovedBy *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`

	// Role attributes. Present only when the matching role is held.
	SponsorID  string `bson:"sponsor_id,omitempty" json:"sponsor_id,omitempty"`   // 8 digits
	ChildID    string `bson:"child_id,omitempty" json:"child_id,omitempty"`       // 10 digits
	CenterID   string `bson:"center_id,omitempty" json:"center_id,omitempty"`     // 8 digits
	CenterName string `bson:"center_name,omitempty" json:"center_name,omitempty"` // free text

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdministrator reports whether the user holds the administrator role,
// regardless of approval state.
func (u *User) IsAdministrator() bool { return u.Roles.Has(RoleAdministrator) }

// IsApprovedAdministrator reports whether the user may perform
// administrator actions: the role alone is not enough, the account must
// also have been approved.
func (u *User) IsApprovedAdministrator() bool {
	return u.Approval == ApprovalApproved && u.Roles.Has(RoleAdministrator)
}

// Pending reports whether no approval decision has been made yet.
func (u *User) Pending() bool { return u.Approval == ApprovalPending }
