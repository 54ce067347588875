// internal/app/system/authz/authz.go
package authz

import "github.com/bridgeofhope/bridgehub/internal/domain/models"

// Capability is the access level a route demands.
type Capability int

const (
	// CapabilityNone requires only a signed-in session, any approval
	// state. Used by the landing dashboard so pending users can see
	// their own status.
	CapabilityNone Capability = iota
	// CapabilityApproved requires an approved account.
	CapabilityApproved
	// CapabilityAdministrator requires an approved account holding the
	// administrator role.
	CapabilityAdministrator
)

// Verdict is the guard's decision for a request.
type Verdict int

const (
	Allow Verdict = iota
	// RedirectToSignIn means no usable session. For the JSON API this
	// maps to 401.
	RedirectToSignIn
	// Deny means the session is fine but the account lacks the
	// capability. Maps to 403.
	Deny
)

// Subject is the slice of the session user the guard needs. The guard
// never consults anything else; in particular it does not trust data
// cached in the cookie, only what the per-request fetch produced.
type Subject struct {
	Approval models.ApprovalState
	Roles    models.RoleSet
}

// Evaluate decides whether a subject may reach a route with the given
// capability. A nil subject means no signed-in session. The guard
// fails closed: an unknown capability denies.
func Evaluate(sub *Subject, cap Capability) Verdict {
	if sub == nil {
		return RedirectToSignIn
	}
	switch cap {
	case CapabilityNone:
		return Allow
	case CapabilityApproved:
		if sub.Approval == models.ApprovalApproved {
			return Allow
		}
		return Deny
	case CapabilityAdministrator:
		if sub.Approval == models.ApprovalApproved && sub.Roles.Has(models.RoleAdministrator) {
			return Allow
		}
		return Deny
	}
	return Deny
}
