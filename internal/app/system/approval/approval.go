// internal/app/system/approval/approval.go
//
// Package approval is the only writer of the approval decision fields
// on a user. Handlers never update approval state through the
// directory directly; they go through the engine so the permission
// checks and the pending/approved/rejected invariants hold everywhere.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

var (
	// ErrPermissionDenied means the acting user is not an approved
	// administrator (or, for bootstrap, approved administrators already
	// exist).
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSelfRevocation means an administrator tried to remove their
	// own administrator role.
	ErrSelfRevocation = errors.New("you can't remove yourself as an administrator")
	// ErrNotFound means the target user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrStoreUnavailable wraps any directory failure. The engine never
	// retries; callers surface 503 and the operator investigates.
	ErrStoreUnavailable = errors.New("user directory unavailable")
)

// Directory is the slice of the user store the engine needs.
type Directory interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// SetDecision writes the approval state and its audit fields in one
	// update. by and at are nil only when state is pending.
	SetDecision(ctx context.Context, id primitive.ObjectID, state models.ApprovalState, by *primitive.ObjectID, at *time.Time) error
	GrantRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	ClearRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	// ListByRole returns users holding role, oldest registration first.
	// A zero role lists everyone.
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	CountApprovedAdministrators(ctx context.Context) (int64, error)
}

// Recorder receives decision events for the audit trail. May be nil.
type Recorder interface {
	Decision(ctx context.Context, event string, actor, target *models.User, detail string)
}

// Engine applies administrator decisions to the user directory.
type Engine struct {
	dir   Directory
	audit Recorder
	log   *zap.Logger
}

// New builds an engine. audit may be nil when auditing is off.
func New(dir Directory, audit Recorder, log *zap.Logger) *Engine {
	return &Engine{dir: dir, audit: audit, log: log}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func (e *Engine) fetchTarget(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := e.dir.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (e *Engine) record(ctx context.Context, event string, actor, target *models.User, detail string) {
	if e.audit != nil {
		e.audit.Decision(ctx, event, actor, target, detail)
	}
}

// Approve marks the target approved, stamping who decided and when.
// Approving an already-approved user is a no-op that preserves the
// original decision stamp. Works on pending and rejected users alike,
// so a wrong rejection can be reversed.
func (e *Engine) Approve(ctx context.Context, actor *models.User, targetID primitive.ObjectID) (*models.User, error) {
	if actor == nil || !actor.IsApprovedAdministrator() {
		return nil, ErrPermissionDenied
	}
	target, err := e.fetchTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Approval == models.ApprovalApproved {
		return target, nil
	}
	now := time.Now().UTC()
	if err := e.dir.SetDecision(ctx, targetID, models.ApprovalApproved, &actor.ID, &now); err != nil {
		return nil, storeErr(err)
	}
	target.Approval = models.ApprovalApproved
	target.ApprovedBy = &actor.ID
	target.ApprovedAt = &now
	e.log.Info("user approved",
		zap.String("target", target.Email),
		zap.String("actor", actor.Email))
	e.record(ctx, "user.approve", actor, target, "")
	return target, nil
}

// Reject marks the target rejected. Rejecting an already-rejected user
// is a no-op. An approved user can be rejected, which revokes access
// on their next request.
func (e *Engine) Reject(ctx context.Context, actor *models.User, targetID primitive.ObjectID) (*models.User, error) {
	if actor == nil || !actor.IsApprovedAdministrator() {
		return nil, ErrPermissionDenied
	}
	target, err := e.fetchTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Approval == models.ApprovalRejected {
		return target, nil
	}
	now := time.Now().UTC()
	if err := e.dir.SetDecision(ctx, targetID, models.ApprovalRejected, &actor.ID, &now); err != nil {
		return nil, storeErr(err)
	}
	target.Approval = models.ApprovalRejected
	target.ApprovedBy = &actor.ID
	target.ApprovedAt = &now
	e.log.Info("user rejected",
		zap.String("target", target.Email),
		zap.String("actor", actor.Email))
	e.record(ctx, "user.reject", actor, target, "")
	return target, nil
}

// RevokeRole removes one role from the target without touching their
// approval state or other roles. Administrators cannot revoke their
// own administrator role, which keeps the system from locking itself
// out. Revoking a role the target does not hold is a no-op.
func (e *Engine) RevokeRole(ctx context.Context, actor *models.User, targetID primitive.ObjectID, role models.Role) (*models.User, error) {
	if actor == nil || !actor.IsApprovedAdministrator() {
		return nil, ErrPermissionDenied
	}
	if role == models.RoleAdministrator && actor.ID == targetID {
		return nil, ErrSelfRevocation
	}
	target, err := e.fetchTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !target.Roles.Has(role) {
		return target, nil
	}
	if err := e.dir.ClearRole(ctx, targetID, role); err != nil {
		return nil, storeErr(err)
	}
	target.Roles = target.Roles.Without(role)
	e.log.Info("role revoked",
		zap.String("target", target.Email),
		zap.String("role", string(role)),
		zap.String("actor", actor.Email))
	e.record(ctx, "user.revoke_role", actor, target, string(role))
	return target, nil
}

// BootstrapSelfAsAdministrator lets the first user of a fresh install
// grant themselves the administrator role and self-approve. It refuses
// as soon as any approved administrator exists; from then on, all role
// and approval changes go through a real administrator.
func (e *Engine) BootstrapSelfAsAdministrator(ctx context.Context, actor *models.User) (*models.User, error) {
	if actor == nil {
		return nil, ErrPermissionDenied
	}
	if actor.IsApprovedAdministrator() {
		return actor, nil
	}
	n, err := e.dir.CountApprovedAdministrators(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if n > 0 {
		return nil, ErrPermissionDenied
	}
	if !actor.Roles.Has(models.RoleAdministrator) {
		if err := e.dir.GrantRole(ctx, actor.ID, models.RoleAdministrator); err != nil {
			return nil, storeErr(err)
		}
		actor.Roles = append(actor.Roles, models.RoleAdministrator)
	}
	now := time.Now().UTC()
	if err := e.dir.SetDecision(ctx, actor.ID, models.ApprovalApproved, &actor.ID, &now); err != nil {
		return nil, storeErr(err)
	}
	actor.Approval = models.ApprovalApproved
	actor.ApprovedBy = &actor.ID
	actor.ApprovedAt = &now
	e.log.Info("administrator bootstrapped", zap.String("user", actor.Email))
	e.record(ctx, "user.bootstrap_admin", actor, actor, "")
	return actor, nil
}

// Partition is a role's users grouped by approval state, each group
// oldest registration first.
type Partition struct {
	Pending  []models.User
	Approved []models.User
	Rejected []models.User
}

// PartitionByRole lists the users holding role and groups them by
// approval state. Every role-management page is built on this one
// query, so the grouping rules cannot drift between pages.
func (e *Engine) PartitionByRole(ctx context.Context, actor *models.User, role models.Role) (*Partition, error) {
	if actor == nil || !actor.IsApprovedAdministrator() {
		return nil, ErrPermissionDenied
	}
	users, err := e.dir.ListByRole(ctx, role)
	if err != nil {
		return nil, storeErr(err)
	}
	p := &Partition{}
	for _, u := range users {
		switch u.Approval {
		case models.ApprovalApproved:
			p.Approved = append(p.Approved, u)
		case models.ApprovalRejected:
			p.Rejected = append(p.Rejected, u)
		default:
			p.Pending = append(p.Pending, u)
		}
	}
	return p, nil
}
