// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/bridgeofhope/bridgehub/internal/app/system/timeouts"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Startup runs one-time initialization after DB connections and schema
// setup, before the HTTP handler is built: the configured admin
// promotion and optional sample data seeding.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := promoteConfiguredAdmin(ctx, appCfg.AdminEmail, deps, logger); err != nil {
			return err
		}
	}
	if appCfg.SeedSampleData {
		seedCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		for name, seed := range map[string]func(context.Context) error{
			"centers":  deps.Centers.Seed,
			"children": deps.Children.Seed,
			"messages": deps.Messages.Seed,
		} {
			if err := seed(seedCtx); err != nil {
				logger.Warn("sample data seed failed",
					zap.String("dataset", name), zap.Error(err))
			}
		}
	}
	return nil
}

// promoteConfiguredAdmin grants the administrator role and approval to
// the configured account. The account must already exist; startup
// cannot invent a password for it. Promotion is idempotent, so leaving
// admin_email set across restarts is harmless.
func promoteConfiguredAdmin(ctx context.Context, email string, deps DBDeps, logger *zap.Logger) error {
	opCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := deps.Users.GetByEmail(opCtx, email)
	if err != nil {
		return fmt.Errorf("admin bootstrap lookup: %w", err)
	}
	if u == nil {
		logger.Warn("admin_email set but no such account; register it first",
			zap.String("email", email))
		return nil
	}
	if u.IsApprovedAdministrator() {
		return nil
	}
	if !u.Roles.Has(models.RoleAdministrator) {
		if err := deps.Users.GrantRole(opCtx, u.ID, models.RoleAdministrator); err != nil {
			return fmt.Errorf("admin bootstrap grant: %w", err)
		}
	}
	now := time.Now().UTC()
	if err := deps.Users.SetDecision(opCtx, u.ID, models.ApprovalApproved, &u.ID, &now); err != nil {
		return fmt.Errorf("admin bootstrap approve: %w", err)
	}
	logger.Info("configured administrator promoted", zap.String("email", email))
	return nil
}
