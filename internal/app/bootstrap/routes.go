// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	administratorsfeature "github.com/bridgeofhope/bridgehub/internal/app/features/administrators"
	approvalsfeature "github.com/bridgeofhope/bridgehub/internal/app/features/approvals"
	authgooglefeature "github.com/bridgeofhope/bridgehub/internal/app/features/authgoogle"
	centersfeature "github.com/bridgeofhope/bridgehub/internal/app/features/centers"
	childregfeature "github.com/bridgeofhope/bridgehub/internal/app/features/childreg"
	dashboardfeature "github.com/bridgeofhope/bridgehub/internal/app/features/dashboard"
	errorsfeature "github.com/bridgeofhope/bridgehub/internal/app/features/errors"
	healthfeature "github.com/bridgeofhope/bridgehub/internal/app/features/health"
	loginfeature "github.com/bridgeofhope/bridgehub/internal/app/features/login"
	logoutfeature "github.com/bridgeofhope/bridgehub/internal/app/features/logout"
	messagingfeature "github.com/bridgeofhope/bridgehub/internal/app/features/messaging"
	missionariesfeature "github.com/bridgeofhope/bridgehub/internal/app/features/missionaries"
	registerfeature "github.com/bridgeofhope/bridgehub/internal/app/features/register"
	sponsorsfeature "github.com/bridgeofhope/bridgehub/internal/app/features/sponsors"
	userinfofeature "github.com/bridgeofhope/bridgehub/internal/app/features/userinfo"
	userstore "github.com/bridgeofhope/bridgehub/internal/app/store/users"
	"github.com/bridgeofhope/bridgehub/internal/app/system/approval"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auditlog"
	"github.com/bridgeofhope/bridgehub/internal/app/system/auth"
	"github.com/bridgeofhope/bridgehub/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It builds the session manager, the
// approval engine, and every feature handler, then mounts them on one
// chi router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies in production.
	secure := coreCfg.Env == "prod"
	sessionMgr := auth.NewSessionManager(
		[]byte(appCfg.SessionKey), appCfg.SessionName, appCfg.SessionDomain, secure, logger)

	// Fresh user data on every request, so approvals and revocations
	// take effect without a new sign-in.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.Users))

	errLog := errorsfeature.New(logger)

	auditLog := auditlog.New(auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	}, deps.Audit, logger)

	engine := approval.New(deps.Users, auditLog, logger)

	window, err := time.ParseDuration(appCfg.LoginRateWindow)
	if err != nil || window <= 0 {
		window = time.Minute
	}
	limiter := ratelimit.New(appCfg.LoginRateLimit, window)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Loads the SessionUser into context when a valid cookie arrives.
	r.Use(sessionMgr.LoadSessionUser)

	health := &healthfeature.Handler{DB: deps.MongoDatabase, Log: logger}
	healthfeature.Routes(r, health)

	reg := &registerfeature.Handler{
		Users: deps.Users, Log: logger, ErrLog: errLog,
		AuditLog: auditLog, Limiter: limiter,
	}
	registerfeature.Routes(r, reg)

	login := &loginfeature.Handler{
		Users: deps.Users, SessionMgr: sessionMgr, Log: logger,
		ErrLog: errLog, AuditLog: auditLog, Limiter: limiter,
	}
	loginfeature.Routes(r, login)

	logout := &logoutfeature.Handler{SessionMgr: sessionMgr, Log: logger}
	logoutfeature.Routes(r, logout)

	google := &authgooglefeature.Handler{
		Users: deps.Users, States: deps.OAuthStates, SessionMgr: sessionMgr,
		Log: logger, AuditLog: auditLog,
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		RedirectURL:  appCfg.BaseURL + "/auth/google/callback",
	}
	authgooglefeature.Routes(r, google)

	userinfofeature.Routes(r, &userinfofeature.Handler{}, sessionMgr)

	dash := &dashboardfeature.Handler{
		Users: deps.Users, Children: deps.Children, Messages: deps.Messages,
		Directory: deps.Centers, Log: logger, ErrLog: errLog,
	}
	dashboardfeature.Routes(r, dash, sessionMgr)

	approvals := &approvalsfeature.Handler{
		Engine: engine, Users: deps.Users, Log: logger,
		ErrLog: errLog, AuditLog: auditLog,
	}
	approvalsfeature.Routes(r, approvals, sessionMgr)

	admins := &administratorsfeature.Handler{Engine: engine, Log: logger, ErrLog: errLog}
	administratorsfeature.Routes(r, admins, sessionMgr)

	missionaries := &missionariesfeature.Handler{Engine: engine, Log: logger, ErrLog: errLog}
	missionariesfeature.Routes(r, missionaries, sessionMgr)

	sponsors := &sponsorsfeature.Handler{
		Engine: engine, Children: deps.Children, Log: logger, ErrLog: errLog,
	}
	sponsorsfeature.Routes(r, sponsors, sessionMgr)

	centers := &centersfeature.Handler{
		Engine: engine, Users: deps.Users, Directory: deps.Centers,
		Log: logger, ErrLog: errLog,
	}
	centersfeature.Routes(r, centers, sessionMgr)

	childreg := &childregfeature.Handler{Children: deps.Children, Log: logger, ErrLog: errLog}
	childregfeature.Routes(r, childreg, sessionMgr)

	messaging := &messagingfeature.Handler{
		Messages: deps.Messages, Children: deps.Children,
		Log: logger, ErrLog: errLog,
	}
	messagingfeature.Routes(r, messaging, sessionMgr)

	return r, nil
}
