package app

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app/handlers"
	"github.com/dmitrymomot/authflow/app/static"
	"github.com/dmitrymomot/authflow/middlewares"
	"github.com/dmitrymomot/authflow/pkg/cache"
	"github.com/dmitrymomot/authflow/pkg/health"
	"github.com/dmitrymomot/authflow/pkg/job"
	"github.com/dmitrymomot/authflow/pkg/session"
)

// UserStore is satisfied by *repository.Users.
type UserStore interface {
	handlers.Users
	handlers.Lookup
	middlewares.IdentityFinder
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Config   Config
	Logger   *slog.Logger
	Users    UserStore
	Hasher   handlers.Hasher
	Jobs     job.Enqueuer
	Sessions session.Store

	// Optional.
	JobManager *job.Manager
	CheckCache cache.Cache[bool]
	Readiness  health.Checks
}

// NewServer wires routes and middleware.
//
// Middleware order: panics are recovered first, then the request gets an id
// and an access log line, then a deadline. The identity is resolved next so
// the guest redirect can read it.
func NewServer(d Deps) *authflow.App {
	cfg := d.Config

	opts := []authflow.Option{
		authflow.WithLogger(d.Logger),
		authflow.WithCookies(cfg.Cookie),
		authflow.WithSession(d.Sessions,
			authflow.WithSessionCookieName(cfg.SessionCookie),
			authflow.WithSessionMaxAge(int(cfg.SessionTTL.Seconds())),
			authflow.WithSessionDomain(cfg.Cookie.Domain),
			authflow.WithSessionSecure(cfg.Cookie.Secure),
		),
		authflow.WithMiddleware(
			middlewares.Recover(),
			middlewares.RequestID(),
			middlewares.Logging(),
			middlewares.Timeout(cfg.RequestTimeout),
			middlewares.Auth(d.Users),
			middlewares.RedirectIfAuthenticated(middlewares.DefaultLandingPath),
		),
		authflow.WithHandlers(
			handlers.NewAuth(d.Users, d.Hasher, d.Jobs),
			handlers.NewChecks(d.Users, handlers.WithLookupCache(d.CheckCache, cfg.CheckCacheTTL)),
			handlers.NewPages(),
		),
		authflow.WithStaticFiles("/public/", static.FS, "."),
	}

	checks := make([]authflow.HealthOption, 0, len(d.Readiness))
	for _, name := range slices.Sorted(maps.Keys(d.Readiness)) {
		checks = append(checks, authflow.WithReadinessCheck(name, d.Readiness[name]))
	}
	opts = append(opts, authflow.WithHealthChecks(checks...))

	if d.JobManager != nil {
		opts = append(opts, authflow.WithJobs(d.JobManager))
	}
	return authflow.New(opts...)
}
